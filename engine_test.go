package delimhuff

import (
	"bytes"
	"math/rand"
	"testing"
)

func engineFromSample(sample []byte) *Engine {
	return SpawnEngine(Build(Count(sample)))
}

func decodeFastPadded(e *Engine, encoded []byte) []byte {
	padded := append(append([]byte{}, encoded...), make([]byte, 8)...)
	_, decoded := e.DecodeFastInto(padded, 0, len(encoded)*bitsPerByte, nil)
	return decoded
}

func roundTripSlow(e *Engine, src []byte) []byte {
	encoded := e.EncodeAndFlush(src, nil)
	_, decoded := e.DecodeInto(encoded, 0, nil)
	return decoded
}

func roundTripFast(e *Engine, src []byte) []byte {
	return decodeFastPadded(e, e.EncodeAndFlush(src, nil))
}

// TestSeedTommy2Tonez is seed scenario 1 (spec.md §8): train on B itself and
// round-trip it through both the slow and fast decoders.
func TestSeedTommy2Tonez(t *testing.T) {
	sample := []byte("tommy2tonez")
	e := engineFromSample(sample)
	if got := roundTripSlow(e, sample); !bytes.Equal(got, sample) {
		t.Fatalf("slow round-trip = %q, want %q", got, sample)
	}
	if got := roundTripFast(e, sample); !bytes.Equal(got, sample) {
		t.Fatalf("fast round-trip = %q, want %q", got, sample)
	}
}

// TestSeedEmptyInput is seed scenario 2: encoding "" emits exactly delim[0]
// flushed to ceil(|delim[0]|/8) bytes, and decoding yields an empty result.
func TestSeedEmptyInput(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	encoded := e.EncodeAndFlush(nil, nil)
	wantLen := ByteSize(e.encodedBits(nil))
	if len(encoded) != wantLen {
		t.Fatalf("encoded len = %d, want %d", len(encoded), wantLen)
	}
	if _, decoded := e.DecodeInto(encoded, 0, nil); len(decoded) != 0 {
		t.Fatalf("decoded = %v, want empty", decoded)
	}
}

// TestSeedSingleByte is seed scenario 3 (W=2): encoding a 1-byte input emits
// delim[1] followed by the raw byte, and decodes back to that byte.
func TestSeedSingleByte(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	src := []byte("A")
	encoded := e.EncodeAndFlush(src, nil)
	s, want := BitStream{}.AppendCode(e.delim[1], nil)
	s, want = s.Append(uint64('A'), bitsPerByte, want)
	want, _ = s.Exhaust(want)
	if !bytes.Equal(encoded, want) {
		t.Fatalf("encoded = %x, want delim[1] then 0x41 = %x", encoded, want)
	}
	if got := roundTripSlow(e, src); !bytes.Equal(got, src) {
		t.Fatalf("round-trip = %q, want %q", got, src)
	}
}

// TestSeedFuzzRandom30Bytes is seed scenario 4: 1,000 rounds of 30 random
// bytes, each round-tripped exactly.
func TestSeedFuzzRandom30Bytes(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez, the quick brown fox jumps over the lazy dog 0123456789"))
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		src := make([]byte, 30)
		rng.Read(src)
		got := roundTripSlow(e, src)
		if !bytes.Equal(got, src) || len(got) != len(src) {
			t.Fatalf("iteration %d: round-trip mismatch", i)
		}
	}
}

func TestBoundarySrcLenZero(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	got := roundTripSlow(e, nil)
	if len(got) != 0 {
		t.Fatalf("decoded len = %d, want 0", len(got))
	}
}

func TestBoundarySrcLenLessThanW(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	src := []byte{0x7A}
	got := roundTripSlow(e, src)
	if !bytes.Equal(got, src) {
		t.Fatalf("got %v, want %v", got, src)
	}
}

func TestBoundarySrcLenMultipleOfW(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	src := []byte("tomm")
	got := roundTripSlow(e, src)
	if !bytes.Equal(got, src) {
		t.Fatalf("got %q, want %q", got, src)
	}
}

func TestBoundarySingleDistinctWord(t *testing.T) {
	sample := bytes.Repeat([]byte{0xAB, 0xCD}, 40)
	e := engineFromSample(sample)
	for _, src := range [][]byte{nil, {0x01}, {0xAB, 0xCD}, {0xAB, 0xCD, 0x02}} {
		got := roundTripSlow(e, src)
		if !bytes.Equal(got, src) {
			t.Fatalf("src=%v got=%v", src, got)
		}
	}
}

// TestFastDecodeDelimiterWithinSingleWindow regression-tests the fix for a
// bug where a delimiter reached inside the same 16-bit fast-decode window as
// one or more preceding ordinary words caused the decoder to skip past the
// delimiter's own bits instead of stopping on it. A sample dominated by a
// single 2-byte word gives that word (and the delimiter, grafted onto the
// shallowest leaf) short codes, so a repetition plus the delimiter fits in
// one window. Each field is followed by a second, longer field in the same
// stream so that the fast path is still eligible when the decoder reaches
// the first field's delimiter.
func TestFastDecodeDelimiterWithinSingleWindow(t *testing.T) {
	sample := bytes.Repeat([]byte("AB"), 1000)
	e := engineFromSample(sample)
	for _, src := range [][]byte{[]byte("AB"), []byte("ABAB"), []byte("ABABAB")} {
		dst, s := e.EncodeInto(src, nil, BitStream{})
		dst, s = e.EncodeInto(bytes.Repeat([]byte("AB"), 64), dst, s)
		encoded, _ := s.Exhaust(dst)
		padded := append(append([]byte{}, encoded...), make([]byte, 8)...)
		_, got := e.DecodeFastInto(padded, 0, len(encoded)*bitsPerByte, nil)
		if !bytes.Equal(got, src) {
			t.Fatalf("fast decode of first field %q = %q, want %q", src, got, src)
		}
	}
}

// TestFastSlowAgreement is spec.md §8's "Fast/slow agreement" universal
// property: decode_fast(S) == decode_slow(S) for every encoded stream S.
func TestFastSlowAgreement(t *testing.T) {
	e := engineFromSample([]byte("the quick brown fox jumps over the lazy dog"))
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := rng.Intn(64)
		src := make([]byte, n)
		rng.Read(src)
		slow := roundTripSlow(e, src)
		fast := roundTripFast(e, src)
		if !bytes.Equal(slow, fast) {
			t.Fatalf("iteration %d: fast/slow disagree: slow=%v fast=%v", i, slow, fast)
		}
	}
}

// TestDeterminism is spec.md §8's "Determinism" universal property.
func TestDeterminism(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	src := []byte("tommy2tonez, reprised")
	a := e.EncodeAndFlush(src, nil)
	b := e.EncodeAndFlush(src, nil)
	if !bytes.Equal(a, b) {
		t.Fatalf("encode is not deterministic")
	}
}

func TestEncodedLenMatchesActualOutput(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	for _, src := range [][]byte{nil, {0x01}, []byte("tommy2tonez")} {
		want := len(e.EncodeAndFlush(src, nil))
		if got := e.EncodedLen(src); got != want {
			t.Fatalf("EncodedLen(%v) = %d, want %d", src, got, want)
		}
	}
}

func TestDecodeIntoCheckedReportsTruncation(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	encoded := e.EncodeAndFlush([]byte("tommy2tonez"), nil)
	truncated := encoded[:len(encoded)-1]
	_, _, err := e.DecodeIntoChecked(truncated, 0, len(truncated)*bitsPerByte, nil)
	if err != ErrTruncatedStream {
		t.Fatalf("err = %v, want ErrTruncatedStream", err)
	}
}

func TestDecodeIntoCheckedSucceedsOnWellFormedStream(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	src := []byte("tommy2tonez")
	encoded := e.EncodeAndFlush(src, nil)
	_, decoded, err := e.DecodeIntoChecked(encoded, 0, len(encoded)*bitsPerByte, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(decoded, src) {
		t.Fatalf("decoded = %q, want %q", decoded, src)
	}
}

// TestConcurrentEngineUse is spec.md §5's concurrency guarantee: any number
// of concurrent encode/decode calls over disjoint buffers on the same
// Engine are safe, since Engines are pure readers of their dictionaries
// after construction.
func TestConcurrentEngineUse(t *testing.T) {
	e := engineFromSample([]byte("tommy2tonez"))
	done := make(chan error, 32)
	for i := 0; i < 32; i++ {
		i := i
		go func() {
			src := []byte{byte(i), byte(i * 3), byte(i + 1)}
			got := roundTripSlow(e, src)
			if !bytes.Equal(got, src) {
				done <- errMismatch(src, got)
				return
			}
			done <- nil
		}()
	}
	for i := 0; i < 32; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

type mismatchError struct {
	want, got []byte
}

func (e mismatchError) Error() string { return "round-trip mismatch" }

func errMismatch(want, got []byte) error { return mismatchError{want: want, got: got} }

func BenchmarkEncode(b *testing.B) {
	e := engineFromSample([]byte("the quick brown fox jumps over the lazy dog"))
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.EncodeAndFlush(src, nil)
	}
}

func BenchmarkDecodeFast(b *testing.B) {
	e := engineFromSample([]byte("the quick brown fox jumps over the lazy dog"))
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 20)
	encoded := e.EncodeAndFlush(src, nil)
	padded := append(append([]byte{}, encoded...), make([]byte, 8)...)
	bitLast := len(encoded) * bitsPerByte
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.DecodeFastInto(padded, 0, bitLast, nil)
	}
}

// FuzzRoundtrip exercises the round-trip universal property for arbitrary
// byte slices, training the tree on each fuzzed input itself (spec.md §8
// explicitly allows "T built from B itself").
func FuzzRoundtrip(f *testing.F) {
	f.Add([]byte("tommy2tonez"))
	f.Add([]byte{})
	f.Add([]byte{0x41})
	f.Add(bytes.Repeat([]byte{0x00}, 300))
	f.Fuzz(func(t *testing.T, data []byte) {
		e := engineFromSample(data)
		got := roundTripSlow(e, data)
		if !bytes.Equal(got, data) {
			t.Fatalf("round-trip mismatch: len(in)=%d len(out)=%d", len(data), len(got))
		}
		if fastGot := roundTripFast(e, data); !bytes.Equal(fastGot, data) {
			t.Fatalf("fast round-trip mismatch: len(in)=%d len(out)=%d", len(data), len(fastGot))
		}
	})
}
