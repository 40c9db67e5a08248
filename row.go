package delimhuff

import "fmt"

// RowEngine chains an ordered list of Engines for multi-field payloads
// (spec.md §4.6). Encoding threads one BitStream window through every
// field's Engine and exhausts it once at the end; decoding lets each
// field's Engine consume bits until it reaches its own delimiter.
type RowEngine struct {
	engines []*Engine
}

// SpawnRowEngine builds a RowEngine over engines, one per field position.
func SpawnRowEngine(engines []*Engine) *RowEngine {
	cp := make([]*Engine, len(engines))
	copy(cp, engines)
	return &RowEngine{engines: cp}
}

func (r *RowEngine) checkFieldCount(n int) {
	if n != len(r.engines) {
		panic(PrecondError{Msg: fmt.Sprintf("row engine has %d fields, got %d", len(r.engines), n)})
	}
}

// EncodeInto encodes fields in order, threading one BitStream window across
// all of them and exhausting it once at the end, appending the result to
// dst. len(fields) must equal the number of engines.
func (r *RowEngine) EncodeInto(fields [][]byte, dst []byte) []byte {
	r.checkFieldCount(len(fields))
	stream := BitStream{}
	for i, f := range fields {
		dst, stream = r.engines[i].EncodeInto(f, dst, stream)
	}
	dst, _ = stream.Exhaust(dst)
	return dst
}

// EncodedLen returns the byte length EncodeInto would produce for fields,
// without materializing output — the per-field bit counts are summed before
// the single final byte-alignment rounding, matching how EncodeInto shares
// one window across all fields.
func (r *RowEngine) EncodedLen(fields [][]byte) int {
	r.checkFieldCount(len(fields))
	bits := 0
	for i, f := range fields {
		bits += r.engines[i].encodedBits(f)
	}
	return ByteSize(bits)
}

// DecodeInto decodes src into one field per engine, each field's decoder
// consuming bits until it reaches its own delimiter. len(fields) must equal
// the number of engines; fields[i] is used only for its capacity (decoded
// bytes are appended starting from a zero-length slice backed by it).
func (r *RowEngine) DecodeInto(src []byte, fields [][]byte) [][]byte {
	r.checkFieldCount(len(fields))
	bitOffset := 0
	out := make([][]byte, len(fields))
	for i := range r.engines {
		var dst []byte
		bitOffset, dst = r.engines[i].DecodeInto(src, bitOffset, fields[i][:0])
		out[i] = dst
	}
	return out
}

// DecodedLens returns the decoded byte length of each field in src without
// materializing any output — the row-engine counterpart of the original
// source's count_decode, which walked the same tree structure purely to
// measure output size.
func (r *RowEngine) DecodedLens(src []byte, fieldCount int) []int {
	r.checkFieldCount(fieldCount)
	lens := make([]int, fieldCount)
	bitOffset := 0
	for i := range r.engines {
		s := &countByteSink{}
		bitOffset = r.engines[i].decodeSlowWith(src, bitOffset, s)
		lens[i] = s.n
	}
	return lens
}
