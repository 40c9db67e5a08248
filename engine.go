package delimhuff

// Engine is the per-field encode/decode driver built from a single Tree's
// derived DelimTree and its three dictionaries (spec.md §4.5). An Engine is
// immutable after SpawnEngine returns and exposes only read-only operations:
// any number of concurrent encode/decode calls over disjoint buffers and
// BitStream windows are safe (spec.md §5).
type Engine struct {
	tree  *DelimNode
	enc   [DictSize]Code
	delim [wordWidth]Code
	fast  [DictSize]FastEntry
}

// SpawnEngine derives a DelimTree and its encode, delimiter, and fast decode
// dictionaries from t (spec.md §4.4, §6).
func SpawnEngine(t *Tree) *Engine {
	delimRoot := ToDelimTree(t.root)
	enc, delim := dictionarize(delimRoot)
	fast := buildFastDecode(delimRoot)
	return &Engine{tree: delimRoot, enc: enc, delim: delim, fast: fast}
}

// bitSink receives the code and raw-byte fragments an encode pass emits.
// Parameterizing encodeWith over a sink is the encoder side of spec.md §9's
// "dynamic dispatch around the bit sink": appendingSink materializes bytes,
// countingSink only tallies bit length for EncodedLen's buffer-free sizing
// pass. It mirrors the original source's BitDumpDevice template parameter.
type bitSink interface {
	code(c Code)
	byte(b byte)
}

type appendingSink struct {
	dst    []byte
	stream BitStream
}

func (s *appendingSink) code(c Code) { s.stream, s.dst = s.stream.AppendCode(c, s.dst) }
func (s *appendingSink) byte(b byte) { s.stream, s.dst = s.stream.Append(uint64(b), bitsPerByte, s.dst) }

type countingSink struct{ bits int }

func (s *countingSink) code(c Code) { s.bits += len(c) }
func (s *countingSink) byte(byte)   { s.bits += bitsPerByte }

// encodeWith drives the shared encode walk over src: one code per word,
// then the delimiter for the trailing-byte count, then the trailing bytes
// themselves verbatim (spec.md §4.5, §6's wire format).
func (e *Engine) encodeWith(src []byte, sink bitSink) {
	cycles := len(src) / wordWidth
	rem := len(src) - cycles*wordWidth
	for i := 0; i < cycles; i++ {
		var w word
		copy(w[:], src[i*wordWidth:(i+1)*wordWidth])
		sink.code(e.enc[wordIndex(w)])
	}
	sink.code(e.delim[rem])
	for i := 0; i < rem; i++ {
		sink.byte(src[cycles*wordWidth+i])
	}
}

// EncodeInto appends the wire-format encoding of src into stream, flushing
// full machine words into dst as the window fills. It does not flush the
// residual window — callers sharing one window across several fields (as
// RowEngine does) call Exhaust once at the end; EncodeAndFlush wraps a
// single-field call with that final flush.
func (e *Engine) EncodeInto(src, dst []byte, stream BitStream) ([]byte, BitStream) {
	s := &appendingSink{dst: dst, stream: stream}
	e.encodeWith(src, s)
	return s.dst, s.stream
}

// EncodeAndFlush encodes src as a complete, self-contained field and
// flushes the residual window, appending the result to dst.
func (e *Engine) EncodeAndFlush(src, dst []byte) []byte {
	dst, stream := e.EncodeInto(src, dst, BitStream{})
	dst, _ = stream.Exhaust(dst)
	return dst
}

// encodedBits returns the exact number of bits EncodeInto would append for
// src, without materializing them — used both by EncodedLen and by
// RowEngine to size a multi-field row before any byte-alignment rounding.
func (e *Engine) encodedBits(src []byte) int {
	s := &countingSink{}
	e.encodeWith(src, s)
	return s.bits
}

// EncodedLen returns the number of bytes EncodeAndFlush(src, nil) would
// produce, without materializing the output.
func (e *Engine) EncodedLen(src []byte) int {
	return ByteSize(e.encodedBits(src))
}

// byteSink receives the decoded bytes a decode pass emits. It is the
// decoder-side counterpart of bitSink, mirroring the original source's
// ByteDumpDevice template parameter (its count_decode used an empty_lambda
// sink to measure decoded length without writing it).
type byteSink interface {
	write(b []byte)
}

type appendByteSink struct{ dst []byte }

func (s *appendByteSink) write(b []byte) { s.dst = append(s.dst, b...) }

type countByteSink struct{ n int }

func (s *countByteSink) write(b []byte) { s.n += len(b) }

// decodeSlowWith walks the DelimTree one bit at a time starting at
// bitOffset in src, feeding decoded bytes to sink, until a delimiter leaf is
// hit (spec.md §4.5's slow path). It returns the bit offset just past the
// delimiter's trailing raw bytes.
func (e *Engine) decodeSlowWith(src []byte, bitOffset int, sink byteSink) int {
	buf := NewBitBuffer(src)
	cur := e.tree
	for {
		if buf.ReadBit(bitOffset) {
			cur = cur.R
		} else {
			cur = cur.L
		}
		bitOffset++
		if cur.isLeaf() {
			if cur.DelimStat != 0 {
				trailing := int(cur.DelimStat) - 1
				for i := 0; i < trailing; i++ {
					sink.write([]byte{buf.ReadByte(bitOffset)})
					bitOffset += bitsPerByte
				}
				return bitOffset
			}
			sink.write(cur.C[:])
			cur = e.tree
		}
	}
}

// DecodeInto walks the DelimTree bit by bit starting at bitOffset in src,
// appending decoded bytes to dst. It returns the new bit offset and dst.
func (e *Engine) DecodeInto(src []byte, bitOffset int, dst []byte) (int, []byte) {
	s := &appendByteSink{dst: dst}
	newOffset := e.decodeSlowWith(src, bitOffset, s)
	return newOffset, s.dst
}

// DecodeIntoChecked behaves like DecodeInto but bounds-checks bitOffset
// against bitLast on every step of the slow path, returning
// ErrTruncatedStream instead of reading past bitLast (spec.md §7's
// suggested hardening of the otherwise-undefined malformed-input case).
func (e *Engine) DecodeIntoChecked(src []byte, bitOffset, bitLast int, dst []byte) (int, []byte, error) {
	buf := NewBitBuffer(src)
	cur := e.tree
	for {
		if bitOffset >= bitLast {
			return bitOffset, dst, ErrTruncatedStream
		}
		if buf.ReadBit(bitOffset) {
			cur = cur.R
		} else {
			cur = cur.L
		}
		bitOffset++
		if cur.isLeaf() {
			if cur.DelimStat != 0 {
				trailing := int(cur.DelimStat) - 1
				for i := 0; i < trailing; i++ {
					if bitOffset+bitsPerByte > bitLast {
						return bitOffset, dst, ErrTruncatedStream
					}
					dst = append(dst, buf.ReadByte(bitOffset))
					bitOffset += bitsPerByte
				}
				return bitOffset, dst, nil
			}
			dst = append(dst, cur.C[:]...)
			cur = e.tree
		}
	}
}

// decodeFastWith walks the DelimTree while opportunistically using the fast
// decode table, per spec.md §4.5. fastEligible gates the fast path on
// having a full register word of readable slack, being at the tree root,
// and not having just latched bad_bit off an ambiguous prefix.
func (e *Engine) decodeFastWith(src []byte, bitOffset, bitLast int, sink byteSink) int {
	buf := NewBitBuffer(src)
	cur := e.tree
	badBit := false
	for {
		fastEligible := bitOffset+registerBits < bitLast && cur == e.tree && !badBit
		if fastEligible {
			prefix := uint16(buf.ReadWord(bitOffset, alphabetBits))
			entry := e.fast[prefix]
			sink.write(entry.Bytes)
			bitOffset += alphabetBits - entry.Leftover
			badBit = entry.Leftover == alphabetBits
			continue
		}
		badBit = false
		if buf.ReadBit(bitOffset) {
			cur = cur.R
		} else {
			cur = cur.L
		}
		bitOffset++
		if cur.isLeaf() {
			if cur.DelimStat != 0 {
				trailing := int(cur.DelimStat) - 1
				for i := 0; i < trailing; i++ {
					sink.write([]byte{buf.ReadByte(bitOffset)})
					bitOffset += bitsPerByte
				}
				return bitOffset
			}
			sink.write(cur.C[:])
			cur = e.tree
		}
	}
}

// DecodeFastInto decodes src[bitOffset:bitLast] using the fast decode table
// on the fast path and the bit-by-bit walk on the slow path (spec.md §4.5).
// Callers must ensure src has at least 8 bytes of addressable slack past
// the logical end of the encoded stream; see BitBuffer.ReadWord.
func (e *Engine) DecodeFastInto(src []byte, bitOffset, bitLast int, dst []byte) (int, []byte) {
	s := &appendByteSink{dst: dst}
	newOffset := e.decodeFastWith(src, bitOffset, bitLast, s)
	return newOffset, s.dst
}
