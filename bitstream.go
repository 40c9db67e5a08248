package delimhuff

import "encoding/binary"

// registerBits is the width of the BitStream's staging window: one machine
// word on the target architecture this codec is built for.
const registerBits = 64

// Code is a prefix code as a sequence of bits, in root-to-leaf order: the
// first element is the bit taken at the tree root.
type Code []bool

// BitStream is a register-sized staging window that accumulates bits and
// flushes aligned machine words to an output byte cursor (spec.md §4.2).
// BitStream is a value type: callers thread the returned stream through a
// chain of Append/AppendCode/Exhaust calls rather than mutating one in
// place, matching the codec's call-local, no-shared-mutable-state model
// (spec.md §5).
type BitStream struct {
	container uint64
	size      int
}

// Append pushes the low n bits of bits onto the window (n <= registerBits),
// flushing a full little-endian machine word to dst whenever the window
// fills. It returns the updated stream and dst.
func (s BitStream) Append(bits uint64, n int, dst []byte) (BitStream, []byte) {
	if n <= 0 {
		return s, dst
	}
	if n < registerBits {
		bits &= (uint64(1) << uint(n)) - 1
	}
	if s.size+n < registerBits {
		s.container |= bits << uint(s.size)
		s.size += n
		return s, dst
	}
	free := registerBits - s.size
	if free > 0 {
		s.container |= (bits & ((uint64(1) << uint(free)) - 1)) << uint(s.size)
	}
	dst = appendWord(dst, s.container)
	remaining := n - free
	if remaining == 0 {
		return BitStream{}, dst
	}
	return BitStream{container: bits >> uint(free), size: remaining}, dst
}

// AppendCode pushes code onto the window bit by bit, splitting it into
// register-sized fragments as needed — a Huffman code may, in pathological
// trees, exceed a single machine word (spec.md §6's worst-case height bound).
func (s BitStream) AppendCode(code Code, dst []byte) (BitStream, []byte) {
	for len(code) > 0 {
		n := len(code)
		if n > registerBits {
			n = registerBits
		}
		var bits uint64
		for i := 0; i < n; i++ {
			if code[i] {
				bits |= uint64(1) << uint(i)
			}
		}
		s, dst = s.Append(bits, n, dst)
		code = code[n:]
	}
	return s, dst
}

// Exhaust flushes the residual size bits as ceil(size/8) little-endian bytes
// and resets the window. After Exhaust, every bit previously appended
// appears in dst in the exact order appended, packed LSB-first within each
// byte.
func (s BitStream) Exhaust(dst []byte) ([]byte, BitStream) {
	if s.size == 0 {
		return dst, BitStream{}
	}
	if s.size == registerBits {
		return appendWord(dst, s.container), BitStream{}
	}
	n := ByteSize(s.size)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.container)
	return append(dst, buf[:n]...), BitStream{}
}

func appendWord(dst []byte, w uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], w)
	return append(dst, buf[:]...)
}
