// Package delimhuff provides a multi-field Huffman codec with self-delimiting
// streams.
//
// # Overview
//
// delimhuff compresses a sequence of independently-framed byte payloads into
// a single contiguous bit stream and decompresses it back, without relying
// on an external length prefix per field. A canonical Huffman tree is built
// once over a fixed-width word alphabet (2-byte words) from a calibration
// sample, then augmented with in-band delimiter leaves that mark where each
// field ends and how many raw trailing bytes follow it. The resulting tree
// drives an Engine, and several Engines chain into a RowEngine for
// multi-field rows.
//
// # When to Use delimhuff
//
// delimhuff is a good fit when:
//   - Payloads share a known byte-pair distribution (structured records,
//     fixed-schema logs, repeated binary formats)
//   - Framing needs to live inside the bit stream itself, not in a separate
//     length header
//   - Multiple related fields should share one compact buffer
//
// # When NOT to Use delimhuff
//
// delimhuff is not suitable for:
//   - Data with no stable byte-pair distribution (the tree degrades toward
//     16 bits per 2-byte word, i.e. no compression)
//   - Workloads that need online/adaptive retraining — the tree is built
//     once and reused
//   - Streaming past the in-memory bit buffer, checksumming, or encryption —
//     none of that is in scope here
//
// # Basic Usage
//
//	sample := []byte("tommy2tonez")
//	tree := delimhuff.Build(delimhuff.Count(sample))
//	engine := delimhuff.SpawnEngine(tree)
//
//	encoded := engine.EncodeAndFlush(sample, nil)
//	_, decoded := engine.DecodeInto(encoded, 0, nil)
//	_ = decoded // == sample
//
//	// Persist the tree and rebuild an equivalent engine later.
//	data, _ := tree.MarshalBinary()
//	var tree2 delimhuff.Tree
//	tree2.UnmarshalBinary(data)
//	engine2 := delimhuff.SpawnEngine(&tree2)
//
// # Performance Characteristics
//
// Tree construction: O(DictSize log DictSize) via a binary min-heap, run
// once per calibration sample. Encoding: O(n) words plus a handful of
// trailing bytes. Decoding: amortized O(n) bytes. DecodeFastInto uses a
// precomputed per-2-byte-prefix lookup table as a fast path that decodes
// several words per table probe; it takes the slow bit-by-bit walk at field
// boundaries, within the last 64 bits before bitLast, and for prefixes that
// complete no word within 16 bits. DecodeInto always takes the bit-by-bit
// walk.
package delimhuff
