package delimhuff

import "github.com/amazon-ion/ion-go/ion"

// treeWire is the on-wire shape of a plain Huffman tree node. spec.md §6
// names a "reflective serializer collaborator able to round-trip the plain
// Huffman tree" without specifying a format; this module uses Amazon Ion
// (github.com/amazon-ion/ion-go), the reflective struct marshaler already in
// use elsewhere in this codebase's lineage for exactly this kind of
// marshal-an-arbitrary-Go-value job. Only the plain tree is persisted — the
// DelimTree is rederived by SpawnEngine, cheaply, from the persisted tree
// plus the compile-time word width.
type treeWire struct {
	L *treeWire `ion:"l,omitempty"`
	R *treeWire `ion:"r,omitempty"`
	C []byte    `ion:"c,omitempty"`
}

func toWire(n *Node) *treeWire {
	if n == nil {
		return nil
	}
	w := &treeWire{L: toWire(n.L), R: toWire(n.R)}
	if n.isLeaf() {
		w.C = append([]byte(nil), n.C[:]...)
	}
	return w
}

func fromWire(w *treeWire) *Node {
	if w == nil {
		return nil
	}
	n := &Node{L: fromWire(w.L), R: fromWire(w.R)}
	if len(w.C) == wordWidth {
		copy(n.C[:], w.C)
	}
	return n
}

// MarshalBinary serializes t's plain Huffman tree as binary Ion.
func (t *Tree) MarshalBinary() ([]byte, error) {
	return ion.MarshalBinary(toWire(t.root))
}

// UnmarshalBinary deserializes a tree produced by MarshalBinary, replacing
// t's contents.
func (t *Tree) UnmarshalBinary(data []byte) error {
	var w treeWire
	if err := ion.Unmarshal(data, &w); err != nil {
		return err
	}
	t.root = fromWire(&w)
	return nil
}
