// Package layout provides the two-dimensional document model of a math field.
//
// A layout is a tree of nodes stored in an arena and addressed by stable
// Handle values. Each node has a Kind:
//
//   - KindSequence: an ordered, editable run of nodes rendered left to right
//   - KindCodePoint: a single printable symbol (a leaf)
//   - KindFraction, KindPower, KindSubscript, KindRoot, KindBracket, KindMatrix:
//     compound nodes whose children ("cells") are always sequences
//
// The root of a tree is always a sequence, and sequences never contain
// sequences directly. Every non-root node records its parent handle; the
// parent's child list is the owning edge.
//
// # Capacity
//
// A tree enforces a ceiling on the number of live nodes (DefaultMaxNodes by
// default). Allocations that would exceed it fail with ErrCapacityExceeded
// and leave the tree untouched.
//
// # Basic Usage
//
//	t := layout.New()
//	two, _ := t.NewLeaf('2')
//	_ = t.InsertChild(t.Root(), 0, two)
//
//	frac, _ := t.NewCompound(layout.KindFraction)
//	_ = t.Wrap(t.Root(), 0, 1, frac, layout.FractionNumerator)
//
//	fmt.Println(t.Dump(t.Root())) // [frac([2],[])]
//
// # Thread Safety
//
// Trees are not safe for concurrent use. A math field owns exactly one tree
// and drives it from a single event loop.
package layout
