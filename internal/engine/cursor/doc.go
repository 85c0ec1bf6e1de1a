// Package cursor provides cursor and selection management for layout trees.
//
// The cursor package handles:
//
//   - Insertion points with the Cursor type (a sequence plus a child index)
//   - Symbolic positions (LeftOf, RightOf, Inside) normalized to insertion points
//   - The four navigation primitives (MoveLeft, MoveRight, MoveUp, MoveDown)
//   - Sibling-range selections with the anchor/active model via Selection
//
// Canonical Form:
//
// A position is always stored as "before child i of sequence s". Being
// "right of node n" and "before the next sibling of n" are the same Cursor,
// so cursors compare structurally with Equals.
//
// Navigation:
//
// Moves are total: at the edge of the tree they return the input cursor and
// false. Horizontal moves step into compound nodes rather than over them;
// leaves are crossed in one step. Vertical moves need the rendered
// geometry of the tree (see Geometry) to pick the nearest column. They
// follow the drawing: Up from a base reaches its exponent, Down its
// subscript, and Up from a radicand reaches the root index.
//
// Basic usage:
//
//	c := cursor.Start(tree)
//	c, moved := cursor.MoveRight(tree, c)
//
//	sel := cursor.NewSelection(c)
//	sel, _ = cursor.Extend(tree, sel, cursor.Right)
//
// Thread Safety:
//
// Cursor and Selection are immutable value types. The navigation functions
// read the tree they are given and never mutate it.
package cursor
