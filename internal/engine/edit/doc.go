// Package edit implements the structural edit engine of the math field.
//
// Every operation takes the layout tree and a cursor (or selection)
// explicitly and returns the new cursor. Operations are all-or-nothing: an
// edit that cannot be applied returns an error and leaves the tree exactly
// as it was.
//
// # Promotion
//
// Typing a structural code point wraps the operand immediately left of the
// cursor into a new compound node:
//
//	a/   ->  frac([a], [|])
//	x^   ->  pow([x], [|])
//	x_   ->  sub([x], [|])
//	√    ->  root([|], [])
//	(    ->  paren([|])
//
// The operand is the compound node or non-operator leaf left of the cursor.
// Demotion, the inverse, happens when deleting backward at the start of a
// compound's cell: the cells are spliced back into the parent sequence.
package edit
