// Package linear converts between layout trees and their one-line text
// form, and holds the bounded text buffer used while a field is in linear
// mode.
//
// # Grammar
//
//	seq     := item*
//	item    := leaf | group | infix | root | matrix
//	leaf    := <rune not reserved> | '\' <reserved rune>
//	group   := '(' seq ')' | '[' seq ']'
//	infix   := '{' seq '}' ('/' | '^' | '_') '{' seq '}'
//	root    := '√' '{' seq '}' [ '{' seq '}' ]
//	matrix  := '\matrix{' cell (',' cell)* (';' cell (',' cell)*)* '}'
//
// The reserved runes are \ { } ( ) [ ] / ^ _ √, plus , and ; directly
// inside a matrix cell. Serialize always emits a root's index, so the
// grammar has a single reading for any text it produces; Parse rejects
// text it cannot read that way with a *ParseError carrying the byte offset.
//
// Every cursor position of a tree maps to a distinct byte offset of its
// serialized text, which is how Dump and Restore carry the cursor and
// selection across a round trip.
package linear
