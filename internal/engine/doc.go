// Package engine provides the math field: a structural editor for 2-D
// mathematical expressions.
//
// The Engine owns one layout tree, its cursor and selection, an undo
// history and the linear-mode text buffer, and exposes the operations a
// hosting screen drives from its input events:
//
//	e := engine.New(engine.WithMaxNodes(220))
//	e.Insert('2')
//	e.Insert('/')          // 2 becomes the numerator, cursor in the denominator
//	e.Insert('3')
//	e.MoveCursor(cursor.Right)
//	fmt.Println(e.Text()) // {2}/{3}
//
// # Sub-packages
//
//   - layout: the arena-backed layout tree
//   - cursor: cursor positions, navigation and selection
//   - edit: insert, delete and selection actions with promotion and demotion
//   - linear: the text bridge (serialize, parse, dump and restore)
//   - history: snapshot undo/redo
//
// # Atomicity
//
// Every mutating call is all-or-nothing. A rejected insert (node ceiling
// reached, closing parenthesis outside a group, invalid code point) leaves
// the tree, cursor, selection and history exactly as they were and reports
// false. Moves and deletes at a structural edge are no-ops that report
// false.
//
// # Concurrency
//
// An Engine is driven by one event loop and is not safe for concurrent use.
package engine
