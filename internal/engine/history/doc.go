// Package history provides undo/redo for the math field.
//
// Layout trees are small (a few hundred nodes at most), so history stores
// whole snapshots rather than inverse operations. A snapshot is a State:
// a cloned tree plus the cursor and selection that went with it.
//
// # History Stack
//
// The caller records the state from before each successful edit:
//
//	h := history.New(100)
//
//	before := field.State()
//	if err := applyEdit(); err == nil {
//	    h.Record(before, "Type 'x'")
//	}
//
//	// Undo hands back the previous state and keeps the current one for redo.
//	prev, err := h.Undo(field.State())
//
// # Grouping
//
// Edits recorded between BeginGroup and EndGroup undo as one unit: only the
// state before the first of them is kept. Groups nest, and CancelGroup
// abandons only the innermost one. Transaction wraps the pattern:
//
//	err := h.Transaction("Run script", func() error {
//	    return script.Run()
//	})
package history
