package lua

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/engine/cursor"
)

// FieldModule is the name of the global table bound to an engine.
const FieldModule = "field"

// fieldBridge exposes one engine to Lua.
type fieldBridge struct {
	e *engine.Engine
}

// BindField installs the field table for e into s.
func BindField(s *State, e *engine.Engine) {
	b := &fieldBridge{e: e}
	s.RegisterModule(FieldModule, b.funcs())
}

func (b *fieldBridge) funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		// Content
		"text":     b.text,
		"set_text": b.setText,
		"dump":     b.dump,
		"is_empty": b.isEmpty,
		"size":     b.size,
		"cursor":   b.cursor,

		// Editing
		"insert":   b.insert,
		"variable": b.variable,
		"matrix":   b.matrix,
		"delete":   b.delete,
		"clear":    b.clear,
		"paste":    b.paste,

		// Navigation
		"move": b.move,
		"edge": b.edge,

		// Selection
		"select":          b.selectDir,
		"clear_selection": b.clearSelection,
		"has_selection":   b.hasSelection,
		"selected_text":   b.selectedText,
		"action":          b.action,
	}
}

// pushResult pushes true, or nil and the error message.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// checkDirection reads a direction name at n, defaulting to def.
func checkDirection(L *lua.LState, n int, def string) engine.Direction {
	name := L.OptString(n, def)
	dir, ok := cursor.ParseDirection(name)
	if !ok {
		L.ArgError(n, "unknown direction "+name)
	}
	return dir
}

// text() -> string
func (b *fieldBridge) text(L *lua.LState) int {
	L.Push(lua.LString(b.e.Text()))
	return 1
}

// set_text(s) -> true | nil, err
func (b *fieldBridge) setText(L *lua.LState) int {
	return pushResult(L, b.e.SetText(L.CheckString(1)))
}

// dump() -> string
// Returns the structural form of the tree, e.g. [frac([1],[2])].
func (b *fieldBridge) dump(L *lua.LState) int {
	t := b.e.Tree()
	L.Push(lua.LString(t.Dump(t.Root())))
	return 1
}

// is_empty() -> bool
func (b *fieldBridge) isEmpty(L *lua.LState) int {
	L.Push(lua.LBool(b.e.IsEmpty()))
	return 1
}

// size() -> width, height
func (b *fieldBridge) size(L *lua.LState) int {
	sz := b.e.MinimalSizeForOptimalDisplay()
	L.Push(lua.LNumber(sz.W))
	L.Push(lua.LNumber(sz.H))
	return 2
}

// cursor() -> offset
// Returns the cursor as a byte offset into text().
func (b *fieldBridge) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(b.e.LinearCursor()))
	return 1
}

// insert(s) -> bool
// A single rune goes through the structural insert; longer text is typed
// rune by rune as one step.
func (b *fieldBridge) insert(L *lua.LState) int {
	s := L.CheckString(1)
	if s == "" {
		L.ArgError(1, "empty text")
		return 0
	}
	var ok bool
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		ok = b.e.Insert(r)
	} else {
		ok = b.e.InsertText(s)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// variable() -> bool
func (b *fieldBridge) variable(L *lua.LState) int {
	L.Push(lua.LBool(b.e.InsertXNT()))
	return 1
}

// matrix(rows, cols) -> bool
func (b *fieldBridge) matrix(L *lua.LState) int {
	rows := L.CheckInt(1)
	cols := L.CheckInt(2)
	if rows < 1 || cols < 1 {
		L.ArgError(1, "matrix needs at least one row and column")
		return 0
	}
	L.Push(lua.LBool(b.e.InsertMatrix(rows, cols)))
	return 1
}

// delete([dir]) -> bool
// dir defaults to "left", a backspace.
func (b *fieldBridge) delete(L *lua.LState) int {
	L.Push(lua.LBool(b.e.Delete(checkDirection(L, 1, "left"))))
	return 1
}

// clear()
func (b *fieldBridge) clear(L *lua.LState) int {
	b.e.Clear()
	return 0
}

// paste() -> true | nil, err
func (b *fieldBridge) paste(L *lua.LState) int {
	return pushResult(L, b.e.Paste())
}

// move(dir) -> bool
func (b *fieldBridge) move(L *lua.LState) int {
	L.Push(lua.LBool(b.e.MoveCursor(checkDirection(L, 1, ""))))
	return 1
}

// edge([dir])
// Puts the cursor at the start ("left") or end ("right") of the field.
func (b *fieldBridge) edge(L *lua.LState) int {
	dir := checkDirection(L, 1, "right")
	if !dir.IsHorizontal() {
		L.ArgError(1, "edge takes left or right")
		return 0
	}
	b.e.PutCursorOnOneSide(dir)
	return 0
}

// select(dir) -> bool
func (b *fieldBridge) selectDir(L *lua.LState) int {
	L.Push(lua.LBool(b.e.ExtendSelection(checkDirection(L, 1, ""))))
	return 1
}

// clear_selection()
func (b *fieldBridge) clearSelection(L *lua.LState) int {
	b.e.ClearSelection()
	return 0
}

// has_selection() -> bool
func (b *fieldBridge) hasSelection(L *lua.LState) int {
	L.Push(lua.LBool(b.e.HasSelection()))
	return 1
}

// selected_text() -> string | nil, err
func (b *fieldBridge) selectedText(L *lua.LState) int {
	text, err := b.e.SelectedText()
	if err != nil {
		return pushResult(L, err)
	}
	L.Push(lua.LString(text))
	return 1
}

// action(name) -> true | nil, err
// name is one of delete, wrap-paren, wrap-square, wrap-fraction,
// wrap-root, copy, cut.
func (b *fieldBridge) action(L *lua.LState) int {
	name := L.CheckString(1)
	a, ok := engine.ParseSelectionAction(name)
	if !ok {
		L.ArgError(1, "unknown selection action "+name)
		return 0
	}
	return pushResult(L, b.e.CommitSelectionAction(a))
}
