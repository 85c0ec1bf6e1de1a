// Package backend provides the drawing surface and input source a math
// field host renders to.
package backend

import (
	"strings"

	"github.com/dshills/mathfield/internal/renderer/core"
)

// EventType says which fields of an Event are set.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventInterrupt
)

// Event is one unit of input delivered to the host.
type Event struct {
	Type EventType

	// EventKey. Rune is set when Key is KeyRune.
	Key  Key
	Rune rune
	Mod  ModMask

	// EventResize
	Width, Height int

	// PasteStart is true at the start of a bracketed paste, false at its end.
	PasteStart bool
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

// CtrlKey returns the KeyCtrl constant for a letter, or KeyNone.
func CtrlKey(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyCtrlA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyCtrlA + Key(r-'A')
	}
	return KeyNone
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Backend is a grid of character cells plus the input that drives it. The
// painter writes a whole frame with SetCell and then calls Show.
type Backend interface {
	// Init prepares the surface; nothing else may be called before it.
	Init() error
	// Shutdown restores the terminal and wakes a blocked PollEvent.
	Shutdown()

	Size() (width, height int)
	// SetCell ignores positions off the surface.
	SetCell(x, y int, cell core.Cell)
	// GetCell returns an empty cell for positions off the surface.
	GetCell(x, y int) core.Cell
	Clear()
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event
	PostEvent(event Event)

	// Beep signals a rejected edit.
	Beep()
}

// NullBackend is an in-memory backend for tests and headless rendering.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	beeps         int
	events        chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		events: make(chan Event, 100),
	}
	b.Resize(width, height)
	return b
}

func (b *NullBackend) Init() error { return nil }

// Shutdown wakes a pending PollEvent with an interrupt.
func (b *NullBackend) Shutdown() {
	b.PostEvent(Event{Type: EventInterrupt})
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) Beep() { b.beeps++ }

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int {
	return b.beeps
}

// Resize simulates a resize, clearing the surface.
func (b *NullBackend) Resize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
	}
	b.Clear()
}

// String returns the surface as text, one line per row with trailing
// blanks trimmed and continuation cells skipped.
func (b *NullBackend) String() string {
	lines := make([]string, b.height)
	for y, row := range b.cells {
		var sb strings.Builder
		for _, c := range row {
			if !c.IsContinuation() {
				sb.WriteRune(c.Rune)
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}
