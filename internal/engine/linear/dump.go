package linear

import (
	"fmt"

	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/history"
	"github.com/dshills/mathfield/internal/engine/layout"
)

const (
	// NoPosition is the selection offset Dump reports when nothing is
	// selected.
	NoPosition = -1

	// TextPosition marks a dump of raw linear-mode text, restored into the
	// buffer without parsing.
	TextPosition = -2
)

// Dump writes the text of s.Tree into buf and reports the byte offsets of
// the cursor and of the selection anchor (NoPosition when there is no
// selection). It fails with ErrBufferFull, writing nothing, when buf is too
// small.
func Dump(s history.State, buf []byte) (n, cursorOffset, position int, err error) {
	enc := Encode(s.Tree)
	if enc.Len() > len(buf) {
		return 0, 0, NoPosition, fmt.Errorf("dump needs %d bytes, have %d: %w", enc.Len(), len(buf), ErrBufferFull)
	}
	c := s.Cursor.Normalize(s.Tree)
	if s.Selecting && s.Selection.Valid(s.Tree) {
		c = s.Selection.Cursor()
	}
	cursorOffset, _ = enc.OffsetOf(c)
	position = NoPosition
	if s.Selecting && s.Selection.Valid(s.Tree) {
		position, _ = enc.OffsetOf(cursor.New(s.Selection.Seq, s.Selection.Anchor))
	}
	return copy(buf, enc.String()), cursorOffset, position, nil
}

// Restore parses buf and re-establishes the cursor and selection recorded
// by Dump. A cursor offset that is not a position of the parsed tree fails
// with ErrInvalidOffset, as does a selection anchor outside the cursor's
// sequence.
func Restore(buf []byte, cursorOffset, position int, opts ...layout.Option) (history.State, error) {
	t, err := Parse(string(buf), opts...)
	if err != nil {
		return history.State{}, err
	}
	enc := Encode(t)
	c, ok := enc.CursorAt(cursorOffset)
	if !ok {
		return history.State{}, fmt.Errorf("cursor offset %d: %w", cursorOffset, ErrInvalidOffset)
	}
	s := history.State{Tree: t, Cursor: c}
	if position == NoPosition {
		return s, nil
	}
	anchor, ok := enc.CursorAt(position)
	if !ok || anchor.Seq != c.Seq {
		return history.State{}, fmt.Errorf("selection offset %d: %w", position, ErrInvalidOffset)
	}
	s.Selection = cursor.Selection{Seq: c.Seq, Anchor: anchor.Index, Active: c.Index}
	s.Selecting = true
	return s, nil
}
