package engine

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/history"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/engine/linear"
)

// normalize puts text in NFC so composed and decomposed input build the
// same leaves.
func normalize(s string) string {
	return norm.NFC.String(s)
}

// Text returns the content as linear text. In linear mode this is the
// buffer being edited.
func (e *Engine) Text() string {
	if e.linearMode {
		return e.buf.Text()
	}
	return linear.Serialize(e.tree)
}

// SetText replaces the content with linear text. Text longer than the
// buffer capacity fails with a capacity error; text that does not parse
// fails with a *linear.ParseError. Either way the content is unchanged.
// In linear mode the buffer is replaced without parsing.
func (e *Engine) SetText(text string) error {
	text = normalize(text)
	if len(text) > e.maxBufferSize {
		return fmt.Errorf("%d bytes: %w", len(text), linear.ErrBufferFull)
	}
	if e.linearMode {
		if err := e.buf.SetText(text); err != nil {
			return err
		}
		e.notify(ChangeContent)
		return nil
	}
	parsed, err := linear.Parse(text, layout.WithMaxNodes(e.maxNodes))
	if err != nil {
		e.logger.Warn("set text rejected: %v", err)
		return err
	}
	return e.apply("Set text", func() (Cursor, error) {
		e.tree.Restore(parsed)
		return cursor.End(e.tree), nil
	})
}

// IsLinearMode reports whether the field is edited as flat text.
func (e *Engine) IsLinearMode() bool {
	return e.linearMode
}

// SetLinearMode switches between 2-D and linear editing. Entering linear
// mode serializes the tree into the buffer, keeping the cursor on the same
// position. Leaving it parses the buffer; if the text does not parse, or
// its canonical form would not fit the buffer, the field stays in linear
// mode and the error is returned.
func (e *Engine) SetLinearMode(on bool) error {
	if on == e.linearMode {
		return nil
	}
	if on {
		e.clearSelection()
		enc := linear.Encode(e.tree)
		if err := e.buf.SetText(enc.String()); err != nil {
			return err
		}
		if off, ok := enc.OffsetOf(e.cur); ok {
			_ = e.buf.SetCursor(off)
		}
		e.linearMode = true
		e.notify(ChangeMode)
		return nil
	}

	parsed, err := linear.Parse(e.buf.Text(), layout.WithMaxNodes(e.maxNodes))
	if err == nil {
		err = e.checkTextSize(parsed)
	}
	if err != nil {
		e.logger.Warn("leaving linear mode: %v", err)
		return err
	}
	before := e.State()
	enc := linear.Encode(parsed)
	c, ok := enc.CursorAt(e.buf.Cursor())
	if !ok {
		c = cursor.End(parsed)
	}
	e.tree.Restore(parsed)
	if !layout.Equal(before.Tree, e.tree) {
		e.history.Record(before, "Edit as text")
	}
	e.cur = c
	e.metrics = nil
	e.linearMode = false
	e.notify(ChangeMode)
	return nil
}

func (e *Engine) linearInsert(text string) error {
	if err := e.buf.InsertAtCursor(text); err != nil {
		e.logger.Debug("linear insert rejected: %v", err)
		return err
	}
	e.notify(ChangeContent)
	return nil
}

// LinearCursor returns the byte offset of the cursor in Text.
func (e *Engine) LinearCursor() int {
	if e.linearMode {
		return e.buf.Cursor()
	}
	off, _ := linear.Encode(e.tree).OffsetOf(e.cur)
	return off
}

// ============================================================================
// Dump/Restore
// ============================================================================

// DumpContent writes the content into buf and reports the cursor offset and
// the selection anchor offset (linear.NoPosition when nothing is selected).
// In linear mode the raw buffer text is written and position is
// linear.TextPosition. It fails with a capacity error, writing nothing, if
// buf is too small.
func (e *Engine) DumpContent(buf []byte) (n, cursorOffset, position int, err error) {
	if e.linearMode {
		text := e.buf.Text()
		if len(text) > len(buf) {
			return 0, 0, linear.NoPosition, linear.ErrBufferFull
		}
		return copy(buf, text), e.buf.Cursor(), linear.TextPosition, nil
	}
	return linear.Dump(history.State{
		Tree:      e.tree,
		Cursor:    e.cur,
		Selection: e.sel,
		Selecting: e.selecting,
	}, buf)
}

// RestoreContent replaces the content, cursor and selection with a dump and
// clears the history. A dump taken in linear mode restores the buffer and
// its cursor as they were, without parsing; any other dump leaves linear
// mode. Dumps longer than the buffer capacity are rejected. On error
// nothing changes.
func (e *Engine) RestoreContent(buf []byte, cursorOffset, position int) error {
	if len(buf) > e.maxBufferSize {
		return fmt.Errorf("restore %d bytes: %w", len(buf), linear.ErrBufferFull)
	}
	if position == linear.TextPosition {
		return e.restoreLinear(string(buf), cursorOffset)
	}
	s, err := linear.Restore(buf, cursorOffset, position, layout.WithMaxNodes(e.maxNodes))
	if err == nil {
		err = e.checkTextSize(s.Tree)
	}
	if err != nil {
		e.logger.Warn("restore rejected: %v", err)
		return err
	}
	e.linearMode = false
	e.buf.Clear()
	e.history.Clear()
	e.view.ScrollTo(0, 0)
	e.restoreState(s)
	return nil
}

func (e *Engine) restoreLinear(text string, cursorOffset int) error {
	b := linear.NewBuffer(linear.WithMaxSize(e.maxBufferSize))
	if err := b.SetText(text); err != nil {
		return err
	}
	if err := b.SetCursor(cursorOffset); err != nil {
		return fmt.Errorf("cursor offset %d: %w", cursorOffset, err)
	}
	e.buf = b
	e.tree.Clear()
	e.cur = cursor.Start(e.tree)
	e.sel = cursor.Selection{}
	e.selecting = false
	e.metrics = nil
	e.history.Clear()
	e.linearMode = true
	e.view.ScrollTo(0, 0)
	e.notify(ChangeMode)
	return nil
}

// checkTextSize fails with a capacity error when t's linear text would not
// fit the buffer, so every tree the field holds can enter linear mode.
func (e *Engine) checkTextSize(t *layout.Tree) error {
	if n := len(linear.Serialize(t)); n > e.maxBufferSize {
		return fmt.Errorf("text of %d bytes: %w", n, linear.ErrBufferFull)
	}
	return nil
}
