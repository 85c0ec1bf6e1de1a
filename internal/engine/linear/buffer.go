package linear

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxBufferSize is the default capacity of a linear-mode buffer in bytes.
const MaxBufferSize = 220

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithMaxSize sets the buffer capacity in bytes. Values below 1 are ignored.
func WithMaxSize(n int) BufferOption {
	return func(b *Buffer) {
		if n > 0 {
			b.maxSize = n
		}
	}
}

// Buffer is the bounded text buffer edited in linear mode. The cursor is a
// byte offset that always sits on a grapheme cluster boundary. Edits that
// would exceed the capacity are rejected whole with ErrBufferFull.
type Buffer struct {
	text    string
	cursor  int
	maxSize int
}

// NewBuffer creates an empty buffer.
func NewBuffer(opts ...BufferOption) *Buffer {
	b := &Buffer{maxSize: MaxBufferSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Text returns the buffer content.
func (b *Buffer) Text() string {
	return b.text
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// MaxSize returns the capacity in bytes.
func (b *Buffer) MaxSize() int {
	return b.maxSize
}

// IsEmpty reports whether the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.text == ""
}

// Cursor returns the cursor byte offset.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Width returns the display width of the content in cells.
func (b *Buffer) Width() int {
	return uniseg.StringWidth(b.text)
}

// CursorColumn returns the display column of the cursor.
func (b *Buffer) CursorColumn() int {
	return uniseg.StringWidth(b.text[:b.cursor])
}

// SetText replaces the content and puts the cursor at the end.
func (b *Buffer) SetText(s string) error {
	if len(s) > b.maxSize {
		return ErrBufferFull
	}
	if !utf8.ValidString(s) {
		return ErrRangeInvalid
	}
	b.text = s
	b.cursor = len(s)
	return nil
}

// SetCursor moves the cursor to byte offset off, which must be a grapheme
// boundary.
func (b *Buffer) SetCursor(off int) error {
	if off < 0 || off > len(b.text) {
		return ErrOffsetOutOfRange
	}
	if !b.isBoundary(off) {
		return ErrInvalidOffset
	}
	b.cursor = off
	return nil
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.text = ""
	b.cursor = 0
}

// Insert inserts text at the given offset and returns the end offset of the
// inserted text.
func (b *Buffer) Insert(offset int, text string) (int, error) {
	return b.Replace(offset, offset, text)
}

// Delete removes text in [start, end).
func (b *Buffer) Delete(start, end int) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces [start, end) with text and returns the end offset of the
// replacement. The cursor is shifted to stay on the same content.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	if start < 0 || start > end || end > len(b.text) {
		return 0, ErrRangeInvalid
	}
	if !utf8.ValidString(text) {
		return 0, ErrRangeInvalid
	}
	if len(b.text)-(end-start)+len(text) > b.maxSize {
		return 0, ErrBufferFull
	}
	b.text = b.text[:start] + text + b.text[end:]
	switch {
	case b.cursor >= end:
		b.cursor += len(text) - (end - start)
	case b.cursor > start:
		b.cursor = start + len(text)
	}
	return start + len(text), nil
}

// InsertAtCursor inserts text at the cursor and moves the cursor past it.
func (b *Buffer) InsertAtCursor(text string) error {
	end, err := b.Insert(b.cursor, text)
	if err != nil {
		return err
	}
	b.cursor = end
	return nil
}

// MoveLeft moves the cursor one grapheme cluster left.
func (b *Buffer) MoveLeft() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor = b.prevBoundary(b.cursor)
	return true
}

// MoveRight moves the cursor one grapheme cluster right.
func (b *Buffer) MoveRight() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(b.text[b.cursor:], -1)
	b.cursor += len(cluster)
	return true
}

// MoveHome moves the cursor to the start.
func (b *Buffer) MoveHome() bool {
	moved := b.cursor != 0
	b.cursor = 0
	return moved
}

// MoveEnd moves the cursor to the end.
func (b *Buffer) MoveEnd() bool {
	moved := b.cursor != len(b.text)
	b.cursor = len(b.text)
	return moved
}

// DeleteBackward removes the grapheme cluster left of the cursor.
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	start := b.prevBoundary(b.cursor)
	_ = b.Delete(start, b.cursor)
	return true
}

// DeleteForward removes the grapheme cluster right of the cursor.
func (b *Buffer) DeleteForward() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(b.text[b.cursor:], -1)
	_ = b.Delete(b.cursor, b.cursor+len(cluster))
	return true
}

func (b *Buffer) prevBoundary(off int) int {
	prev := 0
	g := uniseg.NewGraphemes(b.text)
	for g.Next() {
		start, end := g.Positions()
		if end >= off {
			return start
		}
		prev = end
	}
	return prev
}

func (b *Buffer) isBoundary(off int) bool {
	if off == 0 || off == len(b.text) {
		return true
	}
	g := uniseg.NewGraphemes(b.text)
	for g.Next() {
		start, _ := g.Positions()
		if start == off {
			return true
		}
		if start > off {
			return false
		}
	}
	return false
}
