package linear

import (
	"strings"

	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// MatrixKeyword introduces a matrix.
const MatrixKeyword = `\matrix{`

// Reserved reports whether leaf rune r must be escaped. inCell is true for
// leaves directly inside a matrix cell, where , and ; separate cells.
func Reserved(r rune, inCell bool) bool {
	switch r {
	case '\\', '{', '}', '(', ')', '[', ']', '/', '^', '_', '√':
		return true
	case ',', ';':
		return inCell
	}
	return false
}

// infixOperator returns the operator rune of an infix compound kind.
func infixOperator(k layout.Kind) (byte, bool) {
	switch k {
	case layout.KindFraction:
		return '/', true
	case layout.KindPower:
		return '^', true
	case layout.KindSubscript:
		return '_', true
	}
	return 0, false
}

// Encoding is the serialized text of a tree together with the byte offset
// of every cursor position.
type Encoding struct {
	text      string
	offsets   map[layout.Handle][]int
	positions map[int]cursor.Cursor
}

// Serialize returns the linear text of t.
func Serialize(t *layout.Tree) string {
	return Encode(t).String()
}

// Encode serializes t and records its cursor offsets.
func Encode(t *layout.Tree) *Encoding {
	e := &encoder{t: t, offsets: make(map[layout.Handle][]int)}
	e.seq(t.Root(), false)
	enc := &Encoding{
		text:      e.sb.String(),
		offsets:   e.offsets,
		positions: make(map[int]cursor.Cursor, len(e.offsets)*2),
	}
	for seq, offs := range e.offsets {
		for i, off := range offs {
			enc.positions[off] = cursor.New(seq, i)
		}
	}
	return enc
}

// String returns the serialized text.
func (e *Encoding) String() string {
	return e.text
}

// Len returns the length of the text in bytes.
func (e *Encoding) Len() int {
	return len(e.text)
}

// OffsetOf returns the byte offset of cursor position c.
func (e *Encoding) OffsetOf(c cursor.Cursor) (int, bool) {
	offs, ok := e.offsets[c.Seq]
	if !ok || c.Index < 0 || c.Index >= len(offs) {
		return 0, false
	}
	return offs[c.Index], true
}

// CursorAt returns the cursor position at byte offset off.
func (e *Encoding) CursorAt(off int) (cursor.Cursor, bool) {
	c, ok := e.positions[off]
	return c, ok
}

type encoder struct {
	t       *layout.Tree
	sb      strings.Builder
	offsets map[layout.Handle][]int
}

func (e *encoder) seq(h layout.Handle, inCell bool) {
	kids := e.t.Children(h)
	offs := make([]int, len(kids)+1)
	for i, k := range kids {
		offs[i] = e.sb.Len()
		e.item(k, inCell)
	}
	offs[len(kids)] = e.sb.Len()
	e.offsets[h] = offs
}

func (e *encoder) braced(h layout.Handle) {
	e.sb.WriteByte('{')
	e.seq(h, false)
	e.sb.WriteByte('}')
}

func (e *encoder) item(h layout.Handle, inCell bool) {
	t := e.t
	k := t.Kind(h)
	if op, ok := infixOperator(k); ok {
		e.braced(t.Child(h, 0))
		e.sb.WriteByte(op)
		e.braced(t.Child(h, 1))
		return
	}
	switch k {
	case layout.KindCodePoint:
		r := t.CodePoint(h)
		if Reserved(r, inCell) {
			e.sb.WriteByte('\\')
		}
		e.sb.WriteRune(r)
	case layout.KindRoot:
		e.sb.WriteRune('√')
		e.braced(t.Child(h, layout.RootRadicand))
		e.braced(t.Child(h, layout.RootIndex))
	case layout.KindBracket:
		d := t.Delimiter(h)
		e.sb.WriteRune(d.Open())
		e.seq(t.Child(h, layout.BracketInner), false)
		e.sb.WriteRune(d.Close())
	case layout.KindMatrix:
		_, cols := t.Dims(h)
		e.sb.WriteString(MatrixKeyword)
		for i, cell := range t.Children(h) {
			switch {
			case i == 0:
			case i%cols == 0:
				e.sb.WriteByte(';')
			default:
				e.sb.WriteByte(',')
			}
			e.seq(cell, true)
		}
		e.sb.WriteByte('}')
	}
}
