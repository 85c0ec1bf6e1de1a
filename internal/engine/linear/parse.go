package linear

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/mathfield/internal/engine/edit"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// context is the construct a sequence is parsed inside; it decides which
// runes end the sequence.
type context uint8

const (
	ctxTop context = iota
	ctxBrace
	ctxParen
	ctxSquare
	ctxCell
)

func (c context) stops(r rune) bool {
	switch c {
	case ctxBrace:
		return r == '}'
	case ctxParen:
		return r == ')'
	case ctxSquare:
		return r == ']'
	case ctxCell:
		return r == ',' || r == ';' || r == '}'
	}
	return false
}

// Parse builds a tree from linear text. Options configure the new tree,
// most usefully its node ceiling. Text that does not follow the grammar
// fails with a *ParseError wrapping ErrAmbiguousParse; text describing too
// many nodes fails with one wrapping layout.ErrCapacityExceeded.
func Parse(text string, opts ...layout.Option) (*layout.Tree, error) {
	p := &parser{src: text, t: layout.New(opts...)}
	items, err := p.items(ctxTop)
	if err != nil {
		return nil, err
	}
	if err := p.t.InsertChildren(p.t.Root(), 0, items); err != nil {
		return nil, p.wrap(err)
	}
	return p.t, nil
}

type parser struct {
	src   string
	pos   int
	depth int
	t     *layout.Tree
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...), Err: ErrAmbiguousParse}
}

// wrap turns a tree error into a ParseError at the current offset.
func (p *parser) wrap(err error) error {
	if errors.Is(err, layout.ErrCapacityExceeded) {
		return &ParseError{Offset: p.pos, Msg: "too many nodes", Err: err}
	}
	return &ParseError{Offset: p.pos, Msg: err.Error(), Err: ErrAmbiguousParse}
}

func (p *parser) peek() (rune, int) {
	if p.pos >= len(p.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(p.src[p.pos:])
}

func (p *parser) expect(b byte) error {
	if p.pos >= len(p.src) {
		return p.fail("expected %q, found end of text", b)
	}
	if p.src[p.pos] != b {
		r, _ := p.peek()
		return p.fail("expected %q, found %q", b, r)
	}
	p.pos++
	return nil
}

// items parses detached items until a rune that ends ctx, which is left
// unconsumed.
func (p *parser) items(ctx context) ([]layout.Handle, error) {
	if ctx != ctxTop {
		// Every nested sequence is a node, so nesting past the ceiling can
		// never build.
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > p.t.MaxNodes() {
			return nil, &ParseError{Offset: p.pos, Msg: "nested too deep", Err: layout.ErrCapacityExceeded}
		}
	}
	var out []layout.Handle
	for p.pos < len(p.src) {
		r, size := p.peek()
		if r == utf8.RuneError && size == 1 {
			return nil, p.fail("invalid UTF-8")
		}
		if ctx.stops(r) {
			return out, nil
		}
		h, err := p.item(r, size)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if ctx != ctxTop {
		return nil, p.fail("unexpected end of text")
	}
	return out, nil
}

func (p *parser) item(r rune, size int) (layout.Handle, error) {
	switch r {
	case '\\':
		if strings.HasPrefix(p.src[p.pos:], MatrixKeyword) {
			return p.matrix()
		}
		p.pos++
		esc, n := p.peek()
		if n == 0 || !Reserved(esc, true) {
			return layout.NoHandle, p.fail("unknown escape")
		}
		h, err := p.leaf(esc)
		p.pos += n
		return h, err
	case '{':
		return p.infix()
	case '√':
		return p.root(size)
	case '(', '[':
		return p.group(r)
	case ')', ']', '}', '/', '^', '_':
		return layout.NoHandle, p.fail("unexpected %q", r)
	}
	if !edit.ValidLeaf(r) {
		return layout.NoHandle, p.fail("invalid character %U", r)
	}
	h, err := p.leaf(r)
	p.pos += size
	return h, err
}

func (p *parser) leaf(r rune) (layout.Handle, error) {
	h, err := p.t.NewLeaf(r)
	if err != nil {
		return layout.NoHandle, p.wrap(err)
	}
	return h, nil
}

// cell parses '{' seq '}'.
func (p *parser) cell() ([]layout.Handle, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	items, err := p.items(ctxBrace)
	if err != nil {
		return nil, err
	}
	return items, p.expect('}')
}

// fill builds a compound from its cell contents.
func (p *parser) fill(h layout.Handle, cells ...[]layout.Handle) (layout.Handle, error) {
	for i, items := range cells {
		if err := p.t.InsertChildren(p.t.Child(h, i), 0, items); err != nil {
			return layout.NoHandle, p.wrap(err)
		}
	}
	return h, nil
}

func (p *parser) infix() (layout.Handle, error) {
	first, err := p.cell()
	if err != nil {
		return layout.NoHandle, err
	}
	if p.pos >= len(p.src) {
		return layout.NoHandle, p.fail("expected operator after group")
	}
	var kind layout.Kind
	switch p.src[p.pos] {
	case '/':
		kind = layout.KindFraction
	case '^':
		kind = layout.KindPower
	case '_':
		kind = layout.KindSubscript
	default:
		return layout.NoHandle, p.fail("expected '/', '^' or '_' after group")
	}
	p.pos++
	second, err := p.cell()
	if err != nil {
		return layout.NoHandle, err
	}
	h, err := p.t.NewCompound(kind)
	if err != nil {
		return layout.NoHandle, p.wrap(err)
	}
	return p.fill(h, first, second)
}

func (p *parser) root(size int) (layout.Handle, error) {
	p.pos += size
	rad, err := p.cell()
	if err != nil {
		return layout.NoHandle, err
	}
	var idx []layout.Handle
	if p.pos < len(p.src) && p.src[p.pos] == '{' {
		if idx, err = p.cell(); err != nil {
			return layout.NoHandle, err
		}
	}
	h, err := p.t.NewCompound(layout.KindRoot)
	if err != nil {
		return layout.NoHandle, p.wrap(err)
	}
	return p.fill(h, rad, idx)
}

func (p *parser) group(open rune) (layout.Handle, error) {
	d, _ := layout.DelimiterFor(open)
	ctx := ctxParen
	if d == layout.DelimSquare {
		ctx = ctxSquare
	}
	p.pos++
	inner, err := p.items(ctx)
	if err != nil {
		return layout.NoHandle, err
	}
	if err := p.expect(byte(d.Close())); err != nil {
		return layout.NoHandle, err
	}
	h, err := p.t.NewBracket(d)
	if err != nil {
		return layout.NoHandle, p.wrap(err)
	}
	return p.fill(h, inner)
}

func (p *parser) matrix() (layout.Handle, error) {
	p.pos += len(MatrixKeyword)
	var rows [][][]layout.Handle
	row := [][]layout.Handle{}
	for {
		items, err := p.items(ctxCell)
		if err != nil {
			return layout.NoHandle, err
		}
		row = append(row, items)
		sep := p.src[p.pos]
		if sep == ',' {
			p.pos++
			continue
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return layout.NoHandle, p.fail("matrix row %d has %d cells, want %d", len(rows)+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
		row = [][]layout.Handle{}
		p.pos++
		if sep == '}' {
			break
		}
	}
	h, err := p.t.NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		return layout.NoHandle, p.wrap(err)
	}
	var cells [][]layout.Handle
	for _, r := range rows {
		cells = append(cells, r...)
	}
	return p.fill(h, cells...)
}
