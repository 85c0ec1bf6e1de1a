package edit

import (
	"unicode"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Structural code points.
const (
	FractionBar = '/'
	Caret       = '^'
	Underscore  = '_'
	RadicalSign = '√'
)

// operators end a promotion operand scan.
var operators = map[rune]bool{
	'+': true, '-': true, '*': true, '×': true, '÷': true,
	'=': true, '<': true, '>': true, ',': true, ';': true,
	'!': true, '·': true, ' ': true, '−': true, '≤': true,
	'≥': true, '≠': true,
}

// IsOperator reports whether r separates operands.
func IsOperator(r rune) bool {
	return operators[r]
}

// IsStructural reports whether inserting r builds or leaves a compound node
// rather than adding a leaf.
func IsStructural(r rune) bool {
	switch r {
	case FractionBar, Caret, Underscore, RadicalSign, '(', ')', '[', ']':
		return true
	}
	return false
}

// ValidLeaf reports whether r may be stored in a code point leaf.
func ValidLeaf(r rune) bool {
	if r == unicode.ReplacementChar || r < 0 || r > unicode.MaxRune {
		return false
	}
	if unicode.IsControl(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return false
	}
	return unicode.IsPrint(r) || r == ' '
}

// promotion describes the compound a structural rune builds.
type promotion struct {
	kind    layout.Kind
	operand int // cell receiving the operand
	target  int // cell the cursor lands in when there is an operand
	atEnd   bool
}

func promotionFor(r rune) (promotion, bool) {
	switch r {
	case FractionBar:
		return promotion{kind: layout.KindFraction, operand: layout.FractionNumerator, target: layout.FractionDenominator}, true
	case Caret:
		return promotion{kind: layout.KindPower, operand: layout.PowerBase, target: layout.PowerExponent}, true
	case Underscore:
		return promotion{kind: layout.KindSubscript, operand: layout.SubscriptBase, target: layout.SubscriptIndex}, true
	case RadicalSign:
		return promotion{kind: layout.KindRoot, operand: layout.RootRadicand, target: layout.RootRadicand, atEnd: true}, true
	}
	return promotion{}, false
}

// visualOrder returns the cells of compound h left to right, top to bottom,
// the order their contents take when the compound is demoted.
func visualOrder(t *layout.Tree, h layout.Handle) []int {
	switch t.Kind(h) {
	case layout.KindRoot:
		return []int{layout.RootIndex, layout.RootRadicand}
	}
	cells := make([]int, t.ChildCount(h))
	for i := range cells {
		cells[i] = i
	}
	return cells
}
