package layout

import "fmt"

// Handle addresses a node in a tree's arena.
type Handle int32

// NoHandle is the zero reference: no node.
const NoHandle Handle = -1

// Kind identifies what a node represents.
type Kind uint8

// Node kinds.
const (
	KindSequence Kind = iota
	KindCodePoint
	KindFraction
	KindPower
	KindSubscript
	KindRoot
	KindBracket
	KindMatrix
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "seq"
	case KindCodePoint:
		return "cp"
	case KindFraction:
		return "frac"
	case KindPower:
		return "pow"
	case KindSubscript:
		return "sub"
	case KindRoot:
		return "root"
	case KindBracket:
		return "group"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsCompound reports whether nodes of this kind own cell sequences.
func (k Kind) IsCompound() bool {
	return k >= KindFraction && k <= KindMatrix
}

// Cell indices for the fixed-shape compound kinds.
const (
	FractionNumerator   = 0
	FractionDenominator = 1

	PowerBase     = 0
	PowerExponent = 1

	SubscriptBase  = 0
	SubscriptIndex = 1

	RootRadicand = 0
	RootIndex    = 1

	BracketInner = 0
)

// fixedCells returns the number of cells for fixed-shape compound kinds.
func fixedCells(k Kind) int {
	switch k {
	case KindFraction, KindPower, KindSubscript, KindRoot:
		return 2
	case KindBracket:
		return 1
	}
	return 0
}

// Delimiter is the bracket pair of a KindBracket node.
type Delimiter uint8

// Supported delimiters.
const (
	DelimParen Delimiter = iota
	DelimSquare
)

// Open returns the opening rune.
func (d Delimiter) Open() rune {
	if d == DelimSquare {
		return '['
	}
	return '('
}

// Close returns the closing rune.
func (d Delimiter) Close() rune {
	if d == DelimSquare {
		return ']'
	}
	return ')'
}

// DelimiterFor maps an opening or closing rune to its delimiter.
func DelimiterFor(r rune) (Delimiter, bool) {
	switch r {
	case '(', ')':
		return DelimParen, true
	case '[', ']':
		return DelimSquare, true
	}
	return 0, false
}

// node is an arena slot.
type node struct {
	kind     Kind
	parent   Handle
	children []Handle

	// Kind payloads.
	cp    rune
	delim Delimiter
	rows  int
	cols  int

	live bool
}
