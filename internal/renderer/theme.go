package renderer

import (
	"fmt"

	"github.com/dshills/mathfield/internal/renderer/core"
)

// Theme holds the styles the painter uses.
type Theme struct {
	Text        core.Style // leaves
	Structure   core.Style // fraction bars, radicals, delimiters
	Selection   core.Style // selected content
	Placeholder core.Style // empty cells
}

// Placeholder glyph drawn in empty cells.
const placeholderRune = '□'

// DefaultTheme returns a theme that only uses terminal default colors.
func DefaultTheme() Theme {
	return Theme{
		Text:        core.DefaultStyle(),
		Structure:   core.DefaultStyle(),
		Selection:   core.DefaultStyle().WithAttributes(core.AttrReverse),
		Placeholder: core.DefaultStyle().WithAttributes(core.AttrDim),
	}
}

// ThemeColors are the hex colors a theme is built from. Empty strings mean
// the terminal default.
type ThemeColors struct {
	Foreground string
	Background string
	Structure  string
	Selection  string
}

// NewTheme builds a theme from hex colors. Placeholders are drawn in the
// foreground faded toward the background when both are set.
func NewTheme(c ThemeColors) (Theme, error) {
	fg, err := core.ColorFromHex(c.Foreground)
	if err != nil {
		return Theme{}, fmt.Errorf("foreground: %w", err)
	}
	bg, err := core.ColorFromHex(c.Background)
	if err != nil {
		return Theme{}, fmt.Errorf("background: %w", err)
	}
	structure, err := core.ColorFromHex(c.Structure)
	if err != nil {
		return Theme{}, fmt.Errorf("structure: %w", err)
	}
	sel, err := core.ColorFromHex(c.Selection)
	if err != nil {
		return Theme{}, fmt.Errorf("selection: %w", err)
	}
	if structure.IsDefault() {
		structure = fg
	}

	base := core.Style{Foreground: fg, Background: bg}
	th := Theme{
		Text:        base,
		Structure:   base.WithForeground(structure),
		Selection:   base.WithAttributes(core.AttrReverse),
		Placeholder: base.WithAttributes(core.AttrDim),
	}
	if !sel.IsDefault() {
		th.Selection = base.WithBackground(sel)
	}
	if !fg.IsDefault() && !bg.IsDefault() {
		th.Placeholder = base.WithForeground(fg.Blend(bg, 0.6))
	}
	return th, nil
}
