package viewport

// MarginConfig holds scroll margin configuration.
type MarginConfig struct {
	Top    int // Rows to keep above the caret
	Bottom int // Rows to keep below the caret
	Left   int // Columns to keep left of the caret
	Right  int // Columns to keep right of the caret
}

// DefaultMargins returns the margins used while browsing an expression.
func DefaultMargins() MarginConfig {
	return MarginConfig{
		Top:    1,
		Bottom: 1,
		Left:   2,
		Right:  2,
	}
}

// NoMargins returns zero margins, letting the caret touch the window edge.
// Hosts use these during active edits so content is never cropped.
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// normalize replaces negative margins with zero.
func (m MarginConfig) normalize() MarginConfig {
	return MarginConfig{
		Top:    max(m.Top, 0),
		Bottom: max(m.Bottom, 0),
		Left:   max(m.Left, 0),
		Right:  max(m.Right, 0),
	}
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.margins = m.normalize()
}

// Margins returns the configured scroll margins.
func (v *Viewport) Margins() MarginConfig {
	return v.margins
}

// maxMarginRatio limits margins to 1/3 of the window dimension so there is
// always usable space in the center.
const maxMarginRatio = 3

// EffectiveMargins returns margins adjusted for the window size.
func (v *Viewport) EffectiveMargins() MarginConfig {
	return v.effectiveMargins()
}

// effectiveMargins returns clamped margins.
func (v *Viewport) effectiveMargins() MarginConfig {
	m := v.margins
	maxVertical := v.height / maxMarginRatio
	maxHorizontal := v.width / maxMarginRatio
	return MarginConfig{
		Top:    min(m.Top, maxVertical),
		Bottom: min(m.Bottom, maxVertical),
		Left:   min(m.Left, maxHorizontal),
		Right:  min(m.Right, maxHorizontal),
	}
}
