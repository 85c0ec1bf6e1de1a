// Package viewport keeps the caret of a math field inside a fixed visible
// window.
//
// The viewport is an offset into the rendered expression's cell space plus
// the window size. It only moves in response to the caret or the content
// size changing, and then only as far as needed.
package viewport

import "github.com/dshills/mathfield/internal/renderer/geometry"

// Viewport represents the visible portion of a rendered expression.
//
// A Viewport is not safe for concurrent use; it belongs to the goroutine
// that drives its field.
type Viewport struct {
	// Offset of the window's top-left cell in content space
	x, y int

	// Window size in cells
	width  int
	height int

	// Content size; zero means unknown and leaves the offset unbounded
	contentW int
	contentH int

	margins MarginConfig
}

// Option configures a Viewport during creation.
type Option func(*Viewport)

// WithMargins sets the scroll margins.
func WithMargins(m MarginConfig) Option {
	return func(v *Viewport) {
		v.margins = m.normalize()
	}
}

// New creates a viewport with the given window size.
// Width and height are clamped to a minimum of 1.
func New(width, height int, opts ...Option) *Viewport {
	v := &Viewport{
		width:   max(width, 1),
		height:  max(height, 1),
		margins: DefaultMargins(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Width returns the window width.
func (v *Viewport) Width() int {
	return v.width
}

// Height returns the window height.
func (v *Viewport) Height() int {
	return v.height
}

// Offset returns the content coordinates of the window's top-left cell.
func (v *Viewport) Offset() (x, y int) {
	return v.x, v.y
}

// Visible returns the window as a rectangle in content space.
func (v *Viewport) Visible() geometry.Rect {
	return geometry.Rect{X: v.x, Y: v.y, W: v.width, H: v.height}
}

// Resize updates the window size and clamps the offset to the content.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetContentSize records the size of the rendered expression. The offset is
// clamped so the window never starts past content minus window.
func (v *Viewport) SetContentSize(width, height int) {
	v.contentW = max(width, 0)
	v.contentH = max(height, 0)
	v.clamp()
}

// ContentSize returns the recorded content size.
func (v *Viewport) ContentSize() (width, height int) {
	return v.contentW, v.contentH
}

// clamp keeps the offset inside [0, content-window].
func (v *Viewport) clamp() {
	if v.contentW > 0 {
		v.x = min(v.x, max(v.contentW-v.width, 0))
	}
	if v.contentH > 0 {
		v.y = min(v.y, max(v.contentH-v.height, 0))
	}
	v.x = max(v.x, 0)
	v.y = max(v.y, 0)
}

// ToScreen converts content coordinates to window coordinates. The result
// may lie outside the window.
func (v *Viewport) ToScreen(x, y int) (col, row int) {
	return x - v.x, y - v.y
}
