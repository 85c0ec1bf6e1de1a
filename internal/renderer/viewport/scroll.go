package viewport

import "github.com/dshills/mathfield/internal/renderer/geometry"

// ScrollTo moves the window's top-left cell to (x, y), clamped to the
// content.
func (v *Viewport) ScrollTo(x, y int) {
	v.x, v.y = x, y
	v.clamp()
}

// ScrollToRect scrolls minimally so that r, plus the effective margins, is
// inside the window, and returns the offset change. When r cannot fit, the
// margins are dropped first; if it still does not fit, the baseline row
// (and the left edge of r) is kept visible instead. Nothing moves when r is
// already in view.
func (v *Viewport) ScrollToRect(r geometry.Rect, baseline int) (dx, dy int) {
	m := v.effectiveMargins()
	x, y := v.x, v.y

	lo, hi := r.Y, r.Bottom()
	if hi-lo > v.height {
		lo, hi = baseline, baseline+1
	}
	v.y = reveal(v.y, v.height, lo, hi, m.Top, m.Bottom)

	lo, hi = r.X, r.Right()
	if hi-lo > v.width {
		hi = lo + 1
	}
	v.x = reveal(v.x, v.width, lo, hi, m.Left, m.Right)

	v.clamp()
	return v.x - x, v.y - y
}

// reveal returns the offset closest to off whose window [off, off+size)
// contains [lo, hi) padded by the margins, dropping the margins when the
// padded span is wider than the window.
func reveal(off, size, lo, hi, before, after int) int {
	if hi-lo+before+after > size {
		before, after = 0, 0
	}
	lo -= before
	hi += after
	switch {
	case lo < off:
		return lo
	case hi > off+size:
		return hi - size
	}
	return off
}
