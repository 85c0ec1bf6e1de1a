package cursor

import "github.com/dshills/mathfield/internal/engine/layout"

// HorizontalCells returns the cells of compound h in the order horizontal
// navigation visits them. A fraction is crossed through its numerator only;
// its denominator is reached vertically. A root's index joins the order
// only once it has content.
func HorizontalCells(t *layout.Tree, h Handle) []int {
	switch t.Kind(h) {
	case layout.KindFraction:
		return []int{layout.FractionNumerator}
	case layout.KindPower:
		return []int{layout.PowerBase, layout.PowerExponent}
	case layout.KindSubscript:
		return []int{layout.SubscriptBase, layout.SubscriptIndex}
	case layout.KindRoot:
		if t.IsEmpty(t.Child(h, layout.RootIndex)) {
			return []int{layout.RootRadicand}
		}
		return []int{layout.RootIndex, layout.RootRadicand}
	case layout.KindBracket:
		return []int{layout.BracketInner}
	case layout.KindMatrix:
		cells := make([]int, t.ChildCount(h))
		for i := range cells {
			cells[i] = i
		}
		return cells
	}
	return nil
}

// adjacentCell returns the cell after (step > 0) or before (step < 0) cell in
// horizontal order. ok is false when navigation should leave the compound.
func adjacentCell(t *layout.Tree, h Handle, cell, step int) (int, bool) {
	cells := HorizontalCells(t, h)
	for i, c := range cells {
		if c != cell {
			continue
		}
		j := i + step
		if j < 0 || j >= len(cells) {
			return 0, false
		}
		return cells[j], true
	}
	// An empty root index is off the horizontal path but can still hold
	// the cursor after a vertical move; stepping right enters the radicand.
	if t.Kind(h) == layout.KindRoot && cell == layout.RootIndex && step > 0 {
		return layout.RootRadicand, true
	}
	return 0, false
}

// VerticalTarget returns the cell reached by moving up or down from cell of
// compound h, following the rendered arrangement: a fraction's denominator is
// below its numerator, an exponent above its base, a subscript below its base,
// a root index above its radicand and matrix rows stack top to bottom.
func VerticalTarget(t *layout.Tree, h Handle, cell int, dir Direction) (int, bool) {
	type edge struct{ from, to int }
	var up, down edge
	switch t.Kind(h) {
	case layout.KindFraction:
		down = edge{layout.FractionNumerator, layout.FractionDenominator}
		up = edge{layout.FractionDenominator, layout.FractionNumerator}
	case layout.KindPower:
		up = edge{layout.PowerBase, layout.PowerExponent}
		down = edge{layout.PowerExponent, layout.PowerBase}
	case layout.KindSubscript:
		down = edge{layout.SubscriptBase, layout.SubscriptIndex}
		up = edge{layout.SubscriptIndex, layout.SubscriptBase}
	case layout.KindRoot:
		up = edge{layout.RootRadicand, layout.RootIndex}
		down = edge{layout.RootIndex, layout.RootRadicand}
	case layout.KindMatrix:
		rows, cols := t.Dims(h)
		r := cell / cols
		if dir == Up && r > 0 {
			return cell - cols, true
		}
		if dir == Down && r < rows-1 {
			return cell + cols, true
		}
		return 0, false
	default:
		return 0, false
	}
	e := down
	if dir == Up {
		e = up
	}
	if cell == e.from {
		return e.to, true
	}
	return 0, false
}
