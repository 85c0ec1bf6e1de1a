package cursor

import "github.com/dshills/mathfield/internal/engine/layout"

// Direction is a navigation direction.
type Direction uint8

// Navigation directions.
const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// IsHorizontal reports whether d is Left or Right.
func (d Direction) IsHorizontal() bool {
	return d == Left || d == Right
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return 0, false
}

// Geometry reports where insertion points are rendered. Vertical moves use
// it to pick the nearest column.
type Geometry interface {
	CaretX(seq Handle, index int) int
}

// Move dispatches to the primitive for dir. g may be nil for horizontal moves.
func Move(t *layout.Tree, g Geometry, c Cursor, dir Direction) (Cursor, bool) {
	switch dir {
	case Left:
		return MoveLeft(t, c)
	case Right:
		return MoveRight(t, c)
	case Up, Down:
		return MoveVertical(t, g, c, dir)
	}
	return c, false
}

// MoveRight moves one step right. A compound right of the cursor is entered
// at the start of its first cell; a leaf is crossed. At the end of a cell the
// cursor goes to the next cell of the same compound, or just right of it.
func MoveRight(t *layout.Tree, c Cursor) (Cursor, bool) {
	c = c.Normalize(t)
	if next := c.Right(t); next != layout.NoHandle {
		if t.Kind(next).IsCompound() {
			return Inside(t, next), true
		}
		return Cursor{Seq: c.Seq, Index: c.Index + 1}, true
	}
	owner := c.Owner(t)
	if owner == layout.NoHandle {
		return c, false
	}
	if cell, ok := adjacentCell(t, owner, t.IndexInParent(c.Seq), 1); ok {
		return Cursor{Seq: t.Child(owner, cell), Index: 0}, true
	}
	return RightOf(t, owner), true
}

// MoveLeft is the mirror of MoveRight: compounds are entered at the end of
// their last cell.
func MoveLeft(t *layout.Tree, c Cursor) (Cursor, bool) {
	c = c.Normalize(t)
	if prev := c.Left(t); prev != layout.NoHandle {
		if t.Kind(prev).IsCompound() {
			cells := HorizontalCells(t, prev)
			return RightOf(t, t.Child(prev, cells[len(cells)-1])), true
		}
		return Cursor{Seq: c.Seq, Index: c.Index - 1}, true
	}
	owner := c.Owner(t)
	if owner == layout.NoHandle {
		return c, false
	}
	if cell, ok := adjacentCell(t, owner, t.IndexInParent(c.Seq), -1); ok {
		return RightOf(t, t.Child(owner, cell)), true
	}
	return LeftOf(t, owner), true
}

// MoveUp moves to the cell rendered above the cursor.
func MoveUp(t *layout.Tree, g Geometry, c Cursor) (Cursor, bool) {
	return MoveVertical(t, g, c, Up)
}

// MoveDown moves to the cell rendered below the cursor.
func MoveDown(t *layout.Tree, g Geometry, c Cursor) (Cursor, bool) {
	return MoveVertical(t, g, c, Down)
}

// MoveVertical searches the cursor's enclosing compounds, innermost first,
// for one with a cell above (or below) the one holding the cursor. The cursor
// lands on the insertion point of that cell whose column is nearest the
// current one; ties go to the leftmost. Without a target it is a no-op.
func MoveVertical(t *layout.Tree, g Geometry, c Cursor, dir Direction) (Cursor, bool) {
	c = c.Normalize(t)
	if g == nil || dir.IsHorizontal() {
		return c, false
	}
	x := g.CaretX(c.Seq, c.Index)
	for seq := c.Seq; ; {
		owner := t.Parent(seq)
		if owner == layout.NoHandle {
			return c, false
		}
		if cell, ok := VerticalTarget(t, owner, t.IndexInParent(seq), dir); ok {
			target := t.Child(owner, cell)
			return Cursor{Seq: target, Index: nearestIndex(t, g, target, x)}, true
		}
		seq = t.Parent(owner)
	}
}

func nearestIndex(t *layout.Tree, g Geometry, seq Handle, x int) int {
	best, bestDist := 0, -1
	for i := 0; i <= t.ChildCount(seq); i++ {
		d := g.CaretX(seq, i) - x
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
