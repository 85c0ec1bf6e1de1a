package cursor

import (
	"math/rand"
	"testing"

	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/renderer/geometry"
)

// Helpers to build trees by hand.

func leaves(t *testing.T, tr *layout.Tree, seq Handle, s string) {
	t.Helper()
	for _, r := range s {
		h, err := tr.NewLeaf(r)
		if err != nil {
			t.Fatal(err)
		}
		if err := tr.InsertChild(seq, tr.ChildCount(seq), h); err != nil {
			t.Fatal(err)
		}
	}
}

func addCompound(t *testing.T, tr *layout.Tree, seq Handle, k layout.Kind, cells ...string) Handle {
	t.Helper()
	h, err := tr.NewCompound(k)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.InsertChild(seq, tr.ChildCount(seq), h); err != nil {
		t.Fatal(err)
	}
	for i, s := range cells {
		leaves(t, tr, tr.Child(h, i), s)
	}
	return h
}

// Cursor Tests

func TestNewCursorNegative(t *testing.T) {
	c := New(0, -3)
	if c.Index != 0 {
		t.Errorf("negative index should clamp to 0, got %d", c.Index)
	}
}

func TestSymbolicPositionsAreCanonical(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "ab")
	a := tr.Child(tr.Root(), 0)
	b := tr.Child(tr.Root(), 1)

	if !RightOf(tr, a).Equals(LeftOf(tr, b)) {
		t.Error("right of a and left of b should be the same cursor")
	}
	if !RightOf(tr, a).Equals(New(tr.Root(), 1)) {
		t.Errorf("expected before-sibling-1 form, got %s", RightOf(tr, a))
	}
	if !Inside(tr, a).Equals(LeftOf(tr, a)) {
		t.Error("inside of a leaf should fall back to left of it")
	}
}

func TestInsideCompound(t *testing.T) {
	tr := layout.New()
	pow := addCompound(t, tr, tr.Root(), layout.KindPower, "x", "2")
	c := Inside(tr, pow)
	if c.Seq != tr.Child(pow, layout.PowerBase) || c.Index != 0 {
		t.Errorf("expected start of base, got %s", c)
	}
}

func TestNormalize(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "ab")
	if c := New(tr.Root(), 9).Normalize(tr); c.Index != 2 {
		t.Errorf("expected clamp to 2, got %d", c.Index)
	}
	if c := New(layout.Handle(77), 1).Normalize(tr); !c.Equals(Start(tr)) {
		t.Errorf("dangling cursor should fall back to start, got %s", c)
	}
}

func TestValid(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "a")
	if !New(tr.Root(), 1).Valid(tr) {
		t.Error("end position should be valid")
	}
	if New(tr.Root(), 2).Valid(tr) {
		t.Error("index past end should be invalid")
	}
	if New(tr.Child(tr.Root(), 0), 0).Valid(tr) {
		t.Error("a leaf cannot hold a cursor")
	}
}

// Navigation Tests

func walk(tr *layout.Tree, c Cursor, dir Direction) []Cursor {
	var path []Cursor
	for {
		next, moved := Move(tr, nil, c, dir)
		if !moved {
			return path
		}
		path = append(path, next)
		c = next
	}
}

func TestMoveRightThroughFraction(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "a")
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "1", "2")
	leaves(t, tr, tr.Root(), "b")
	num := tr.Child(frac, layout.FractionNumerator)
	root := tr.Root()

	want := []Cursor{
		{root, 1}, {num, 0}, {num, 1}, {root, 2}, {root, 3},
	}
	got := walk(tr, Start(tr), Right)
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Left is the mirror image.
	back := walk(tr, End(tr), Left)
	wantBack := []Cursor{{root, 2}, {num, 1}, {num, 0}, {root, 1}, {root, 0}}
	if len(back) != len(wantBack) {
		t.Fatalf("expected %d steps back, got %d: %v", len(wantBack), len(back), back)
	}
	for i := range wantBack {
		if !back[i].Equals(wantBack[i]) {
			t.Errorf("back step %d: expected %s, got %s", i, wantBack[i], back[i])
		}
	}
}

func TestMoveAtEdgesIsNoOp(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "a")
	if c, moved := MoveLeft(tr, Start(tr)); moved || !c.Equals(Start(tr)) {
		t.Error("move left at start should be a no-op")
	}
	if c, moved := MoveRight(tr, End(tr)); moved || !c.Equals(End(tr)) {
		t.Error("move right at end should be a no-op")
	}
	if _, moved := MoveUp(tr, geometry.Compute(tr), Start(tr)); moved {
		t.Error("move up in a flat row should be a no-op")
	}
}

func TestMoveRightThroughPower(t *testing.T) {
	tr := layout.New()
	pow := addCompound(t, tr, tr.Root(), layout.KindPower, "x", "2")
	base := tr.Child(pow, layout.PowerBase)
	exp := tr.Child(pow, layout.PowerExponent)

	want := []Cursor{{base, 0}, {base, 1}, {exp, 0}, {exp, 1}, {tr.Root(), 1}}
	got := walk(tr, Start(tr), Right)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestMoveThroughMatrixRowMajor(t *testing.T) {
	tr := layout.New()
	m, _ := tr.NewMatrix(2, 2)
	_ = tr.InsertChild(tr.Root(), 0, m)

	got := walk(tr, Start(tr), Right)
	want := []Cursor{
		{tr.Child(m, 0), 0}, {tr.Child(m, 1), 0}, {tr.Child(m, 2), 0},
		{tr.Child(m, 3), 0}, {tr.Root(), 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRootIndexJoinsPathWhenFilled(t *testing.T) {
	tr := layout.New()
	root := addCompound(t, tr, tr.Root(), layout.KindRoot, "2", "")
	rad := tr.Child(root, layout.RootRadicand)
	idx := tr.Child(root, layout.RootIndex)

	if c, _ := MoveRight(tr, Start(tr)); c.Seq != rad {
		t.Error("square root should be entered through the radicand")
	}
	leaves(t, tr, idx, "3")
	if c, _ := MoveRight(tr, Start(tr)); c.Seq != idx {
		t.Error("a filled index should be entered first")
	}
	if c, _ := MoveRight(tr, New(idx, 1)); c.Seq != rad || c.Index != 0 {
		t.Errorf("end of index should lead to the radicand, got %s", c)
	}
}

func TestMoveVerticalFraction(t *testing.T) {
	tr := layout.New()
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "12", "3")
	num := tr.Child(frac, layout.FractionNumerator)
	den := tr.Child(frac, layout.FractionDenominator)
	g := geometry.Compute(tr)

	c, moved := MoveDown(tr, g, New(num, 2))
	if !moved || c.Seq != den || c.Index != 1 {
		t.Errorf("expected end of denominator, got %s moved=%v", c, moved)
	}
	c, moved = MoveUp(tr, g, New(den, 0))
	if !moved || c.Seq != num || c.Index != 0 {
		t.Errorf("expected start of numerator, got %s moved=%v", c, moved)
	}
	if _, moved := MoveDown(tr, g, New(den, 0)); moved {
		t.Error("nothing is below the denominator")
	}
}

func TestMoveVerticalTieGoesLeft(t *testing.T) {
	tr := layout.New()
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "1", "漢")
	num := tr.Child(frac, layout.FractionNumerator)
	den := tr.Child(frac, layout.FractionDenominator)
	g := geometry.Compute(tr)

	// The wide glyph puts the denominator carets at columns 1 and 3; the
	// numerator's end caret at column 2 is equally close to both.
	if g.CaretX(num, 1) != 2 || g.CaretX(den, 0) != 1 || g.CaretX(den, 1) != 3 {
		t.Fatalf("unexpected caret columns")
	}
	c, _ := MoveDown(tr, g, New(num, 1))
	if c.Seq != den || c.Index != 0 {
		t.Errorf("tie should resolve to the leftmost caret, got %s", c)
	}
}

func TestMoveVerticalSearchesAncestors(t *testing.T) {
	tr := layout.New()
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "", "5")
	num := tr.Child(frac, layout.FractionNumerator)
	grp, _ := tr.NewBracket(layout.DelimParen)
	_ = tr.InsertChild(num, 0, grp)
	inner := tr.Child(grp, layout.BracketInner)
	leaves(t, tr, inner, "a")

	c, moved := MoveDown(tr, geometry.Compute(tr), New(inner, 1))
	if !moved || c.Seq != tr.Child(frac, layout.FractionDenominator) {
		t.Errorf("expected to reach the denominator from a nested group, got %s", c)
	}
}

func TestMoveVerticalPowerAndMatrix(t *testing.T) {
	tr := layout.New()
	pow := addCompound(t, tr, tr.Root(), layout.KindPower, "x", "2")
	m, _ := tr.NewMatrix(2, 2)
	_ = tr.InsertChild(tr.Root(), 1, m)
	g := geometry.Compute(tr)

	c, moved := MoveUp(tr, g, New(tr.Child(pow, layout.PowerBase), 1))
	if !moved || c.Seq != tr.Child(pow, layout.PowerExponent) {
		t.Errorf("up from base should reach exponent, got %s", c)
	}
	c, moved = MoveDown(tr, g, New(tr.Child(m, 1), 0))
	if !moved || c.Seq != tr.Child(m, 3) {
		t.Errorf("down from cell (0,1) should reach (1,1), got %s", c)
	}
	if _, moved := MoveDown(tr, g, New(tr.Child(m, 3), 0)); moved {
		t.Error("down from last row should be a no-op")
	}
}

func TestCursorTotality(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "a")
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "1", "")
	addCompound(t, tr, tr.Child(frac, layout.FractionDenominator), layout.KindPower, "y", "3")
	m, _ := tr.NewMatrix(2, 3)
	_ = tr.InsertChild(tr.Root(), 2, m)
	leaves(t, tr, tr.Child(m, 4), "q")
	addCompound(t, tr, tr.Root(), layout.KindRoot, "7", "n")
	addCompound(t, tr, tr.Root(), layout.KindSubscript, "u", "k")
	g := geometry.Compute(tr)

	rng := rand.New(rand.NewSource(1))
	c := Start(tr)
	for i := 0; i < 2000; i++ {
		next, _ := Move(tr, g, c, Direction(rng.Intn(4)))
		if !next.Valid(tr) {
			t.Fatalf("step %d produced invalid cursor %s from %s", i, next, c)
		}
		if !next.Equals(next.Normalize(tr)) {
			t.Fatalf("step %d produced unnormalized cursor %s", i, next)
		}
		c = next
	}
}

// Selection Tests

func TestSelectionBasics(t *testing.T) {
	s := NewRangeSelection(0, 3, 1)
	if s.Start() != 1 || s.End() != 3 || s.Len() != 2 {
		t.Errorf("unexpected bounds %d..%d", s.Start(), s.End())
	}
	if s.IsForward() {
		t.Error("selection should be backward")
	}
	if !s.Contains(2) || s.Contains(3) {
		t.Error("Contains should cover [start, end)")
	}
	if c := s.Collapse(); c.Index != 1 {
		t.Errorf("collapse should keep the active edge, got %d", c.Index)
	}
}

func TestExtendSelection(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "abc")

	s := NewSelection(New(tr.Root(), 1))
	s, _ = Extend(tr, s, Right)
	s, _ = Extend(tr, s, Right)
	if s.Start() != 1 || s.End() != 3 {
		t.Errorf("expected b,c selected, got %s", s)
	}
	if _, ok := Extend(tr, s, Right); ok {
		t.Error("extending past the root end should be a no-op")
	}
	if _, ok := Extend(tr, s, Up); ok {
		t.Error("vertical extension should be a no-op")
	}
}

func TestExtendSelectionLiftsToParent(t *testing.T) {
	tr := layout.New()
	leaves(t, tr, tr.Root(), "a")
	frac := addCompound(t, tr, tr.Root(), layout.KindFraction, "1", "2")
	num := tr.Child(frac, layout.FractionNumerator)

	s := NewSelection(New(num, 1))
	s, ok := Extend(tr, s, Right)
	if !ok || s.Seq != tr.Root() || s.Start() != 1 || s.End() != 2 {
		t.Errorf("expected the whole fraction selected in the root, got %s", s)
	}
	s, _ = Extend(tr, s, Left)
	s, _ = Extend(tr, s, Left)
	if s.Start() != 0 || s.End() != 1 || s.IsForward() {
		t.Errorf("unexpected selection after moving left, got %s", s)
	}
}
