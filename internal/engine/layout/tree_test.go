package layout

import (
	"errors"
	"testing"
)

// Helper to append leaves for each rune of s to seq.
func appendLeaves(t *testing.T, tr *Tree, seq Handle, s string) {
	t.Helper()
	for _, r := range s {
		h, err := tr.NewLeaf(r)
		if err != nil {
			t.Fatalf("NewLeaf(%q): %v", r, err)
		}
		if err := tr.InsertChild(seq, tr.ChildCount(seq), h); err != nil {
			t.Fatalf("InsertChild: %v", err)
		}
	}
}

func mustValidate(t *testing.T, tr *Tree) {
	t.Helper()
	if err := tr.Validate(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestNewTree(t *testing.T) {
	tr := New()
	if tr.Count() != 1 {
		t.Errorf("expected 1 live node, got %d", tr.Count())
	}
	if tr.Kind(tr.Root()) != KindSequence {
		t.Error("root should be a sequence")
	}
	if !tr.IsEmpty(tr.Root()) {
		t.Error("new tree should be empty")
	}
	if tr.MaxNodes() != DefaultMaxNodes {
		t.Errorf("expected default ceiling %d, got %d", DefaultMaxNodes, tr.MaxNodes())
	}
	mustValidate(t, tr)
}

func TestWithMaxNodes(t *testing.T) {
	tr := New(WithMaxNodes(10))
	if tr.MaxNodes() != 10 {
		t.Errorf("expected ceiling 10, got %d", tr.MaxNodes())
	}
	tr = New(WithMaxNodes(0))
	if tr.MaxNodes() != DefaultMaxNodes {
		t.Error("non-positive ceiling should be ignored")
	}
}

func TestInsertAndRemoveChild(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "abc")

	if got := tr.Dump(tr.Root()); got != "[abc]" {
		t.Fatalf("expected [abc], got %s", got)
	}

	b, err := tr.RemoveChild(tr.Root(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Parent(b) != NoHandle {
		t.Error("removed child should be detached")
	}
	if got := tr.Dump(tr.Root()); got != "[ac]" {
		t.Errorf("expected [ac], got %s", got)
	}
	if err := tr.InsertChild(tr.Root(), 0, b); err != nil {
		t.Fatal(err)
	}
	if got := tr.Dump(tr.Root()); got != "[bac]" {
		t.Errorf("expected [bac], got %s", got)
	}
	mustValidate(t, tr)
}

func TestInsertChildErrors(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "a")
	a := tr.Child(tr.Root(), 0)

	leaf, _ := tr.NewLeaf('x')
	tests := []struct {
		name  string
		seq   Handle
		index int
		child Handle
		want  error
	}{
		{"bad index", tr.Root(), 5, leaf, ErrIndexOutOfRange},
		{"negative index", tr.Root(), -1, leaf, ErrIndexOutOfRange},
		{"not a sequence", a, 0, leaf, ErrNotSequence},
		{"attached child", tr.Root(), 0, a, ErrAttached},
		{"nested sequence", tr.Root(), 0, tr.Root(), ErrAttached},
		{"invalid handle", tr.Root(), 0, Handle(999), ErrInvalidHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.InsertChild(tt.seq, tt.index, tt.child)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCapacityIsAtomic(t *testing.T) {
	tr := New(WithMaxNodes(3))
	appendLeaves(t, tr, tr.Root(), "ab")
	if tr.Count() != 3 {
		t.Fatalf("expected 3 nodes, got %d", tr.Count())
	}
	if _, err := tr.NewLeaf('c'); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if _, err := tr.NewCompound(KindFraction); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if tr.Count() != 3 {
		t.Errorf("failed allocation changed count to %d", tr.Count())
	}
	mustValidate(t, tr)
}

func TestNodeCost(t *testing.T) {
	tests := []struct {
		kind       Kind
		rows, cols int
		want       int
	}{
		{KindCodePoint, 0, 0, 1},
		{KindFraction, 0, 0, 3},
		{KindPower, 0, 0, 3},
		{KindRoot, 0, 0, 3},
		{KindBracket, 0, 0, 2},
		{KindMatrix, 2, 3, 7},
	}
	for _, tt := range tests {
		if got := NodeCost(tt.kind, tt.rows, tt.cols); got != tt.want {
			t.Errorf("NodeCost(%s) = %d, expected %d", tt.kind, got, tt.want)
		}
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "a2b")

	frac, err := tr.NewCompound(KindFraction)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Wrap(tr.Root(), 1, 2, frac, FractionNumerator); err != nil {
		t.Fatal(err)
	}
	if got := tr.Dump(tr.Root()); got != "[afrac([2],[])b]" {
		t.Fatalf("unexpected wrap result %s", got)
	}
	mustValidate(t, tr)

	appendLeaves(t, tr, tr.Child(frac, FractionDenominator), "3")
	start, end, err := tr.Unwrap(frac)
	if err != nil {
		t.Fatal(err)
	}
	if start != 1 || end != 3 {
		t.Errorf("expected spliced range [1,3), got [%d,%d)", start, end)
	}
	if got := tr.Dump(tr.Root()); got != "[a23b]" {
		t.Errorf("unexpected unwrap result %s", got)
	}
	if tr.Count() != 5 {
		t.Errorf("expected 5 nodes after unwrap, got %d", tr.Count())
	}
	mustValidate(t, tr)
}

func TestReplace(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "ab")
	grp, _ := tr.NewBracket(DelimSquare)
	if err := tr.Replace(tr.Child(tr.Root(), 1), grp); err != nil {
		t.Fatal(err)
	}
	if got := tr.Dump(tr.Root()); got != "[asquare([])]" {
		t.Errorf("unexpected replace result %s", got)
	}
	mustValidate(t, tr)
}

func TestMoveRejectsCycle(t *testing.T) {
	tr := New()
	grp, _ := tr.NewBracket(DelimParen)
	_ = tr.InsertChild(tr.Root(), 0, grp)
	inner := tr.Child(grp, BracketInner)

	if err := tr.Move(grp, inner, 0); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
	mustValidate(t, tr)
}

func TestMoveWithinSequence(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "abc")
	a := tr.Child(tr.Root(), 0)
	if err := tr.Move(a, tr.Root(), 2); err != nil {
		t.Fatal(err)
	}
	if got := tr.Dump(tr.Root()); got != "[bca]" {
		t.Errorf("expected [bca], got %s", got)
	}
}

func TestPathAndResolve(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "x")
	pow, _ := tr.NewCompound(KindPower)
	_ = tr.InsertChild(tr.Root(), 1, pow)
	exp := tr.Child(pow, PowerExponent)
	appendLeaves(t, tr, exp, "2")
	two := tr.Child(exp, 0)

	path := tr.Path(two)
	want := []int{1, 1, 0}
	if len(path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("expected path %v, got %v", want, path)
		}
	}
	if tr.Resolve(path) != two {
		t.Error("Resolve should return the original handle")
	}
	if tr.Resolve([]int{7}) != NoHandle {
		t.Error("Resolve of a bad path should return NoHandle")
	}
}

func TestMatrix(t *testing.T) {
	tr := New()
	m, err := tr.NewMatrix(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	_ = tr.InsertChild(tr.Root(), 0, m)
	rows, cols := tr.Dims(m)
	if rows != 2 || cols != 3 || tr.ChildCount(m) != 6 {
		t.Errorf("unexpected matrix shape %dx%d with %d cells", rows, cols, tr.ChildCount(m))
	}
	if _, err := tr.NewMatrix(0, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	mustValidate(t, tr)
}

func TestIsEmpty(t *testing.T) {
	tr := New()
	frac, _ := tr.NewCompound(KindFraction)
	_ = tr.InsertChild(tr.Root(), 0, frac)
	if !tr.IsEmpty(frac) {
		t.Error("fraction with empty cells should be empty")
	}
	if tr.IsEmpty(tr.Root()) {
		t.Error("root holding a fraction is not empty")
	}
	appendLeaves(t, tr, tr.Child(frac, FractionDenominator), "1")
	if tr.IsEmpty(frac) {
		t.Error("fraction with content should not be empty")
	}
}

func TestCloneAndEqual(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "ab")
	c := tr.Clone()
	if !Equal(tr, c) {
		t.Fatal("clone should be structurally equal")
	}
	appendLeaves(t, c, c.Root(), "c")
	if Equal(tr, c) {
		t.Error("mutating the clone should not affect the original")
	}
	if tr.Dump(tr.Root()) != "[ab]" {
		t.Errorf("original changed: %s", tr.Dump(tr.Root()))
	}
}

func TestClearAndReuse(t *testing.T) {
	tr := New(WithMaxNodes(4))
	appendLeaves(t, tr, tr.Root(), "abc")
	tr.Clear()
	if tr.Count() != 1 || !tr.IsEmpty(tr.Root()) {
		t.Error("Clear should reset to an empty root")
	}
	appendLeaves(t, tr, tr.Root(), "xyz")
	mustValidate(t, tr)
}

func TestDeleteRangeFreesSlots(t *testing.T) {
	tr := New()
	appendLeaves(t, tr, tr.Root(), "abcd")
	if err := tr.DeleteRange(tr.Root(), 1, 3); err != nil {
		t.Fatal(err)
	}
	if tr.Count() != 3 {
		t.Errorf("expected 3 live nodes, got %d", tr.Count())
	}
	if got := tr.Dump(tr.Root()); got != "[ad]" {
		t.Errorf("expected [ad], got %s", got)
	}
	mustValidate(t, tr)
}

func TestUnwrapWithOrder(t *testing.T) {
	tr := New()
	root, _ := tr.NewCompound(KindRoot)
	_ = tr.InsertChild(tr.Root(), 0, root)
	appendLeaves(t, tr, tr.Child(root, RootRadicand), "8")
	appendLeaves(t, tr, tr.Child(root, RootIndex), "3")

	if _, _, err := tr.Unwrap(root, RootIndex, RootRadicand); err != nil {
		t.Fatal(err)
	}
	if got := tr.Dump(tr.Root()); got != "[38]" {
		t.Errorf("expected index before radicand, got %s", got)
	}
	mustValidate(t, tr)
}

func TestImport(t *testing.T) {
	src := New()
	frac, _ := src.NewCompound(KindFraction)
	_ = src.InsertChild(src.Root(), 0, frac)
	appendLeaves(t, src, src.Child(frac, FractionNumerator), "1")

	dst := New()
	h, err := dst.Import(src, frac)
	if err != nil {
		t.Fatal(err)
	}
	if err := dst.InsertChild(dst.Root(), 0, h); err != nil {
		t.Fatal(err)
	}
	if !Equal(src, dst) {
		t.Errorf("imported tree differs: %s vs %s", src.Dump(src.Root()), dst.Dump(dst.Root()))
	}
	mustValidate(t, dst)

	small := New(WithMaxNodes(3))
	if _, err := small.Import(src, frac); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if small.Count() != 1 {
		t.Errorf("failed import allocated nodes")
	}
}
