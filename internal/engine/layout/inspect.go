package layout

import (
	"fmt"
	"strings"
)

// Clone returns a deep copy of the tree. Handles are preserved, so a cursor
// recorded against t addresses the same positions in the clone.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		nodes:    make([]node, len(t.nodes)),
		free:     make([]Handle, len(t.free)),
		root:     t.root,
		count:    t.count,
		maxNodes: t.maxNodes,
	}
	copy(c.free, t.free)
	for i, n := range t.nodes {
		if n.children != nil {
			n.children = append([]Handle(nil), n.children...)
		}
		c.nodes[i] = n
	}
	return c
}

// Equal reports whether two trees have structurally identical roots.
func Equal(a, b *Tree) bool {
	return EqualSubtree(a, a.Root(), b, b.Root())
}

// EqualSubtree compares the subtree at ha in a with the one at hb in b.
// Handle values are ignored; only shape and payloads matter.
func EqualSubtree(a *Tree, ha Handle, b *Tree, hb Handle) bool {
	na, nb := a.at(ha), b.at(hb)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	if na.kind != nb.kind || len(na.children) != len(nb.children) {
		return false
	}
	switch na.kind {
	case KindCodePoint:
		if na.cp != nb.cp {
			return false
		}
	case KindBracket:
		if na.delim != nb.delim {
			return false
		}
	case KindMatrix:
		if na.rows != nb.rows || na.cols != nb.cols {
			return false
		}
	}
	for i := range na.children {
		if !EqualSubtree(a, na.children[i], b, nb.children[i]) {
			return false
		}
	}
	return true
}

// Dump renders a subtree as a compact debug string:
// sequences as [..], leaves as their rune, compounds as kind(cell,cell).
func (t *Tree) Dump(h Handle) string {
	var sb strings.Builder
	t.dump(&sb, h)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, h Handle) {
	n := t.at(h)
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch n.kind {
	case KindSequence:
		sb.WriteByte('[')
		for _, c := range n.children {
			t.dump(sb, c)
		}
		sb.WriteByte(']')
		return
	case KindCodePoint:
		sb.WriteRune(n.cp)
		return
	case KindBracket:
		if n.delim == DelimSquare {
			sb.WriteString("square")
		} else {
			sb.WriteString("paren")
		}
	case KindMatrix:
		fmt.Fprintf(sb, "matrix%dx%d", n.rows, n.cols)
	default:
		sb.WriteString(n.kind.String())
	}
	sb.WriteByte('(')
	for i, c := range n.children {
		if i > 0 {
			sb.WriteByte(',')
		}
		t.dump(sb, c)
	}
	sb.WriteByte(')')
}

// Validate checks the structural invariants of the tree: a single sequence
// root, parent references that match child edges, cell shapes per kind, no
// node reachable twice, and no live node outside the root's subtree.
func (t *Tree) Validate() error {
	root := t.at(t.root)
	if root == nil || root.kind != KindSequence || root.parent != NoHandle {
		return fmt.Errorf("root %d is not a parentless sequence", t.root)
	}
	seen := make(map[Handle]bool)
	if err := t.validate(t.root, seen); err != nil {
		return err
	}
	if len(seen) != t.count {
		return fmt.Errorf("live count %d does not match %d reachable nodes", t.count, len(seen))
	}
	return nil
}

func (t *Tree) validate(h Handle, seen map[Handle]bool) error {
	if seen[h] {
		return fmt.Errorf("node %d reachable twice", h)
	}
	seen[h] = true
	n := &t.nodes[h]
	switch {
	case n.kind == KindCodePoint:
		if len(n.children) != 0 {
			return fmt.Errorf("leaf %d has children", h)
		}
	case n.kind == KindSequence:
		for _, c := range n.children {
			if t.Kind(c) == KindSequence {
				return fmt.Errorf("sequence %d contains sequence %d", h, c)
			}
		}
	case n.kind == KindMatrix:
		if n.rows < 1 || n.cols < 1 || len(n.children) != n.rows*n.cols {
			return fmt.Errorf("matrix %d has %d cells for %dx%d", h, len(n.children), n.rows, n.cols)
		}
	default:
		if len(n.children) != fixedCells(n.kind) {
			return fmt.Errorf("%s %d has %d cells", n.kind, h, len(n.children))
		}
	}
	for _, c := range n.children {
		cn := t.at(c)
		if cn == nil {
			return fmt.Errorf("node %d has dead child %d", h, c)
		}
		if cn.parent != h {
			return fmt.Errorf("child %d of %d points at parent %d", c, h, cn.parent)
		}
		if n.kind.IsCompound() && cn.kind != KindSequence {
			return fmt.Errorf("cell %d of %s %d is not a sequence", c, n.kind, h)
		}
		if err := t.validate(c, seen); err != nil {
			return err
		}
	}
	return nil
}

// Restore replaces the contents of t with a snapshot taken by Clone.
// The snapshot must not be used afterwards.
func (t *Tree) Restore(snapshot *Tree) {
	*t = *snapshot
}
