package layout

// DefaultMaxNodes is the default ceiling on live nodes in a tree.
const DefaultMaxNodes = 220

// Option configures a Tree during creation.
type Option func(*Tree)

// WithMaxNodes sets the node ceiling. Values below 1 are ignored.
func WithMaxNodes(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxNodes = n
		}
	}
}

// Tree is an arena-backed layout tree with a single sequence root.
type Tree struct {
	nodes    []node
	free     []Handle
	root     Handle
	count    int
	maxNodes int
}

// New creates a tree holding an empty root sequence.
func New(opts ...Option) *Tree {
	t := &Tree{maxNodes: DefaultMaxNodes}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.alloc(node{kind: KindSequence})
	return t
}

// Root returns the root sequence.
func (t *Tree) Root() Handle {
	return t.root
}

// Count returns the number of live nodes, the root included.
func (t *Tree) Count() int {
	return t.count
}

// MaxNodes returns the node ceiling.
func (t *Tree) MaxNodes() int {
	return t.maxNodes
}

// Available returns how many more nodes can be allocated.
func (t *Tree) Available() int {
	return t.maxNodes - t.count
}

// Reserve returns ErrCapacityExceeded if n more nodes cannot be allocated.
func (t *Tree) Reserve(n int) error {
	if n > t.Available() {
		return ErrCapacityExceeded
	}
	return nil
}

// Clear frees everything but the root and empties it.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.count = 0
	t.root = t.alloc(node{kind: KindSequence})
}

// alloc places n in a free slot. Callers check capacity first.
func (t *Tree) alloc(n node) Handle {
	n.live = true
	n.parent = NoHandle
	t.count++
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// release returns a single slot to the free list.
func (t *Tree) release(h Handle) {
	t.nodes[h] = node{}
	t.free = append(t.free, h)
	t.count--
}

// Valid reports whether h addresses a live node.
func (t *Tree) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.nodes) && t.nodes[h].live
}

func (t *Tree) at(h Handle) *node {
	if !t.Valid(h) {
		return nil
	}
	return &t.nodes[h]
}

// Kind returns the kind of h. Invalid handles report KindSequence.
func (t *Tree) Kind(h Handle) Kind {
	if n := t.at(h); n != nil {
		return n.kind
	}
	return KindSequence
}

// Parent returns the parent of h, or NoHandle for the root and detached nodes.
func (t *Tree) Parent(h Handle) Handle {
	if n := t.at(h); n != nil {
		return n.parent
	}
	return NoHandle
}

// ChildCount returns the number of children of h.
func (t *Tree) ChildCount(h Handle) int {
	if n := t.at(h); n != nil {
		return len(n.children)
	}
	return 0
}

// Child returns the i-th child of h, or NoHandle when out of range.
func (t *Tree) Child(h Handle, i int) Handle {
	n := t.at(h)
	if n == nil || i < 0 || i >= len(n.children) {
		return NoHandle
	}
	return n.children[i]
}

// Children returns a copy of h's child list.
func (t *Tree) Children(h Handle) []Handle {
	n := t.at(h)
	if n == nil {
		return nil
	}
	out := make([]Handle, len(n.children))
	copy(out, n.children)
	return out
}

// IndexInParent returns the position of h in its parent's child list, or -1.
func (t *Tree) IndexInParent(h Handle) int {
	p := t.at(t.Parent(h))
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == h {
			return i
		}
	}
	return -1
}

// CodePoint returns the symbol of a leaf.
func (t *Tree) CodePoint(h Handle) rune {
	if n := t.at(h); n != nil {
		return n.cp
	}
	return 0
}

// Delimiter returns the delimiter of a bracket node.
func (t *Tree) Delimiter(h Handle) Delimiter {
	if n := t.at(h); n != nil {
		return n.delim
	}
	return DelimParen
}

// Dims returns the row and column count of a matrix.
func (t *Tree) Dims(h Handle) (rows, cols int) {
	if n := t.at(h); n != nil {
		return n.rows, n.cols
	}
	return 0, 0
}

// IsLeaf reports whether h is a code point.
func (t *Tree) IsLeaf(h Handle) bool {
	return t.Valid(h) && t.nodes[h].kind == KindCodePoint
}

// IsEditable reports whether h can hold a cursor (is a sequence).
func (t *Tree) IsEditable(h Handle) bool {
	return t.Valid(h) && t.nodes[h].kind == KindSequence
}

// IsEmpty reports whether h has no content. A compound is empty when all
// its cells are; a leaf never is.
func (t *Tree) IsEmpty(h Handle) bool {
	n := t.at(h)
	if n == nil {
		return true
	}
	switch {
	case n.kind == KindSequence:
		return len(n.children) == 0
	case n.kind == KindCodePoint:
		return false
	}
	for _, c := range n.children {
		if !t.IsEmpty(c) {
			return false
		}
	}
	return true
}

// IsAncestor reports whether a is h or one of its ancestors.
func (t *Tree) IsAncestor(a, h Handle) bool {
	for h != NoHandle {
		if h == a {
			return true
		}
		h = t.Parent(h)
	}
	return false
}

// SubtreeSize counts the nodes in h's subtree.
func (t *Tree) SubtreeSize(h Handle) int {
	n := t.at(h)
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.children {
		size += t.SubtreeSize(c)
	}
	return size
}

// Path returns the child indices leading from the root to h.
// It returns nil if h is not attached to the root.
func (t *Tree) Path(h Handle) []int {
	if !t.IsAncestor(t.root, h) {
		return nil
	}
	var rev []int
	for h != t.root {
		rev = append(rev, t.IndexInParent(h))
		h = t.Parent(h)
	}
	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

// Resolve follows a path from the root. It returns NoHandle if the path
// does not address a node.
func (t *Tree) Resolve(path []int) Handle {
	h := t.root
	for _, i := range path {
		h = t.Child(h, i)
		if h == NoHandle {
			return NoHandle
		}
	}
	return h
}

// NewLeaf allocates a detached code point node.
func (t *Tree) NewLeaf(r rune) (Handle, error) {
	if err := t.Reserve(1); err != nil {
		return NoHandle, err
	}
	return t.alloc(node{kind: KindCodePoint, cp: r}), nil
}

// NodeCost returns how many nodes a fresh compound of the kind allocates.
func NodeCost(k Kind, rows, cols int) int {
	switch {
	case k == KindMatrix:
		return 1 + rows*cols
	case k.IsCompound():
		return 1 + fixedCells(k)
	}
	return 1
}

// NewCompound allocates a detached fraction, power, subscript, root or
// parenthesis group with empty cells.
func (t *Tree) NewCompound(k Kind) (Handle, error) {
	if !k.IsCompound() || k == KindMatrix {
		return NoHandle, ErrNotCompound
	}
	return t.newCompound(node{kind: k}, fixedCells(k))
}

// NewBracket allocates a detached bracket group with an empty inner sequence.
func (t *Tree) NewBracket(d Delimiter) (Handle, error) {
	return t.newCompound(node{kind: KindBracket, delim: d}, 1)
}

// NewMatrix allocates a detached rows x cols matrix of empty cells.
func (t *Tree) NewMatrix(rows, cols int) (Handle, error) {
	if rows < 1 || cols < 1 {
		return NoHandle, ErrIndexOutOfRange
	}
	return t.newCompound(node{kind: KindMatrix, rows: rows, cols: cols}, rows*cols)
}

func (t *Tree) newCompound(n node, cells int) (Handle, error) {
	if err := t.Reserve(1 + cells); err != nil {
		return NoHandle, err
	}
	h := t.alloc(n)
	children := make([]Handle, cells)
	for i := range children {
		c := t.alloc(node{kind: KindSequence})
		t.nodes[c].parent = h
		children[i] = c
	}
	t.nodes[h].children = children
	return h, nil
}

// Free releases a detached subtree.
func (t *Tree) Free(h Handle) error {
	n := t.at(h)
	if n == nil {
		return ErrInvalidHandle
	}
	if n.parent != NoHandle || h == t.root {
		return ErrAttached
	}
	t.freeSubtree(h)
	return nil
}

func (t *Tree) freeSubtree(h Handle) {
	for _, c := range t.nodes[h].children {
		t.freeSubtree(c)
	}
	t.release(h)
}

// checkSeqIndex validates a sequence handle and an insertion index.
func (t *Tree) checkSeqIndex(seq Handle, index int) error {
	n := t.at(seq)
	if n == nil {
		return ErrInvalidHandle
	}
	if n.kind != KindSequence {
		return ErrNotSequence
	}
	if index < 0 || index > len(n.children) {
		return ErrIndexOutOfRange
	}
	return nil
}

// checkInsertable validates a node about to be placed into seq.
func (t *Tree) checkInsertable(seq, child Handle) error {
	c := t.at(child)
	if c == nil {
		return ErrInvalidHandle
	}
	if c.parent != NoHandle || child == t.root {
		return ErrAttached
	}
	if c.kind == KindSequence {
		return ErrNestedSequence
	}
	if t.IsAncestor(child, seq) {
		return ErrCycle
	}
	return nil
}

// InsertChild places a detached node into seq before index.
func (t *Tree) InsertChild(seq Handle, index int, child Handle) error {
	return t.InsertChildren(seq, index, []Handle{child})
}

// InsertChildren places detached nodes into seq before index, in order.
// Either all are inserted or none are.
func (t *Tree) InsertChildren(seq Handle, index int, children []Handle) error {
	if err := t.checkSeqIndex(seq, index); err != nil {
		return err
	}
	seen := make(map[Handle]bool, len(children))
	for _, c := range children {
		if err := t.checkInsertable(seq, c); err != nil {
			return err
		}
		if seen[c] {
			return ErrAttached
		}
		seen[c] = true
	}
	if len(children) == 0 {
		return nil
	}
	n := &t.nodes[seq]
	merged := make([]Handle, 0, len(n.children)+len(children))
	merged = append(merged, n.children[:index]...)
	merged = append(merged, children...)
	merged = append(merged, n.children[index:]...)
	n.children = merged
	for _, c := range children {
		t.nodes[c].parent = seq
	}
	return nil
}

// RemoveChild detaches the child at index from seq and returns it.
func (t *Tree) RemoveChild(seq Handle, index int) (Handle, error) {
	out, err := t.RemoveRange(seq, index, index+1)
	if err != nil {
		return NoHandle, err
	}
	return out[0], nil
}

// RemoveRange detaches children [start, end) of seq and returns them in order.
func (t *Tree) RemoveRange(seq Handle, start, end int) ([]Handle, error) {
	if err := t.checkSeqIndex(seq, start); err != nil {
		return nil, err
	}
	n := &t.nodes[seq]
	if end < start || end > len(n.children) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]Handle, end-start)
	copy(out, n.children[start:end])
	n.children = append(n.children[:start:start], n.children[end:]...)
	for _, c := range out {
		t.nodes[c].parent = NoHandle
	}
	return out, nil
}

// DeleteRange removes children [start, end) of seq and frees them.
func (t *Tree) DeleteRange(seq Handle, start, end int) error {
	out, err := t.RemoveRange(seq, start, end)
	if err != nil {
		return err
	}
	for _, c := range out {
		t.freeSubtree(c)
	}
	return nil
}

// Replace swaps an attached node for a detached one and frees the old subtree.
func (t *Tree) Replace(old, repl Handle) error {
	seq := t.Parent(old)
	if seq == NoHandle || t.Kind(seq) != KindSequence {
		return ErrNotSequence
	}
	if err := t.checkInsertable(seq, repl); err != nil {
		return err
	}
	if t.IsAncestor(old, repl) {
		return ErrCycle
	}
	i := t.IndexInParent(old)
	t.nodes[seq].children[i] = repl
	t.nodes[repl].parent = seq
	t.nodes[old].parent = NoHandle
	t.freeSubtree(old)
	return nil
}

// Move detaches an attached node and inserts it into seq before index.
// The index is interpreted after the node has been detached.
func (t *Tree) Move(child, seq Handle, index int) error {
	if t.IsAncestor(child, seq) {
		return ErrCycle
	}
	from := t.Parent(child)
	if from == NoHandle {
		return t.InsertChild(seq, index, child)
	}
	i := t.IndexInParent(child)
	limit := t.ChildCount(seq)
	if from == seq {
		limit--
	}
	if t.Kind(seq) != KindSequence {
		return ErrNotSequence
	}
	if index < 0 || index > limit {
		return ErrIndexOutOfRange
	}
	if _, err := t.RemoveChild(from, i); err != nil {
		return err
	}
	return t.InsertChild(seq, index, child)
}

// Wrap moves children [start, end) of seq into the given cell of a detached
// compound container, then inserts the container at start. This is the
// promotion primitive: typing a fraction bar wraps the preceding run.
func (t *Tree) Wrap(seq Handle, start, end int, container Handle, cell int) error {
	if err := t.checkSeqIndex(seq, start); err != nil {
		return err
	}
	if end < start || end > t.ChildCount(seq) {
		return ErrIndexOutOfRange
	}
	if !t.Kind(container).IsCompound() {
		return ErrNotCompound
	}
	if err := t.checkInsertable(seq, container); err != nil {
		return err
	}
	target := t.Child(container, cell)
	if target == NoHandle {
		return ErrIndexOutOfRange
	}
	moved, err := t.RemoveRange(seq, start, end)
	if err != nil {
		return err
	}
	at := t.ChildCount(target)
	if err := t.InsertChildren(target, at, moved); err != nil {
		return err
	}
	return t.InsertChild(seq, start, container)
}

// Unwrap replaces an attached compound by the concatenated contents of its
// cells and frees the compound. Cells are taken in the given order, or in
// cell order when none is given. It returns the range the spliced content
// occupies in the parent sequence.
func (t *Tree) Unwrap(h Handle, order ...int) (start, end int, err error) {
	if !t.Valid(h) || !t.Kind(h).IsCompound() {
		return 0, 0, ErrNotCompound
	}
	seq := t.Parent(h)
	if seq == NoHandle {
		return 0, 0, ErrInvalidHandle
	}
	cells := t.nodes[h].children
	if len(order) == 0 {
		order = make([]int, len(cells))
		for i := range order {
			order[i] = i
		}
	}
	if len(order) != len(cells) {
		return 0, 0, ErrIndexOutOfRange
	}
	for _, i := range order {
		if i < 0 || i >= len(cells) {
			return 0, 0, ErrIndexOutOfRange
		}
	}
	start = t.IndexInParent(h)
	var content []Handle
	for _, i := range order {
		cell := cells[i]
		moved, _ := t.RemoveRange(cell, 0, t.ChildCount(cell))
		content = append(content, moved...)
	}
	if _, err := t.RemoveChild(seq, start); err != nil {
		return 0, 0, err
	}
	t.freeSubtree(h)
	if err := t.InsertChildren(seq, start, content); err != nil {
		return 0, 0, err
	}
	return start, start + len(content), nil
}

// Import deep-copies the subtree at h of src into t as a detached subtree.
// It fails with ErrCapacityExceeded, allocating nothing, if t cannot hold it.
func (t *Tree) Import(src *Tree, h Handle) (Handle, error) {
	if !src.Valid(h) {
		return NoHandle, ErrInvalidHandle
	}
	if err := t.Reserve(src.SubtreeSize(h)); err != nil {
		return NoHandle, err
	}
	return t.importNode(src, h), nil
}

func (t *Tree) importNode(src *Tree, h Handle) Handle {
	n := src.nodes[h]
	n.children = nil
	c := t.alloc(n)
	kids := src.nodes[h].children
	if len(kids) > 0 {
		children := make([]Handle, len(kids))
		for i, k := range kids {
			children[i] = t.importNode(src, k)
			t.nodes[children[i]].parent = c
		}
		t.nodes[c].children = children
	}
	return c
}
