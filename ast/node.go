// Package ast defines the parser's output: a uniform, four-child AST
// node allocated from a per-parse arena. The uniform layout
// trades a little per-node waste for a single allocator and an O(n) bulk
// free pass, mirroring a tagged-union node design while staying plain Go
// structs — every created node is threaded onto the arena's chain via
// its own link field, so releasing a parse is one reset of the arena,
// not a tree tear-down.
package ast

// Node is the single record type for every literal, expression,
// statement, and list cell the parser produces. Only the fields
// meaningful for Kind are populated; the rest are left at their zero
// value.
type Node struct {
	Kind Kind

	A, B, C, D *Node

	Line int

	// Parent is a weak, informational back-reference to the node that
	// holds this node in one of its A..D slots. It is never used for
	// ownership; the Arena chain is the sole owner.
	Parent *Node

	Number float64
	String string

	// Jumps holds break/continue jump-patch records for
	// LABEL/WHILE/DO/FOR*/SWITCH nodes. Neither the parser nor the
	// compiler (which does not lower break/continue) populates it.
	Jumps []JumpPatch

	arenaLink *Node
}

// JumpPatch records one forward jump (break or continue) awaiting a
// target inside the node that lexically encloses it.
type JumpPatch struct {
	Continue bool
	PatchAt  int
}

// Arena owns every node allocated during one parse via a singly linked
// chain threaded through each node's arenaLink field.
type Arena struct {
	head  *Node
	count int
}

// NewArena returns an empty arena ready to allocate nodes for one parse.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a node of the given kind and line, links it onto the
// arena chain, and returns it. The returned node has no children and no
// parent; callers use Link to wire children and set back-references.
func (a *Arena) New(kind Kind, line int) *Node {
	n := &Node{Kind: kind, Line: line}
	n.arenaLink = a.head
	a.head = n
	a.count++
	return n
}

// Link assigns parent's child slots in order (a, b, c, d — nil entries
// are allowed and left as no-ops) and sets each non-nil child's Parent
// to parent, immediately after construction, preserving the invariant
// that every non-null child's parent points to its containing node as
// soon as that node exists.
func Link(parent *Node, children ...*Node) *Node {
	slots := []**Node{&parent.A, &parent.B, &parent.C, &parent.D}
	for i, child := range children {
		if i >= len(slots) {
			break
		}
		*slots[i] = child
		if child != nil {
			child.Parent = parent
		}
	}
	return parent
}

// Len reports how many nodes are currently on the arena chain; used by
// tests asserting the bulk-release invariant.
func (a *Arena) Len() int { return a.count }

// Walk invokes fn once per node on the arena chain, in allocation order
// (most recently allocated first). Used by tests that want to inspect
// every live node.
func (a *Arena) Walk(fn func(*Node)) {
	for n := a.head; n != nil; n = n.arenaLink {
		fn(n)
	}
}

// Free empties the arena chain by dropping its head: after Free, Len is 0
// and no node allocated by this arena should be referenced by the
// caller. Individual *Node values remain valid Go memory (Go has no
// explicit free), but the arena itself forgets them; Go's GC reclaims
// memory once the caller also drops its references.
func (a *Arena) Free() {
	a.head = nil
	a.count = 0
}

// NewList builds a right-leaning cons list out of elems, head-first
// with a tail pointer, then
// fixes up parent back-links in a single pass over the freshly built
// cells. line is used for every LIST cell's own Line (the cells
// themselves carry no independent source position of interest beyond
// the first element's).
func (a *Arena) NewList(elems []*Node, line int) *Node {
	if len(elems) == 0 {
		return nil
	}
	cells := make([]*Node, len(elems))
	for i := range elems {
		cells[i] = a.New(LIST, line)
	}
	for i, elem := range elems {
		tail := (*Node)(nil)
		if i+1 < len(cells) {
			tail = cells[i+1]
		}
		Link(cells[i], elem, tail)
	}
	return cells[0]
}

// ListSlice flattens a LIST chain back into a slice of elements, in
// order. A nil head yields an empty slice.
func ListSlice(head *Node) []*Node {
	var out []*Node
	for n := head; n != nil; n = n.B {
		out = append(out, n.A)
	}
	return out
}
