// Package drawpile implements a draw pile that never stores a shuffled
// order. Instead it keeps a small directed graph of ordering constraints
// between the cards it holds and draws uniformly among the cards that are
// currently allowed to come next.
//
// Two edge kinds exist:
//
//   - Ordered: a node with an outgoing ordered edge is blocked until the
//     edge's target leaves the pile.
//   - Unlock: when the edge's source leaves the pile, the target's
//     canDraw flag becomes true.
//
// A node is eligible iff canDraw is set and it has no outgoing ordered
// edge. Adjacency is kept in insertion-ordered slices, so every query is
// deterministic for a given operation sequence.
package drawpile

import "fmt"

// Source supplies the randomness used to break ties among eligible items.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type node[T any] struct {
	item    T
	canDraw bool

	waitsOn  []*node[T] // outgoing ordered edges
	waitedBy []*node[T] // incoming ordered edges
	unlocks  []*node[T] // outgoing unlock edges
	lockedBy []*node[T] // incoming unlock edges
}

// Pile is an ordering-constrained collection. Items are addressed by
// index in insertion order; removing an item closes the gap.
type Pile[T any] struct {
	nodes []*node[T]
}

// New builds a pile whose priority items must all leave before any normal
// item becomes eligible. Items within each group are mutually unordered.
func New[T any](priority, normal []T) *Pile[T] {
	p := &Pile[T]{}
	for _, it := range normal {
		p.nodes = append(p.nodes, &node[T]{item: it, canDraw: true})
	}
	base := len(p.nodes)
	for _, it := range priority {
		p.nodes = append(p.nodes, &node[T]{item: it, canDraw: true})
	}
	for _, n := range p.nodes[:base] {
		for _, pr := range p.nodes[base:] {
			order(n, pr)
		}
	}
	return p
}

// Len returns the number of items in the pile.
func (p *Pile[T]) Len() int {
	return len(p.nodes)
}

// At returns the item at index i.
func (p *Pile[T]) At(i int) T {
	return p.nodes[i].item
}

// Items returns the items in index order.
func (p *Pile[T]) Items() []T {
	out := make([]T, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.item
	}
	return out
}

// Index returns the index of the first item matching pred, or -1.
func (p *Pile[T]) Index(pred func(T) bool) int {
	for i, n := range p.nodes {
		if pred(n.item) {
			return i
		}
	}
	return -1
}

// IsEligible reports whether the item at index i may be drawn now.
func (p *Pile[T]) IsEligible(i int) bool {
	return p.nodes[i].eligible()
}

// Eligible returns the indices of every item that may be drawn now, in
// ascending order.
func (p *Pile[T]) Eligible() []int {
	var out []int
	for i, n := range p.nodes {
		if n.eligible() {
			out = append(out, i)
		}
	}
	return out
}

// PushTop adds x so that it must be drawn before anything already present.
func (p *Pile[T]) PushTop(x T) {
	n := &node[T]{item: x, canDraw: true}
	for _, old := range p.nodes {
		order(old, n)
	}
	p.nodes = append(p.nodes, n)
}

// PushBottom adds x so that everything already present must be drawn
// before it.
func (p *Pile[T]) PushBottom(x T) {
	n := &node[T]{item: x, canDraw: true}
	for _, old := range p.nodes {
		order(n, old)
	}
	p.nodes = append(p.nodes, n)
}

// ShuffleIn adds x at an unknown position: x becomes eligible as soon as
// any item present now leaves the pile. Into an empty pile x is eligible
// immediately.
func (p *Pile[T]) ShuffleIn(x T) {
	n := &node[T]{item: x, canDraw: len(p.nodes) == 0}
	for _, old := range p.nodes {
		old.unlocks = append(old.unlocks, n)
		n.lockedBy = append(n.lockedBy, old)
	}
	p.nodes = append(p.nodes, n)
}

// ShuffleAll drops every constraint; all items become mutually unordered
// and eligible.
func (p *Pile[T]) ShuffleAll() {
	for _, n := range p.nodes {
		n.canDraw = true
		n.waitsOn = nil
		n.waitedBy = nil
		n.unlocks = nil
		n.lockedBy = nil
	}
}

// Pop removes and returns an item chosen uniformly among the eligible
// ones. It panics if the pile is empty.
func (p *Pile[T]) Pop(src Source) T {
	if len(p.nodes) == 0 {
		panic("drawpile: pop from empty pile")
	}
	elig := p.Eligible()
	if len(elig) == 0 {
		panic(fmt.Sprintf("drawpile: no eligible item among %d", len(p.nodes)))
	}
	i := elig[0]
	if len(elig) > 1 {
		i = elig[src.Intn(len(elig))]
	}
	return p.Take(i)
}

// Take removes the item at index i regardless of eligibility. Items it
// was unlocking become drawable; items waiting on it are released.
func (p *Pile[T]) Take(i int) T {
	n := p.nodes[i]
	for _, w := range n.waitedBy {
		w.waitsOn = without(w.waitsOn, n)
	}
	for _, t := range n.waitsOn {
		t.waitedBy = without(t.waitedBy, n)
	}
	for _, u := range n.unlocks {
		u.canDraw = true
		u.lockedBy = without(u.lockedBy, n)
	}
	for _, l := range n.lockedBy {
		l.unlocks = without(l.unlocks, n)
	}
	last := len(p.nodes) - 1
	copy(p.nodes[i:], p.nodes[i+1:])
	p.nodes[last] = nil
	p.nodes = p.nodes[:last]
	return n.item
}

func (n *node[T]) eligible() bool {
	return n.canDraw && len(n.waitsOn) == 0
}

// order records that src is blocked until dst leaves the pile.
func order[T any](src, dst *node[T]) {
	src.waitsOn = append(src.waitsOn, dst)
	dst.waitedBy = append(dst.waitedBy, src)
}

func without[T any](list []*node[T], n *node[T]) []*node[T] {
	for i, v := range list {
		if v == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
