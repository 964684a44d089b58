package analysis

import (
	"lumen/internal/diag"
	"lumen/internal/mir"
)

// Dominance is computed with the classic iterative fixpoint rather than
// Lengauer-Tarjan: function CFGs here are small enough that worst-case
// quadratic convergence is acceptable, and the fixpoint form is the one
// whose soundness we can test directly (the operator only shrinks sets
// over a finite lattice, so termination is guaranteed).
//
// domInfo is shared by the forward (dominator) and reversed
// (post-dominator) instantiations: both are "intersection over incoming
// edges" fixpoints, differing only in edge direction and root set.

type domInfo struct {
	g        *Graph
	roots    blockSet
	analyzed blockSet
	dom      map[mir.BlockID]blockSet
	idom     map[mir.BlockID]mir.BlockID
	children map[mir.BlockID][]mir.BlockID
	depth    map[mir.BlockID]int
}

// DomTree holds, for every block reachable from the entry, its dominator
// set, immediate dominator, dominance depth, and the parent-to-children
// adjacency of the dominator tree rooted at the entry.
type DomTree struct {
	domInfo
}

// buildDomTree computes dominators over the forward graph, rooted at the
// entry block.
func buildDomTree(g *Graph) *DomTree {
	roots := blockSet{g.Entry(): struct{}{}}
	t := &DomTree{domInfo{
		g:        g,
		roots:    roots,
		analyzed: g.reachable([]mir.BlockID{g.Entry()}, g.Succs),
	}}
	t.solve(g.Preds)
	t.buildTree()
	return t
}

// solve runs the fixpoint: dom[root] = {root}; for every other analyzed
// block b, dom[b] = {b} ∪ ⋂ dom[p] over incoming edges. Blocks outside
// the analyzed set keep the universal set, which is reported as
// "unreachable" rather than as a dominance fact.
func (t *domInfo) solve(in func(mir.BlockID) []mir.BlockID) {
	universe := make(blockSet, t.g.BlockCount())
	for _, b := range t.g.Blocks() {
		universe.add(b)
	}

	t.dom = make(map[mir.BlockID]blockSet, t.g.BlockCount())
	for _, b := range t.g.Blocks() {
		if t.roots.has(b) {
			t.dom[b] = blockSet{b: struct{}{}}
		} else {
			t.dom[b] = universe.clone()
		}
	}

	// The set of a block can only shrink, and never below {b}, so the
	// loop stabilizes within |analyzed| passes.
	bound := len(t.analyzed) + 2
	for iter := 0; ; iter++ {
		if iter > bound {
			diag.ICE("dominance fixpoint exceeded its iteration bound (%d passes over %d blocks)",
				iter, len(t.analyzed))
		}
		changed := false
		for _, b := range t.g.Blocks() {
			if t.roots.has(b) || !t.analyzed.has(b) {
				continue
			}
			next := t.intersectIncoming(b, in)
			next.add(b)
			if !next.equal(t.dom[b]) {
				t.dom[b] = next
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (t *domInfo) intersectIncoming(b mir.BlockID, in func(mir.BlockID) []mir.BlockID) blockSet {
	var acc blockSet
	for _, p := range in(b) {
		if !t.analyzed.has(p) {
			// An unanalyzed predecessor carries the universal set; it is
			// the identity of intersection and contributes nothing.
			continue
		}
		if acc == nil {
			acc = t.dom[p].clone()
			continue
		}
		for d := range acc {
			if !t.dom[p].has(d) {
				delete(acc, d)
			}
		}
	}
	if acc == nil {
		acc = make(blockSet)
	}
	return acc
}

// buildTree derives immediate dominators, the children adjacency, and
// depths from the converged sets.
func (t *domInfo) buildTree() {
	t.idom = make(map[mir.BlockID]mir.BlockID)
	t.children = make(map[mir.BlockID][]mir.BlockID)
	t.depth = make(map[mir.BlockID]int)

	for _, b := range t.g.Blocks() {
		if !t.analyzed.has(b) || t.roots.has(b) {
			continue
		}
		if parent, ok := t.immediateFromSets(b); ok {
			t.idom[b] = parent
			t.children[parent] = append(t.children[parent], b)
		}
	}

	// Depth is measured top-down from the roots (depth 0) along
	// immediate-dominator parent pointers.
	for _, b := range t.g.Blocks() {
		if t.analyzed.has(b) {
			t.depth[b] = t.depthOf(b, 0)
		}
	}
}

// immediateFromSets picks the unique strict dominator of b that every
// other strict dominator of b itself dominates. Reported false only for
// blocks whose sole dominator is themselves (roots of the virtual-sink
// forest in post-dominance).
func (t *domInfo) immediateFromSets(b mir.BlockID) (mir.BlockID, bool) {
	strict := make([]mir.BlockID, 0, len(t.dom[b])-1)
	for d := range t.dom[b] {
		if d != b {
			strict = append(strict, d)
		}
	}
	if len(strict) == 0 {
		return 0, false
	}

	for _, cand := range strict {
		dominated := true
		for _, other := range strict {
			if other != cand && !t.dom[cand].has(other) {
				dominated = false
				break
			}
		}
		if dominated {
			return cand, true
		}
	}
	diag.ICE("no immediate dominator among %d strict dominators of b%d", len(strict), b)
	return 0, false
}

func (t *domInfo) depthOf(b mir.BlockID, steps int) int {
	if steps > t.g.BlockCount() {
		diag.ICE("cycle in the immediate-dominator relation at b%d", b)
	}
	parent, ok := t.idom[b]
	if !ok {
		return 0
	}
	return t.depthOf(parent, steps+1) + 1
}

// Reachable reports whether b was analyzed, i.e. has a path from the
// tree's roots. Unreachable blocks have no dominance facts.
func (t *domInfo) Reachable(b mir.BlockID) bool { return t.analyzed.has(b) }

// Idom returns the immediate dominator of b. The second result is false
// for roots and unanalyzed blocks.
func (t *domInfo) Idom(b mir.BlockID) (mir.BlockID, bool) {
	parent, ok := t.idom[b]
	return parent, ok
}

// Children returns the blocks immediately dominated by b, in block order.
func (t *domInfo) Children(b mir.BlockID) []mir.BlockID { return t.children[b] }

// Depth returns b's distance from the tree root; roots are at depth 0.
func (t *domInfo) Depth(b mir.BlockID) int { return t.depth[b] }

// Dominators returns b's strict dominators as an ancestor chain ordered
// by decreasing depth: the immediate dominator first, the root last.
func (t *domInfo) Dominators(b mir.BlockID) []mir.BlockID {
	var chain []mir.BlockID
	for {
		parent, ok := t.idom[b]
		if !ok {
			return chain
		}
		if len(chain) > t.g.BlockCount() {
			diag.ICE("cycle in the immediate-dominator relation at b%d", b)
		}
		chain = append(chain, parent)
		b = parent
	}
}

// Dominates reports whether a dominates b. Dominance is reflexive.
func (t *domInfo) Dominates(a, b mir.BlockID) bool {
	if !t.analyzed.has(b) {
		return false
	}
	return t.dom[b].has(a)
}

// DomSet returns b's full dominator set (including b), in block order.
// Empty for unanalyzed blocks.
func (t *domInfo) DomSet(b mir.BlockID) []mir.BlockID {
	if !t.analyzed.has(b) {
		return nil
	}
	return t.g.sorted(t.dom[b])
}
