package analysis

import (
	"lumen/internal/diag"
	"lumen/internal/mir"
)

// The dataflow engine: one generic monotone fixpoint, instantiated four
// times by direction, merge operator, and per-block gen/kill sets. Union
// merges compute "any path" facts and start from the empty set; inter-
// section merges compute "all paths" facts and start from the universe of
// facts seeded from the whole function. Either way the transfer function
// only moves results in one direction over a finite lattice, so the loop
// terminates within a bound we enforce.

type direction int

const (
	forward direction = iota
	backward
)

type mergeOp int

const (
	anyPath  mergeOp = iota // union
	allPaths                // intersection
)

// factSet is a set of dataflow facts.
type factSet[F comparable] map[F]struct{}

func (s factSet[F]) add(f F)      { s[f] = struct{}{} }
func (s factSet[F]) has(f F) bool { _, ok := s[f]; return ok }

func (s factSet[F]) clone() factSet[F] {
	out := make(factSet[F], len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

func (s factSet[F]) equal(other factSet[F]) bool {
	if len(s) != len(other) {
		return false
	}
	for f := range s {
		if !other.has(f) {
			return false
		}
	}
	return true
}

// problem is one analysis instance: a direction, a merge operator, the
// universe of facts appearing in the function, and per-block gen/kill
// sets. The block-local update is out = gen ∪ (merged − kill), with
// "out" meaning the block-exit set for forward problems and the
// block-entry set for backward ones.
type problem[F comparable] struct {
	name     string
	dir      direction
	merge    mergeOp
	universe factSet[F]
	gen      map[mir.BlockID]factSet[F]
	kill     map[mir.BlockID]factSet[F]
}

// FlowSets is one converged analysis result: the fact set at entry to and
// exit from every block.
type FlowSets[F comparable] struct {
	In  map[mir.BlockID]factSet[F]
	Out map[mir.BlockID]factSet[F]
}

// At returns the facts holding at entry to b, nil-safe for callers that
// probe blocks without facts.
func (r FlowSets[F]) At(b mir.BlockID) []F {
	return setMembers(r.In[b])
}

// AtExit returns the facts holding at exit from b.
func (r FlowSets[F]) AtExit(b mir.BlockID) []F {
	return setMembers(r.Out[b])
}

// Holds reports whether fact f holds at entry to b.
func (r FlowSets[F]) Holds(b mir.BlockID, f F) bool {
	return r.In[b].has(f)
}

// HoldsAtExit reports whether fact f holds at exit from b.
func (r FlowSets[F]) HoldsAtExit(b mir.BlockID, f F) bool {
	return r.Out[b].has(f)
}

func setMembers[F comparable](s factSet[F]) []F {
	out := make([]F, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	return out
}

// solve runs the problem to its fixpoint. For a forward problem, In[b] is
// the merge over predecessors' Out and Out[b] = gen ∪ (In − kill); a
// backward problem swaps the roles of In and Out and merges over
// successors. Blocks with no incoming edges for the chosen direction
// merge to the empty set, which is the boundary condition for both
// operators.
func solve[F comparable](g *Graph, p problem[F]) FlowSets[F] {
	r := FlowSets[F]{
		In:  make(map[mir.BlockID]factSet[F], g.BlockCount()),
		Out: make(map[mir.BlockID]factSet[F], g.BlockCount()),
	}
	for _, b := range g.Blocks() {
		r.In[b] = make(factSet[F])
		if p.merge == allPaths {
			r.Out[b] = p.universe.clone()
		} else {
			r.Out[b] = make(factSet[F])
		}
	}
	// For backward problems the "merged" side is Out and the computed
	// side is In; seed the computed side with the identity instead.
	if p.dir == backward {
		r.In, r.Out = r.Out, r.In
	}

	edgesIn := g.Preds
	if p.dir == backward {
		edgesIn = g.Succs
	}

	// Union analyses only grow sets and intersection analyses only
	// shrink them, so every pass that changes anything moves at least one
	// fact one way; blocks × facts passes is the theoretical ceiling.
	bound := g.BlockCount()*(len(p.universe)+1) + 2
	for iter := 0; ; iter++ {
		if iter > bound {
			diag.ICE("%s fixpoint exceeded its iteration bound (%d passes)", p.name, iter)
		}
		changed := false
		for _, b := range orderFor(g, p.dir) {
			merged := mergeEdges(r, p, b, edgesIn(b))
			next := transfer(p, b, merged)

			if p.dir == forward {
				r.In[b] = merged
				if !next.equal(r.Out[b]) {
					r.Out[b] = next
					changed = true
				}
			} else {
				r.Out[b] = merged
				if !next.equal(r.In[b]) {
					r.In[b] = next
					changed = true
				}
			}
		}
		if !changed {
			return r
		}
	}
}

// orderFor visits blocks in layout order for forward problems and in
// reverse layout order for backward ones; the order only affects how fast
// the fixpoint converges, never what it converges to.
func orderFor(g *Graph, dir direction) []mir.BlockID {
	blocks := g.Blocks()
	if dir == forward {
		return blocks
	}
	rev := make([]mir.BlockID, len(blocks))
	for i, b := range blocks {
		rev[len(blocks)-1-i] = b
	}
	return rev
}

func mergeEdges[F comparable](r FlowSets[F], p problem[F], b mir.BlockID, edges []mir.BlockID) factSet[F] {
	side := r.Out
	if p.dir == backward {
		side = r.In
	}

	if len(edges) == 0 {
		return make(factSet[F])
	}

	acc := side[edges[0]].clone()
	for _, e := range edges[1:] {
		other := side[e]
		if p.merge == anyPath {
			for f := range other {
				acc.add(f)
			}
		} else {
			for f := range acc {
				if !other.has(f) {
					delete(acc, f)
				}
			}
		}
	}
	return acc
}

func transfer[F comparable](p problem[F], b mir.BlockID, merged factSet[F]) factSet[F] {
	next := make(factSet[F], len(merged)+len(p.gen[b]))
	for f := range merged {
		if !p.kill[b].has(f) {
			next.add(f)
		}
	}
	for f := range p.gen[b] {
		next.add(f)
	}
	return next
}
