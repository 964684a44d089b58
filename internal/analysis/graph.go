package analysis

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/mir"
)

// Graph is the control-flow graph of one function: predecessor and
// successor edge sets derived once from block terminators, plus the
// entry/exit classification. It is immutable after construction.
type Graph struct {
	fn     *mir.Function
	blocks map[mir.BlockID]*mir.Block
	order  []mir.BlockID
	pos    map[mir.BlockID]int
	preds  map[mir.BlockID][]mir.BlockID
	succs  map[mir.BlockID][]mir.BlockID
	entry  mir.BlockID
	exits  []mir.BlockID
	edges  int
}

// BuildGraph derives the edge sets of a function from its terminators. A
// terminator target naming a block outside the function is a fatal
// *diag.BuildError: later stages assume a closed graph, so nothing else
// is computed.
func BuildGraph(fn *mir.Function) (*Graph, error) {
	if len(fn.Blocks) == 0 {
		return nil, &diag.BuildError{
			Code:     diag.ErrDanglingTarget,
			Message:  "function has no blocks",
			Function: fn.Name,
		}
	}

	g := &Graph{
		fn:     fn,
		blocks: make(map[mir.BlockID]*mir.Block, len(fn.Blocks)),
		order:  make([]mir.BlockID, 0, len(fn.Blocks)),
		pos:    make(map[mir.BlockID]int, len(fn.Blocks)),
		preds:  make(map[mir.BlockID][]mir.BlockID, len(fn.Blocks)),
		succs:  make(map[mir.BlockID][]mir.BlockID, len(fn.Blocks)),
		entry:  fn.Blocks[0].ID,
	}

	for i, b := range fn.Blocks {
		g.blocks[b.ID] = b
		g.order = append(g.order, b.ID)
		g.pos[b.ID] = i
	}

	for _, b := range fn.Blocks {
		for _, target := range b.Term.Targets() {
			if _, ok := g.blocks[target]; !ok {
				return nil, &diag.BuildError{
					Code:     diag.ErrDanglingTarget,
					Message:  fmt.Sprintf("terminator %q targets unknown block b%d", b.Term, target),
					Function: fn.Name,
					Block:    b.ID,
				}
			}
			g.addEdge(b.ID, target)
		}
		if b.IsExit() {
			g.exits = append(g.exits, b.ID)
		}
	}

	return g, nil
}

// addEdge records b1 -> b2 once, preserving target declaration order.
func (g *Graph) addEdge(b1, b2 mir.BlockID) {
	for _, s := range g.succs[b1] {
		if s == b2 {
			return
		}
	}
	g.succs[b1] = append(g.succs[b1], b2)
	g.preds[b2] = append(g.preds[b2], b1)
	g.edges++
}

// Fn returns the analyzed function.
func (g *Graph) Fn() *mir.Function { return g.fn }

// Entry returns the entry block identifier, always the function's first
// block.
func (g *Graph) Entry() mir.BlockID { return g.entry }

// Exits returns the blocks whose terminator is a return, in block order.
// Post-dominance treats them as a single virtual sink.
func (g *Graph) Exits() []mir.BlockID { return g.exits }

// BlockCount returns the number of blocks in the graph.
func (g *Graph) BlockCount() int { return len(g.order) }

// EdgeCount returns the number of distinct control-flow edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Blocks returns block identifiers in original block order.
func (g *Graph) Blocks() []mir.BlockID { return g.order }

// Block resolves a block identifier. Identifiers come from this graph, so
// lookup of a foreign identifier returns nil.
func (g *Graph) Block(id mir.BlockID) *mir.Block { return g.blocks[id] }

// Preds returns the ordered predecessor set of a block.
func (g *Graph) Preds(id mir.BlockID) []mir.BlockID { return g.preds[id] }

// Succs returns the ordered successor set of a block.
func (g *Graph) Succs(id mir.BlockID) []mir.BlockID { return g.succs[id] }

// IsEntry reports whether id is the function's entry block.
func (g *Graph) IsEntry(id mir.BlockID) bool { return id == g.entry }

// reachable returns the set of blocks reachable from the given roots
// along the edges yielded by next.
func (g *Graph) reachable(roots []mir.BlockID, next func(mir.BlockID) []mir.BlockID) blockSet {
	seen := make(blockSet, len(g.order))
	stack := append([]mir.BlockID(nil), roots...)
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen.has(b) {
			continue
		}
		seen.add(b)
		stack = append(stack, next(b)...)
	}
	return seen
}

// blockSet is a set of block identifiers.
type blockSet map[mir.BlockID]struct{}

func (s blockSet) add(b mir.BlockID)      { s[b] = struct{}{} }
func (s blockSet) has(b mir.BlockID) bool { _, ok := s[b]; return ok }

func (s blockSet) clone() blockSet {
	out := make(blockSet, len(s))
	for b := range s {
		out[b] = struct{}{}
	}
	return out
}

func (s blockSet) equal(other blockSet) bool {
	if len(s) != len(other) {
		return false
	}
	for b := range s {
		if !other.has(b) {
			return false
		}
	}
	return true
}

// sorted returns the set's members ordered by their position in the
// function's block list, for deterministic iteration.
func (g *Graph) sorted(s blockSet) []mir.BlockID {
	out := make([]mir.BlockID, 0, len(s))
	for _, b := range g.order {
		if s.has(b) {
			out = append(out, b)
		}
	}
	return out
}
