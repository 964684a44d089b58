package analysis

import (
	"lumen/internal/diag"
	"lumen/internal/mir"
)

// Result is the assembled analysis of one function, handed as a unit to
// optimization passes. All of it is read-only once Analyze returns; the
// core holds no state across functions.
type Result struct {
	graph    *Graph
	dom      *DomTree
	postDom  *PostDomTree
	loops    []*Loop
	findings []diag.Finding

	// The four dataflow maps, independently computed and independently
	// consumable. Cross-analysis composition (say, using liveness to
	// prune reaching definitions for dead-code elimination) belongs to
	// the consuming optimizer.
	ReachingDefs  FlowSets[Def]
	LiveVars      FlowSets[mir.ValueID]
	AvailExprs    FlowSets[mir.ExprKey]
	VeryBusyExprs FlowSets[mir.ExprKey]
}

// Fn returns the analyzed function.
func (r *Result) Fn() *mir.Function { return r.graph.Fn() }

// Graph returns the function's control-flow graph.
func (r *Result) Graph() *Graph { return r.graph }

// BlockCount returns the number of basic blocks.
func (r *Result) BlockCount() int { return r.graph.BlockCount() }

// EdgeCount returns the number of control-flow edges.
func (r *Result) EdgeCount() int { return r.graph.EdgeCount() }

// Preds returns the ordered predecessor set of a block.
func (r *Result) Preds(b mir.BlockID) []mir.BlockID { return r.graph.Preds(b) }

// Succs returns the ordered successor set of a block.
func (r *Result) Succs(b mir.BlockID) []mir.BlockID { return r.graph.Succs(b) }

// Dom returns the dominator tree.
func (r *Result) Dom() *DomTree { return r.dom }

// PostDom returns the post-dominator tree.
func (r *Result) PostDom() *PostDomTree { return r.postDom }

// ImmediateDominator returns a block's parent in the dominator tree; the
// second result is false for the entry block and unreachable blocks.
func (r *Result) ImmediateDominator(b mir.BlockID) (mir.BlockID, bool) {
	return r.dom.Idom(b)
}

// Dominators returns b's strict dominators ordered by decreasing depth,
// immediate dominator first.
func (r *Result) Dominators(b mir.BlockID) []mir.BlockID { return r.dom.Dominators(b) }

// Depth returns b's dominance depth; the entry block is at depth 0.
func (r *Result) Depth(b mir.BlockID) int { return r.dom.Depth(b) }

// Loops returns every natural loop discovered in the function, one per
// header, in header block order.
func (r *Result) Loops() []*Loop { return r.loops }

// IsLoopHeader reports whether b heads a natural loop.
func (r *Result) IsLoopHeader(b mir.BlockID) bool {
	for _, l := range r.loops {
		if l.Header == b {
			return true
		}
	}
	return false
}

// HasLoop reports whether b belongs to the body of any natural loop.
func (r *Result) HasLoop(b mir.BlockID) bool {
	for _, l := range r.loops {
		if l.Contains(b) {
			return true
		}
	}
	return false
}
