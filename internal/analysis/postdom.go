package analysis

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/mir"
)

// PostDomTree is the dominance computation over the reversed graph,
// rooted at the function's exit blocks. Several return blocks are treated
// as a single virtual sink: each exit is a root of the fixpoint, and a
// block post-dominated by no single real block hangs directly off the
// sink (it has no immediate post-dominator).
type PostDomTree struct {
	domInfo
}

// buildPostDomTree computes post-dominators and reports blocks that have
// no path to any exit. Such dead-end blocks are legitimate (if
// suspicious) input, so the report is an advisory finding rather than a
// fatal error, and the blocks are simply excluded from post-dominance
// facts.
func buildPostDomTree(g *Graph) (*PostDomTree, []diag.Finding) {
	roots := make(blockSet, len(g.Exits()))
	for _, e := range g.Exits() {
		roots.add(e)
	}

	t := &PostDomTree{domInfo{
		g:        g,
		roots:    roots,
		analyzed: g.reachable(g.Exits(), g.Preds),
	}}
	t.solve(g.Succs)
	t.buildTree()

	var findings []diag.Finding
	for _, b := range g.Blocks() {
		if t.analyzed.has(b) {
			continue
		}
		findings = append(findings, diag.Finding{
			Level:    diag.Warning,
			Code:     diag.WarnUnreachableFromExit,
			Message:  fmt.Sprintf("block %s has no path to a return", blockLabel(g, b)),
			Function: g.Fn().Name,
			Block:    b,
		})
	}
	return t, findings
}

// PostDominates reports whether a post-dominates b: every path from b to
// an exit passes through a.
func (t *PostDomTree) PostDominates(a, b mir.BlockID) bool { return t.Dominates(a, b) }

func blockLabel(g *Graph, b mir.BlockID) string {
	if blk := g.Block(b); blk != nil && blk.Label != "" {
		return blk.Label
	}
	return fmt.Sprintf("b%d", b)
}
