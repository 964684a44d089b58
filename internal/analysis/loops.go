package analysis

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/mir"
)

// Loop is a natural loop: a header reached by at least one back edge,
// plus every block that can reach a latch without leaving the header's
// dominance region. The header dominates every block in the body.
type Loop struct {
	Header mir.BlockID
	// Latches are the back-edge sources, in block order. A header with
	// several disjoint back edges still forms a single natural loop.
	Latches []mir.BlockID
	// Body is the loop's block set, always including the header.
	Body []mir.BlockID
	// Exits are body blocks with at least one successor outside the body.
	Exits []mir.BlockID
	// PreHeader is the single-entry block a later transform may insert in
	// front of the header. The analysis core leaves it unset.
	PreHeader *mir.BlockID

	bodySet blockSet
}

// Contains reports whether b belongs to the loop body.
func (l *Loop) Contains(b mir.BlockID) bool { return l.bodySet.has(b) }

// findLoops enumerates natural loops from dominance facts: an edge p → h
// where h dominates p is a back edge, h is a loop header, and the body is
// grown backward from each latch. Headers are marked on the blocks
// themselves. A multi-block loop with no exit is flagged as a suspected
// infinite loop; that is advisory because intentional infinite loops are
// legal input.
func findLoops(g *Graph, dom *DomTree) ([]*Loop, []diag.Finding) {
	latchesByHeader := make(map[mir.BlockID][]mir.BlockID)
	for _, h := range g.Blocks() {
		for _, p := range g.Preds(h) {
			if dom.Dominates(h, p) {
				latchesByHeader[h] = append(latchesByHeader[h], p)
			}
		}
	}

	var loops []*Loop
	var findings []diag.Finding
	for _, h := range g.Blocks() {
		latches, ok := latchesByHeader[h]
		if !ok {
			continue
		}

		loop := &Loop{
			Header:  h,
			Latches: latches,
			bodySet: growLoopBody(g, dom, h, latches),
		}
		loop.Body = g.sorted(loop.bodySet)

		for _, b := range loop.Body {
			for _, s := range g.Succs(b) {
				if !loop.bodySet.has(s) {
					loop.Exits = append(loop.Exits, b)
					break
				}
			}
		}

		g.Block(h).LoopHeader = true
		loops = append(loops, loop)

		if len(loop.Body) > 1 && len(loop.Exits) == 0 {
			findings = append(findings, diag.Finding{
				Level:    diag.Warning,
				Code:     diag.WarnInfiniteLoopSuspected,
				Message:  fmt.Sprintf("loop headed by %s has no exit block", blockLabel(g, h)),
				Function: g.Fn().Name,
				Block:    h,
			})
		}
	}
	return loops, findings
}

// growLoopBody seeds the body with the header and every latch, then pulls
// in any predecessor of a body block that the header dominates, until the
// set stops growing. The dominance guard keeps blocks that merely branch
// into the loop region from outside it out of the body.
func growLoopBody(g *Graph, dom *DomTree, header mir.BlockID, latches []mir.BlockID) blockSet {
	body := blockSet{header: struct{}{}}
	var worklist []mir.BlockID
	for _, l := range latches {
		if !body.has(l) {
			body.add(l)
			worklist = append(worklist, l)
		}
	}

	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if b == header {
			continue
		}
		for _, p := range g.Preds(b) {
			if !body.has(p) && dom.Dominates(header, p) {
				body.add(p)
				worklist = append(worklist, p)
			}
		}
	}
	return body
}
