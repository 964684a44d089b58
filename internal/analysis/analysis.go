package analysis

import (
	"sync"

	"lumen/internal/diag"
	"lumen/internal/mir"
)

// Analyze runs the full middle-end analysis over one lowered function:
// graph construction, dominators, post-dominators, natural loops, and the
// four dataflow analyses, in that order. Each stage consumes only the
// completed results of earlier stages and none mutates instructions.
//
// Analyze is pure in the sense that it retains no state between calls;
// every invocation builds its results fresh, so a driver may analyze many
// functions concurrently with no coordination beyond collecting results.
// The only fatal failure is a graph that is not closed over its
// terminator targets; advisory findings are attached to the result
// instead of aborting it.
func Analyze(fn *mir.Function) (*Result, error) {
	g, err := BuildGraph(fn)
	if err != nil {
		return nil, err
	}

	dom := buildDomTree(g)
	postDom, pdFindings := buildPostDomTree(g)
	loops, loopFindings := findLoops(g, dom)

	r := &Result{
		graph:         g,
		dom:           dom,
		postDom:       postDom,
		loops:         loops,
		ReachingDefs:  reachingDefinitions(g),
		LiveVars:      liveVariables(g),
		AvailExprs:    availableExpressions(g),
		VeryBusyExprs: veryBusyExpressions(g),
	}
	r.findings = append(r.findings, pdFindings...)
	r.findings = append(r.findings, loopFindings...)
	return r, nil
}

// AnalyzeAll analyzes each function on its own goroutine. Functions are
// independent analysis units sharing only the read-only instruction
// stream, so no locking is needed; results land at the index of their
// function. The first build error, in input order, is returned alongside
// whatever results completed.
func AnalyzeAll(fns []*mir.Function) ([]*Result, error) {
	results := make([]*Result, len(fns))
	errs := make([]error, len(fns))

	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn *mir.Function) {
			defer wg.Done()
			results[i], errs[i] = Analyze(fn)
		}(i, fn)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Findings returns the advisory findings produced while analyzing fn, for
// the driver to surface or suppress.
func (r *Result) Findings() []diag.Finding { return r.findings }
