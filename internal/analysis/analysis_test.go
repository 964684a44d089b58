package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/diag"
	"lumen/internal/irtext"
	"lumen/internal/mir"
)

const countSrc = `
fn count(n) {
entry:
    i = const 0
    br header
header:
    c = lt i, n
    condbr c, body, done
body:
    one = const 1
    i = add i, one
    br header
done:
    ret i
}
`

func TestAnalyzeWhileLoop(t *testing.T) {
	fn := parseFn(t, countSrc)
	r, err := Analyze(fn)
	require.NoError(t, err)
	assert.Empty(t, r.Findings())

	assert.Same(t, fn, r.Fn())
	assert.Equal(t, 4, r.BlockCount())
	assert.Equal(t, 4, r.EdgeCount())

	g := r.Graph()
	header := blockNamed(t, g, "header")
	body := blockNamed(t, g, "body")
	done := blockNamed(t, g, "done")

	parent, ok := r.ImmediateDominator(body)
	require.True(t, ok)
	assert.Equal(t, header, parent)
	assert.Equal(t, []mir.BlockID{header, g.Entry()}, r.Dominators(done))
	assert.Equal(t, 2, r.Depth(done))

	assert.True(t, r.PostDom().PostDominates(done, header))

	require.Len(t, r.Loops(), 1)
	assert.True(t, r.IsLoopHeader(header))
	assert.False(t, r.IsLoopHeader(body))
	assert.True(t, r.HasLoop(body))
	assert.False(t, r.HasLoop(done))

	// All four dataflow results are populated.
	i := valueNamed(t, fn, "i")
	n := valueNamed(t, fn, "n")
	assert.True(t, r.LiveVars.Holds(header, i))
	assert.True(t, r.AvailExprs.Holds(done, mir.ExprKey{Op: "lt", Left: i, Right: n}))
	assert.NotEmpty(t, r.ReachingDefs.At(done))
	assert.NotNil(t, r.VeryBusyExprs.In)
}

func TestAnalyzeCollectsFindings(t *testing.T) {
	fn := parseFn(t, `
fn stuck(c) {
entry:
    condbr c, spin, trap
spin:
    x = const 1
    br back
back:
    br spin
trap:
    unreachable
}
`)
	r, err := Analyze(fn)
	require.NoError(t, err)

	// No block reaches a return, and the spin/back loop has no exit.
	var codes []string
	for _, f := range r.Findings() {
		codes = append(codes, f.Code)
		assert.Equal(t, diag.Warning, f.Level)
		assert.Equal(t, "stuck", f.Function)
	}
	assert.Contains(t, codes, diag.WarnUnreachableFromExit)
	assert.Contains(t, codes, diag.WarnInfiniteLoopSuspected)
}

func TestAnalyzeRejectsOpenGraph(t *testing.T) {
	fn := &mir.Function{
		Name: "open",
		Blocks: []*mir.Block{
			{ID: 0, Label: "entry", Term: &mir.Br{Target: 9}},
		},
	}

	r, err := Analyze(fn)
	assert.Nil(t, r)

	var buildErr *diag.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, diag.ErrDanglingTarget, buildErr.Code)
}

func TestAnalyzeAll(t *testing.T) {
	fns, err := irtext.Parse("test.mir", countSrc+`
fn id(v) {
entry:
    ret v
}

fn pick(c, a, b) {
entry:
    condbr c, left, right
left:
    ret a
right:
    ret b
}
`)
	require.NoError(t, err)
	require.Len(t, fns, 3)

	results, err := AnalyzeAll(fns)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results land at the index of their function.
	for i, r := range results {
		require.NotNil(t, r)
		assert.Same(t, fns[i], r.Fn())
	}
	assert.Len(t, results[0].Loops(), 1)
	assert.Equal(t, 1, results[1].BlockCount())
	assert.Equal(t, 3, results[2].BlockCount())
}

func TestAnalyzeAllPropagatesFirstError(t *testing.T) {
	good := parseFn(t, countSrc)
	bad := &mir.Function{
		Name: "open",
		Blocks: []*mir.Block{
			{ID: 0, Label: "entry", Term: &mir.Br{Target: 9}},
		},
	}

	results, err := AnalyzeAll([]*mir.Function{good, bad})
	require.Len(t, results, 2)

	var buildErr *diag.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "open", buildErr.Function)

	// The healthy function still analyzed to completion.
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
}
