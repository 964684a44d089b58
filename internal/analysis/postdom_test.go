package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/diag"
)

func TestDiamondPostDominators(t *testing.T) {
	g := buildTestGraph(t, diamondSrc)
	pdom, findings := buildPostDomTree(g)
	assert.Empty(t, findings)

	entry := blockNamed(t, g, "entry")
	then := blockNamed(t, g, "then")
	els := blockNamed(t, g, "els")
	merge := blockNamed(t, g, "merge")

	// Every path to the return funnels through the merge.
	assert.True(t, pdom.PostDominates(merge, entry))
	assert.True(t, pdom.PostDominates(merge, then))
	assert.True(t, pdom.PostDominates(merge, els))
	assert.False(t, pdom.PostDominates(then, entry))

	parent, ok := pdom.Idom(entry)
	require.True(t, ok)
	assert.Equal(t, merge, parent)

	_, ok = pdom.Idom(merge)
	assert.False(t, ok)
	assert.Equal(t, 0, pdom.Depth(merge))
	assert.Equal(t, 1, pdom.Depth(then))
}

func TestMultipleExitsActAsOneSink(t *testing.T) {
	g := buildTestGraph(t, `
fn split(c) {
entry:
    condbr c, a, b
a:
    ret void
b:
    ret void
}
`)
	pdom, findings := buildPostDomTree(g)
	assert.Empty(t, findings)

	entry := blockNamed(t, g, "entry")
	a := blockNamed(t, g, "a")
	b := blockNamed(t, g, "b")

	// Neither exit post-dominates the entry: the entry hangs directly off
	// the virtual sink with no immediate post-dominator.
	assert.False(t, pdom.PostDominates(a, entry))
	assert.False(t, pdom.PostDominates(b, entry))
	_, ok := pdom.Idom(entry)
	assert.False(t, ok)

	for _, blk := range g.Blocks() {
		assert.True(t, pdom.Reachable(blk))
		assert.True(t, pdom.PostDominates(blk, blk))
	}
}

func TestUnreachableFromExitFinding(t *testing.T) {
	g := buildTestGraph(t, `
fn wedge(c) {
entry:
    condbr c, done, trap
trap:
    unreachable
done:
    ret void
}
`)
	pdom, findings := buildPostDomTree(g)

	trap := blockNamed(t, g, "trap")
	done := blockNamed(t, g, "done")

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, diag.Warning, f.Level)
	assert.Equal(t, diag.WarnUnreachableFromExit, f.Code)
	assert.Equal(t, "wedge", f.Function)
	assert.Equal(t, trap, f.Block)
	assert.Contains(t, f.Message, "trap")

	// The dead-end block carries no post-dominance facts; the rest of the
	// function is unaffected.
	assert.False(t, pdom.Reachable(trap))
	assert.False(t, pdom.PostDominates(done, trap))
	assert.True(t, pdom.PostDominates(done, blockNamed(t, g, "entry")))
}

func TestLoopPostDominators(t *testing.T) {
	g := buildTestGraph(t, `
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
`)
	pdom, findings := buildPostDomTree(g)
	assert.Empty(t, findings)

	header := blockNamed(t, g, "header")
	body := blockNamed(t, g, "body")
	done := blockNamed(t, g, "done")

	// The only way out of the loop is through the header's exit edge.
	assert.True(t, pdom.PostDominates(done, header))
	assert.True(t, pdom.PostDominates(header, body))
	assert.False(t, pdom.PostDominates(body, header))
}
