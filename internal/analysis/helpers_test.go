package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lumen/internal/irtext"
	"lumen/internal/mir"
)

func parseFn(t *testing.T, source string) *mir.Function {
	t.Helper()
	fns, err := irtext.Parse("test.mir", source)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	return fns[0]
}

func buildTestGraph(t *testing.T, source string) *Graph {
	t.Helper()
	g, err := BuildGraph(parseFn(t, source))
	require.NoError(t, err)
	return g
}

func blockNamed(t *testing.T, g *Graph, label string) mir.BlockID {
	t.Helper()
	for _, id := range g.Blocks() {
		if g.Block(id).Label == label {
			return id
		}
	}
	t.Fatalf("no block labeled %q", label)
	return 0
}

func valueNamed(t *testing.T, fn *mir.Function, name string) mir.ValueID {
	t.Helper()
	for id, n := range fn.ValueNames {
		if n == name {
			return id
		}
	}
	t.Fatalf("no value named %q", name)
	return 0
}
