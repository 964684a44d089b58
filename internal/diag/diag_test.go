package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorFormatting(t *testing.T) {
	err := &BuildError{
		Code:     ErrDanglingTarget,
		Message:  "terminator targets unknown block b7",
		Function: "main",
		Block:    2,
	}

	msg := err.Error()
	assert.Contains(t, msg, "main")
	assert.Contains(t, msg, ErrDanglingTarget)
	assert.Contains(t, msg, "unknown block b7")
}

func TestFindingFormatting(t *testing.T) {
	f := Finding{
		Level:    Warning,
		Code:     WarnInfiniteLoopSuspected,
		Message:  "loop headed by spin has no exit block",
		Function: "run",
		Block:    1,
	}

	msg := f.String()
	assert.Contains(t, msg, "warning["+WarnInfiniteLoopSuspected+"]")
	assert.Contains(t, msg, "no exit block")
	assert.Contains(t, msg, "run")
	assert.Contains(t, msg, "b1")
}

func TestCodeClassification(t *testing.T) {
	assert.False(t, IsWarning(ErrDanglingTarget))
	assert.True(t, IsWarning(WarnUnreachableFromExit))
	assert.True(t, IsWarning(WarnInfiniteLoopSuspected))
	assert.False(t, IsWarning(""))
}

func TestDescribeKnownCodes(t *testing.T) {
	for _, code := range []string{ErrDanglingTarget, WarnUnreachableFromExit, WarnInfiniteLoopSuspected} {
		assert.NotEqual(t, "Unknown diagnostic code", Describe(code))
	}
	assert.Equal(t, "Unknown diagnostic code", Describe("X9999"))
}

func TestICEPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Contains(t, r.(string), "internal compiler error: fixpoint diverged after 12 passes")
	}()
	ICE("fixpoint diverged after %d passes", 12)
}
