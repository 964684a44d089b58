package irtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/mir"
)

func parseOne(t *testing.T, source string) *mir.Function {
	t.Helper()
	fns, err := Parse("test.mir", source)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	return fns[0]
}

func TestParseCountLoop(t *testing.T) {
	fn := parseOne(t, `
// a counting loop
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

	assert.Equal(t, "count", fn.Name)
	require.Len(t, fn.Blocks, 4)

	// Block identifiers follow appearance order.
	labels := []string{"entry", "header", "body", "done"}
	for i, b := range fn.Blocks {
		assert.Equal(t, mir.BlockID(i), b.ID)
		assert.Equal(t, labels[i], b.Label)
	}

	// Value identifiers follow first mention, parameters first.
	require.Len(t, fn.Params, 1)
	assert.Equal(t, mir.ValueID(0), fn.Params[0])
	assert.Equal(t, "n", fn.ValueName(0))
	assert.Equal(t, "i", fn.ValueName(1))
	assert.Equal(t, "c", fn.ValueName(2))
	assert.Equal(t, "one", fn.ValueName(3))

	entry := fn.Blocks[0]
	require.Len(t, entry.Instrs, 1)
	konst, ok := entry.Instrs[0].(*mir.Const)
	require.True(t, ok)
	assert.Equal(t, int64(0), konst.Value)
	assert.Equal(t, &mir.Br{Target: 1}, entry.Term)

	header := fn.Blocks[1]
	bin, ok := header.Instrs[0].(*mir.BinOp)
	require.True(t, ok)
	assert.Equal(t, "lt", bin.Op)
	assert.Equal(t, &mir.CondBr{Cond: 2, Then: 2, Else: 3}, header.Term)

	done := fn.Blocks[3]
	assert.Equal(t, &mir.Return{Value: 1, HasValue: true}, done.Term)
}

func TestParseInstructionKinds(t *testing.T) {
	fn := parseOne(t, `
fn kinds(p, q) {
entry:
    a = const 42
    b = copy a
    c = load p
    store p, b
    d = add b, c
    call log(d)
    e = call make(a, b)
    br merge
merge:
    f = phi [entry: e]
    ret f
}
`)

	instrs := fn.Blocks[0].Instrs
	require.Len(t, instrs, 7)

	assert.IsType(t, &mir.Const{}, instrs[0])
	assert.IsType(t, &mir.Copy{}, instrs[1])
	assert.IsType(t, &mir.Load{}, instrs[2])
	assert.IsType(t, &mir.Store{}, instrs[3])
	assert.IsType(t, &mir.BinOp{}, instrs[4])

	voidCall, ok := instrs[5].(*mir.Call)
	require.True(t, ok)
	assert.Equal(t, mir.NoValue, voidCall.Dst)
	assert.Equal(t, "log", voidCall.Callee)
	assert.Empty(t, voidCall.Defs())

	resCall, ok := instrs[6].(*mir.Call)
	require.True(t, ok)
	assert.NotEqual(t, mir.NoValue, resCall.Dst)
	assert.Equal(t, "make", resCall.Callee)
	assert.Len(t, resCall.Args, 2)

	phi, ok := fn.Blocks[1].Instrs[0].(*mir.Phi)
	require.True(t, ok)
	assert.Equal(t, map[mir.BlockID]mir.ValueID{0: resCall.Dst}, phi.Incoming)
}

func TestParseTerminatorKinds(t *testing.T) {
	fn := parseOne(t, `
fn terms(v) {
entry:
    switch v, [1: one, 2: two], default fall
one:
    invoke r = mayfail(v), to two unwind fall
two:
    ret void
fall:
    unreachable
}
`)

	sw, ok := fn.Blocks[0].Term.(*mir.Switch)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	assert.Equal(t, int64(1), sw.Cases[0].Const)
	assert.Equal(t, mir.BlockID(1), sw.Cases[0].Target)
	assert.Equal(t, mir.BlockID(3), sw.Default)

	inv, ok := fn.Blocks[1].Term.(*mir.Invoke)
	require.True(t, ok)
	assert.Equal(t, "mayfail", inv.Callee)
	assert.Equal(t, mir.BlockID(2), inv.Normal)
	assert.Equal(t, mir.BlockID(3), inv.Unwind)
	assert.Equal(t, "r", fn.ValueName(inv.Dst))

	ret, ok := fn.Blocks[2].Term.(*mir.Return)
	require.True(t, ok)
	assert.False(t, ret.HasValue)

	assert.IsType(t, &mir.Unreachable{}, fn.Blocks[3].Term)
}

func TestParseVoidInvoke(t *testing.T) {
	fn := parseOne(t, `
fn fire(p) {
entry:
    invoke notify(p), to done unwind done
done:
    ret void
}
`)

	inv, ok := fn.Blocks[0].Term.(*mir.Invoke)
	require.True(t, ok)
	assert.Equal(t, mir.NoValue, inv.Dst)
	assert.Empty(t, inv.Defs())
}

func TestParseMultipleFunctions(t *testing.T) {
	fns, err := Parse("test.mir", `
fn first() {
entry:
    ret void
}

fn second(v) {
entry:
    ret v
}
`)
	require.NoError(t, err)
	require.Len(t, fns, 2)
	assert.Equal(t, "first", fns[0].Name)
	assert.Equal(t, "second", fns[1].Name)

	// Value identifiers are scoped per function.
	assert.Equal(t, mir.ValueID(0), fns[1].Params[0])
}

func TestDuplicateLabelRejected(t *testing.T) {
	_, err := Parse("test.mir", `
fn dup() {
entry:
    br entry
entry:
    ret void
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate block label")
	assert.Contains(t, err.Error(), "entry")
}

func TestUndefinedLabelRejected(t *testing.T) {
	_, err := Parse("test.mir", `
fn lost() {
entry:
    br nowhere
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined block label")
	assert.Contains(t, err.Error(), "nowhere")
}

func TestFunctionWithoutBlocksRejected(t *testing.T) {
	_, err := Parse("test.mir", `
fn hollow() {
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no blocks")
}

func TestSyntaxErrorReported(t *testing.T) {
	_, err := Parse("test.mir", `fn broken( {`)
	assert.Error(t, err)
}
