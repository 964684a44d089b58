package diag

import (
	"fmt"

	"lumen/internal/mir"
)

// Level is the severity of a finding.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// BuildError is a fatal error raised while constructing the control-flow
// graph. It aborts analysis of the offending function and propagates to
// the compiler driver as a compilation failure.
type BuildError struct {
	Code     string
	Message  string
	Function string
	Block    mir.BlockID
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Function, e.Code, e.Message)
}

// Finding is an advisory observation attached to an otherwise complete
// analysis result. The driver decides whether to surface or suppress it.
type Finding struct {
	Level    Level
	Code     string
	Message  string
	Function string
	Block    mir.BlockID
}

func (f Finding) String() string {
	return fmt.Sprintf("%s[%s]: %s (%s, block b%d)", f.Level, f.Code, f.Message, f.Function, f.Block)
}

// ICE panics with an internal-compiler-error message. It marks invariant
// violations inside the analysis itself (a fixpoint exceeding its
// theoretical bound, a cycle in the immediate-dominator relation), which
// are programming errors rather than diagnostics about the input.
func ICE(format string, args ...interface{}) {
	panic(fmt.Sprintf("internal compiler error: "+format, args...))
}
