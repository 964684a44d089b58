package diag

// Diagnostic codes for the Lumen middle end.
//
// Code ranges:
// A0001-A0099: fatal graph/analysis build errors
// W0001-W0099: advisory findings (analysis completes with best-effort results)
//
// Internal-invariant violations carry no code: they are programming errors
// surfaced as internal compiler errors, not user-facing diagnostics.

const (
	// A0001: a terminator target names a block absent from the function.
	// Every later stage assumes a closed graph, so this aborts the
	// function's analysis.
	ErrDanglingTarget = "A0001"

	// W0001: a block has no path to any exit block. Dead code with no way
	// to return is legitimate input, so this is advisory only; the block
	// is excluded from post-dominance facts.
	WarnUnreachableFromExit = "W0001"

	// W0002: a natural loop with more than one block and no exit block.
	// Intentional infinite loops are legal, so this is advisory only.
	WarnInfiniteLoopSuspected = "W0002"
)

// Describe returns a human-readable description of a diagnostic code.
func Describe(code string) string {
	switch code {
	case ErrDanglingTarget:
		return "Terminator targets a block that does not exist in this function"
	case WarnUnreachableFromExit:
		return "Block has no path to a return and is excluded from post-dominance"
	case WarnInfiniteLoopSuspected:
		return "Natural loop has no exit block"
	default:
		return "Unknown diagnostic code"
	}
}

// IsWarning reports whether a code is advisory rather than fatal.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}
