package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders findings and build errors for terminal output.
type Reporter struct {
	blockLabel func(f Finding) string
}

// NewReporter creates a reporter. labeler resolves a finding's block to a
// display label; a nil labeler falls back to b<N>.
func NewReporter(labeler func(f Finding) string) *Reporter {
	return &Reporter{blockLabel: labeler}
}

// FormatFinding renders a single advisory finding:
//
//	warning[W0002]: loop headed by `body` has no exit block
//	  --> spin, block body
func (r *Reporter) FormatFinding(f Finding) string {
	var result strings.Builder

	levelColor := r.levelColor(f.Level)
	dim := color.New(color.Faint).SprintFunc()

	result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(f.Level)), f.Code, f.Message))

	label := fmt.Sprintf("b%d", f.Block)
	if r.blockLabel != nil {
		label = r.blockLabel(f)
	}
	result.WriteString(fmt.Sprintf("  %s %s, block %s\n", dim("-->"), f.Function, label))

	return result.String()
}

// FormatBuildError renders a fatal graph construction error.
func (r *Reporter) FormatBuildError(err *BuildError) string {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s[%s]: %s\n", red("error"), err.Code, err.Message))
	result.WriteString(fmt.Sprintf("  %s %s, block b%d\n", dim("-->"), err.Function, err.Block))
	return result.String()
}

func (r *Reporter) levelColor(level Level) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}
