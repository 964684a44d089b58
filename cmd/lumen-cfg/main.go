// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"lumen/internal/analysis"
	"lumen/internal/diag"
	"lumen/internal/irtext"
)

var (
	format    string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   "lumen-cfg <file.mir>",
	Short: "Run the Lumen middle-end analyses over a textual MIR file",
	Long: `lumen-cfg parses a textual MIR file, runs the control-flow and dataflow
analyses over every function in it, and prints the results: the CFG shape,
dominator and post-dominator trees, natural loops, and the four dataflow
result sets.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var buildErr *diag.BuildError
		if errors.As(err, &buildErr) {
			fmt.Fprint(os.Stderr, diag.NewReporter(nil).FormatBuildError(buildErr))
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("lumen-cfg")

	startTime := time.Now()
	path := args[0]

	fns, err := irtext.ParseFile(path)
	if err != nil {
		return err
	}
	log.Debugf("parsed %d functions from %s", len(fns), path)

	results, err := analysis.AnalyzeAll(fns)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		for _, result := range results {
			printResult(cmd.OutOrStdout(), result)
		}
	case "yaml":
		if err := printYAML(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q (want text or yaml)", format)
	}

	if format == "text" {
		color.Green("Analyzed %d functions in %s", len(results), time.Since(startTime).Round(time.Microsecond))
	}
	return nil
}
