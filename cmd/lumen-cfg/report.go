// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"lumen/internal/analysis"
	"lumen/internal/diag"
	"lumen/internal/mir"
)

// printResult renders one function's analysis for terminal reading.
func printResult(w io.Writer, r *analysis.Result) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fn := r.Fn()
	fmt.Fprintf(w, "%s %s %s\n", bold("fn"), bold(fn.Name),
		dim(fmt.Sprintf("(%d blocks, %d edges)", r.BlockCount(), r.EdgeCount())))

	for _, b := range r.Graph().Blocks() {
		marks := []string{}
		if r.Graph().IsEntry(b) {
			marks = append(marks, "entry")
		}
		if r.Graph().Block(b).IsExit() {
			marks = append(marks, "exit")
		}
		if r.IsLoopHeader(b) {
			marks = append(marks, "loop header")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = dim(" ; " + strings.Join(marks, ", "))
		}

		fmt.Fprintf(w, "  %s -> %s%s\n", label(r, b), labels(r, r.Succs(b)), suffix)
		if idom, ok := r.ImmediateDominator(b); ok {
			fmt.Fprintf(w, "    idom %s, depth %d\n", label(r, idom), r.Depth(b))
		}
	}

	for _, loop := range r.Loops() {
		fmt.Fprintf(w, "  loop %s: body %s, exits %s\n",
			label(r, loop.Header), labels(r, loop.Body), labels(r, loop.Exits))
	}

	printFlowSection(w, r, "live at entry", func(b mir.BlockID) []string {
		return valueNames(r, r.LiveVars.At(b))
	})
	printFlowSection(w, r, "available exprs at entry", func(b mir.BlockID) []string {
		return exprNames(r, r.AvailExprs.At(b))
	})

	reporter := diag.NewReporter(func(f diag.Finding) string { return label(r, f.Block) })
	for _, f := range r.Findings() {
		fmt.Fprint(w, reporter.FormatFinding(f))
	}
	fmt.Fprintln(w)
}

func printFlowSection(w io.Writer, r *analysis.Result, heading string, facts func(mir.BlockID) []string) {
	fmt.Fprintf(w, "  %s:\n", heading)
	for _, b := range r.Graph().Blocks() {
		names := facts(b)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(w, "    %s: %s\n", label(r, b), strings.Join(names, ", "))
	}
}

func label(r *analysis.Result, b mir.BlockID) string {
	if blk := r.Graph().Block(b); blk != nil && blk.Label != "" {
		return blk.Label
	}
	return fmt.Sprintf("b%d", b)
}

func labels(r *analysis.Result, blocks []mir.BlockID) string {
	if len(blocks) == 0 {
		return "(none)"
	}
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = label(r, b)
	}
	return strings.Join(out, ", ")
}

func valueNames(r *analysis.Result, values []mir.ValueID) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = r.Fn().ValueName(v)
	}
	sort.Strings(out)
	return out
}

func exprNames(r *analysis.Result, exprs []mir.ExprKey) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = fmt.Sprintf("(%s %s %s)", e.Op, r.Fn().ValueName(e.Left), r.Fn().ValueName(e.Right))
	}
	sort.Strings(out)
	return out
}

// YAML report shapes, for tooling that consumes analysis output.

type fileReport struct {
	Functions []functionReport `yaml:"functions"`
}

type functionReport struct {
	Function string          `yaml:"function"`
	Blocks   int             `yaml:"blocks"`
	Edges    int             `yaml:"edges"`
	CFG      []blockReport   `yaml:"cfg"`
	Loops    []loopReport    `yaml:"loops,omitempty"`
	Dataflow dataflowReport  `yaml:"dataflow"`
	Findings []findingReport `yaml:"findings,omitempty"`
}

type blockReport struct {
	Block      string   `yaml:"block"`
	Succs      []string `yaml:"succs,omitempty"`
	Preds      []string `yaml:"preds,omitempty"`
	Idom       string   `yaml:"idom,omitempty"`
	Depth      int      `yaml:"depth"`
	Entry      bool     `yaml:"entry,omitempty"`
	Exit       bool     `yaml:"exit,omitempty"`
	LoopHeader bool     `yaml:"loop_header,omitempty"`
}

type loopReport struct {
	Header string   `yaml:"header"`
	Body   []string `yaml:"body"`
	Exits  []string `yaml:"exits,omitempty"`
}

type dataflowReport struct {
	LiveAtEntry      map[string][]string `yaml:"live_at_entry,omitempty"`
	AvailableAtEntry map[string][]string `yaml:"available_at_entry,omitempty"`
	VeryBusyAtEntry  map[string][]string `yaml:"very_busy_at_entry,omitempty"`
	ReachingAtEntry  map[string][]string `yaml:"reaching_defs_at_entry,omitempty"`
}

type findingReport struct {
	Level   string `yaml:"level"`
	Code    string `yaml:"code"`
	Block   string `yaml:"block"`
	Message string `yaml:"message"`
}

func printYAML(w io.Writer, results []*analysis.Result) error {
	report := fileReport{}
	for _, r := range results {
		report.Functions = append(report.Functions, buildFunctionReport(r))
	}
	return yaml.NewEncoder(w).Encode(report)
}

func buildFunctionReport(r *analysis.Result) functionReport {
	fr := functionReport{
		Function: r.Fn().Name,
		Blocks:   r.BlockCount(),
		Edges:    r.EdgeCount(),
		Dataflow: dataflowReport{
			LiveAtEntry:      map[string][]string{},
			AvailableAtEntry: map[string][]string{},
			VeryBusyAtEntry:  map[string][]string{},
			ReachingAtEntry:  map[string][]string{},
		},
	}

	for _, b := range r.Graph().Blocks() {
		br := blockReport{
			Block:      label(r, b),
			Succs:      labelSlice(r, r.Succs(b)),
			Preds:      labelSlice(r, r.Preds(b)),
			Depth:      r.Depth(b),
			Entry:      r.Graph().IsEntry(b),
			Exit:       r.Graph().Block(b).IsExit(),
			LoopHeader: r.IsLoopHeader(b),
		}
		if idom, ok := r.ImmediateDominator(b); ok {
			br.Idom = label(r, idom)
		}
		fr.CFG = append(fr.CFG, br)

		name := label(r, b)
		if live := valueNames(r, r.LiveVars.At(b)); len(live) > 0 {
			fr.Dataflow.LiveAtEntry[name] = live
		}
		if avail := exprNames(r, r.AvailExprs.At(b)); len(avail) > 0 {
			fr.Dataflow.AvailableAtEntry[name] = avail
		}
		if busy := exprNames(r, r.VeryBusyExprs.At(b)); len(busy) > 0 {
			fr.Dataflow.VeryBusyAtEntry[name] = busy
		}
		if defs := defNames(r, r.ReachingDefs.At(b)); len(defs) > 0 {
			fr.Dataflow.ReachingAtEntry[name] = defs
		}
	}

	for _, loop := range r.Loops() {
		fr.Loops = append(fr.Loops, loopReport{
			Header: label(r, loop.Header),
			Body:   labelSlice(r, loop.Body),
			Exits:  labelSlice(r, loop.Exits),
		})
	}

	for _, f := range r.Findings() {
		fr.Findings = append(fr.Findings, findingReport{
			Level:   string(f.Level),
			Code:    f.Code,
			Block:   label(r, f.Block),
			Message: f.Message,
		})
	}
	return fr
}

func labelSlice(r *analysis.Result, blocks []mir.BlockID) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = label(r, b)
	}
	return out
}

func defNames(r *analysis.Result, defs []analysis.Def) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = fmt.Sprintf("%s@%s", r.Fn().ValueName(d.Var), label(r, d.Block))
	}
	sort.Strings(out)
	return out
}
