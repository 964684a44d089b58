package mir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for lowered functions.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new printer.
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the textual form of a function, one block per section.
func Print(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("    ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, v := range fn.Params {
		params[i] = fn.ValueName(v)
	}
	p.writeLine("fn %s(%s) {", fn.Name, strings.Join(params, ", "))

	for _, block := range fn.Blocks {
		p.printBlock(fn, block)
	}
	p.writeLine("}")
}

func (p *Printer) printBlock(fn *Function, block *Block) {
	label := block.Label
	if label == "" {
		label = fmt.Sprintf("b%d", block.ID)
	}
	suffix := ""
	if block.LoopHeader {
		suffix = "    ; loop header"
	}
	p.writeLine("%s:%s", label, suffix)

	p.indent++
	for _, inst := range block.Instrs {
		p.writeLine("%s", p.renderNames(fn, inst.String()))
	}
	if block.Term != nil {
		p.writeLine("%s", p.renderNames(fn, block.Term.String()))
	}
	p.indent--
}

// renderNames substitutes display names for the default v<N> spellings and
// block labels for the default b<N> spellings.
func (p *Printer) renderNames(fn *Function, s string) string {
	for v, name := range fn.ValueNames {
		s = replaceWord(s, defaultValueName(v), name)
	}
	for _, b := range fn.Blocks {
		if b.Label != "" {
			s = replaceWord(s, fmt.Sprintf("b%d", b.ID), b.Label)
		}
	}
	return s
}

// replaceWord replaces whole-token occurrences of old with new. Token
// boundaries are anything outside [A-Za-z0-9_].
func replaceWord(s, old, new string) string {
	var out strings.Builder
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], old) &&
			!isWordChar(byteAt(s, i-1)) && !isWordChar(byteAt(s, i+len(old))) {
			out.WriteString(new)
			i += len(old)
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
