package mir

import (
	"fmt"
	"strings"
)

// Terminator describes the single control transfer out of a basic block.
// Every target must name a block inside the same function; the graph
// builder verifies that before any analysis runs.
type Terminator interface {
	// Targets returns the blocks this terminator may transfer control to,
	// in declaration order.
	Targets() []BlockID
	// Uses returns the value identifiers the terminator reads.
	Uses() []ValueID
	String() string
}

// Br transfers control unconditionally.
type Br struct {
	Target BlockID
}

// CondBr transfers control to one of two targets keyed by a boolean value.
type CondBr struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// Switch transfers control multi-way: one target per case value plus a
// default.
type Switch struct {
	Value   ValueID
	Cases   []SwitchCase
	Default BlockID
}

// SwitchCase pairs a case constant with its target block.
type SwitchCase struct {
	Const  int64
	Target BlockID
}

// Invoke models a call that may raise: control continues at Normal on an
// ordinary return and at Unwind when the callee raises.
type Invoke struct {
	Dst    ValueID // NoValue for void calls
	Callee string
	Args   []ValueID
	Normal BlockID
	Unwind BlockID
}

// Return leaves the function. Blocks ending in Return are the function's
// exit blocks.
type Return struct {
	Value    ValueID
	HasValue bool
}

// Unreachable marks control flow the frontend proved impossible.
type Unreachable struct{}

func (b *Br) Targets() []BlockID { return []BlockID{b.Target} }
func (b *Br) Uses() []ValueID    { return nil }
func (b *Br) String() string     { return fmt.Sprintf("br b%d", b.Target) }

func (c *CondBr) Targets() []BlockID { return []BlockID{c.Then, c.Else} }
func (c *CondBr) Uses() []ValueID    { return []ValueID{c.Cond} }
func (c *CondBr) String() string {
	return fmt.Sprintf("condbr %s, b%d, b%d", defaultValueName(c.Cond), c.Then, c.Else)
}

func (s *Switch) Targets() []BlockID {
	targets := make([]BlockID, 0, len(s.Cases)+1)
	targets = append(targets, s.Default)
	for _, c := range s.Cases {
		targets = append(targets, c.Target)
	}
	return targets
}
func (s *Switch) Uses() []ValueID { return []ValueID{s.Value} }
func (s *Switch) String() string {
	arms := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		arms[i] = fmt.Sprintf("%d: b%d", c.Const, c.Target)
	}
	return fmt.Sprintf("switch %s, [%s], default b%d",
		defaultValueName(s.Value), strings.Join(arms, ", "), s.Default)
}

func (i *Invoke) Targets() []BlockID { return []BlockID{i.Normal, i.Unwind} }
func (i *Invoke) Uses() []ValueID    { return append([]ValueID(nil), i.Args...) }
func (i *Invoke) Defs() []ValueID {
	if i.Dst == NoValue {
		return nil
	}
	return []ValueID{i.Dst}
}
func (i *Invoke) String() string {
	args := make([]string, len(i.Args))
	for j, a := range i.Args {
		args[j] = defaultValueName(a)
	}
	call := fmt.Sprintf("invoke %s(%s), to b%d unwind b%d",
		i.Callee, strings.Join(args, ", "), i.Normal, i.Unwind)
	if i.Dst == NoValue {
		return call
	}
	return fmt.Sprintf("%s = %s", defaultValueName(i.Dst), call)
}

func (r *Return) Targets() []BlockID { return nil }
func (r *Return) Uses() []ValueID {
	if !r.HasValue {
		return nil
	}
	return []ValueID{r.Value}
}
func (r *Return) String() string {
	if !r.HasValue {
		return "ret void"
	}
	return fmt.Sprintf("ret %s", defaultValueName(r.Value))
}

func (u *Unreachable) Targets() []BlockID { return nil }
func (u *Unreachable) Uses() []ValueID    { return nil }
func (u *Unreachable) String() string     { return "unreachable" }
