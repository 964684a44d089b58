package mir

import (
	"fmt"
	"sort"
	"strings"
)

// Instruction is the closed vocabulary of non-terminator operations. The
// analysis core only ever asks which values an instruction defines and
// which it uses; everything else about instruction semantics is opaque to
// it.
type Instruction interface {
	// Defs returns the value identifiers this instruction (re)defines.
	Defs() []ValueID
	// Uses returns the value identifiers this instruction reads.
	Uses() []ValueID
	String() string
}

// Const materializes an integer constant.
type Const struct {
	Dst   ValueID
	Value int64
}

// Copy moves a value into another identifier.
type Copy struct {
	Dst ValueID
	Src ValueID
}

// BinOp applies a binary operator to two operands. It is the only
// instruction kind that produces an expression fact for the
// available/very-busy analyses.
type BinOp struct {
	Dst   ValueID
	Op    string
	Left  ValueID
	Right ValueID
}

// Load reads through an address value.
type Load struct {
	Dst  ValueID
	Addr ValueID
}

// Store writes a value through an address value. It defines nothing.
type Store struct {
	Addr ValueID
	Val  ValueID
}

// Call invokes a function that cannot unwind. Dst may be NoValue for void
// calls. Calls that may raise are modeled by the Invoke terminator instead.
type Call struct {
	Dst    ValueID
	Callee string
	Args   []ValueID
}

// Phi is the SSA merge point placeholder. The analysis core carries it in
// the data model but never inserts or completes phi nodes; that is the
// SSA construction pass's job.
type Phi struct {
	Dst      ValueID
	Incoming map[BlockID]ValueID
}

func (c *Const) Defs() []ValueID { return []ValueID{c.Dst} }
func (c *Const) Uses() []ValueID { return nil }
func (c *Const) String() string  { return fmt.Sprintf("%s = const %d", defaultValueName(c.Dst), c.Value) }

func (c *Copy) Defs() []ValueID { return []ValueID{c.Dst} }
func (c *Copy) Uses() []ValueID { return []ValueID{c.Src} }
func (c *Copy) String() string {
	return fmt.Sprintf("%s = copy %s", defaultValueName(c.Dst), defaultValueName(c.Src))
}

func (b *BinOp) Defs() []ValueID { return []ValueID{b.Dst} }
func (b *BinOp) Uses() []ValueID { return []ValueID{b.Left, b.Right} }
func (b *BinOp) String() string {
	return fmt.Sprintf("%s = %s %s, %s",
		defaultValueName(b.Dst), b.Op, defaultValueName(b.Left), defaultValueName(b.Right))
}

// Expr returns the canonical expression key computed by this instruction.
func (b *BinOp) Expr() ExprKey {
	return ExprKey{Op: b.Op, Left: b.Left, Right: b.Right}
}

func (l *Load) Defs() []ValueID { return []ValueID{l.Dst} }
func (l *Load) Uses() []ValueID { return []ValueID{l.Addr} }
func (l *Load) String() string {
	return fmt.Sprintf("%s = load %s", defaultValueName(l.Dst), defaultValueName(l.Addr))
}

func (s *Store) Defs() []ValueID { return nil }
func (s *Store) Uses() []ValueID { return []ValueID{s.Addr, s.Val} }
func (s *Store) String() string {
	return fmt.Sprintf("store %s, %s", defaultValueName(s.Addr), defaultValueName(s.Val))
}

func (c *Call) Defs() []ValueID {
	if c.Dst == NoValue {
		return nil
	}
	return []ValueID{c.Dst}
}
func (c *Call) Uses() []ValueID { return append([]ValueID(nil), c.Args...) }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = defaultValueName(a)
	}
	call := fmt.Sprintf("call %s(%s)", c.Callee, strings.Join(args, ", "))
	if c.Dst == NoValue {
		return call
	}
	return fmt.Sprintf("%s = %s", defaultValueName(c.Dst), call)
}

func (p *Phi) Defs() []ValueID { return []ValueID{p.Dst} }
func (p *Phi) Uses() []ValueID {
	ids := make([]ValueID, 0, len(p.Incoming))
	for _, v := range p.Incoming {
		ids = append(ids, v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
func (p *Phi) String() string {
	blocks := make([]BlockID, 0, len(p.Incoming))
	for b := range p.Incoming {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
	arms := make([]string, len(blocks))
	for i, b := range blocks {
		arms[i] = fmt.Sprintf("b%d: %s", b, defaultValueName(p.Incoming[b]))
	}
	return fmt.Sprintf("%s = phi [%s]", defaultValueName(p.Dst), strings.Join(arms, ", "))
}

// ExprKey canonicalizes a computation by operator and operand identifiers,
// so two syntactically identical expressions compare equal regardless of
// where they appear. This is identifier-level equality, not value
// numbering: operands are compared positionally and no commutativity is
// applied.
type ExprKey struct {
	Op    string
	Left  ValueID
	Right ValueID
}

func (e ExprKey) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, defaultValueName(e.Left), defaultValueName(e.Right))
}

// Mentions reports whether the expression reads the given value.
func (e ExprKey) Mentions(v ValueID) bool {
	return e.Left == v || e.Right == v
}

func defaultValueName(v ValueID) string {
	if v == NoValue {
		return "_"
	}
	return fmt.Sprintf("v%d", v)
}
