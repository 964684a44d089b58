package irtext

// The textual MIR form: a fixture and debugging syntax for lowered
// functions, one block per label. Example:
//
//	fn count(n) {
//	entry:
//	    i = const 0
//	    br header
//	header:
//	    c = lt i, n
//	    condbr c, body, done
//	body:
//	    one = const 1
//	    i = add i, one
//	    br header
//	done:
//	    ret i
//	}
//
// The words fn, const, copy, load, store, call, phi, br, condbr, switch,
// default, invoke, to, unwind, ret, void, and unreachable are reserved.

type File struct {
	Functions []*FuncDef `@@*`
}

type FuncDef struct {
	Name   string      `"fn" @Ident`
	Params []string    `"(" [ @Ident { "," @Ident } ] ")"`
	Blocks []*BlockDef `"{" @@* "}"`
}

type BlockDef struct {
	Label  string      `@Ident ":"`
	Instrs []*InstrDef `@@*`
	Term   *TermDef    `@@`
}

type InstrDef struct {
	Store  *StoreInstr  `  @@`
	Call   *CallStmt    `| @@`
	Assign *AssignInstr `| @@`
}

type StoreInstr struct {
	Addr string `"store" @Ident`
	Val  string `"," @Ident`
}

// CallStmt is a void call in statement position.
type CallStmt struct {
	Callee string   `"call" @Ident`
	Args   []string `"(" [ @Ident { "," @Ident } ] ")"`
}

type AssignInstr struct {
	Dst string `@Ident "="`
	RHS *RHS   `@@`
}

type RHS struct {
	Const *ConstRHS `  @@`
	Copy  *CopyRHS  `| @@`
	Load  *LoadRHS  `| @@`
	Phi   *PhiRHS   `| @@`
	Call  *CallRHS  `| @@`
	Bin   *BinRHS   `| @@`
}

type ConstRHS struct {
	Value int64 `"const" @Integer`
}

type CopyRHS struct {
	Src string `"copy" @Ident`
}

type LoadRHS struct {
	Addr string `"load" @Ident`
}

type PhiRHS struct {
	Arms []*PhiArm `"phi" "[" [ @@ { "," @@ } ] "]"`
}

type PhiArm struct {
	Label string `@Ident ":"`
	Value string `@Ident`
}

type CallRHS struct {
	Callee string   `"call" @Ident`
	Args   []string `"(" [ @Ident { "," @Ident } ] ")"`
}

// BinRHS covers every named binary operator: add, sub, mul, div, lt, eq,
// and whatever else the frontend lowers to. The analysis core treats the
// operator as an opaque label.
type BinRHS struct {
	Op    string `@Ident`
	Left  string `@Ident`
	Right string `"," @Ident`
}

type TermDef struct {
	Br          *BrTerm     `  @@`
	CondBr      *CondBrTerm `| @@`
	Switch      *SwitchTerm `| @@`
	Invoke      *InvokeTerm `| @@`
	Ret         *RetTerm    `| @@`
	Unreachable bool        `| @"unreachable"`
}

type BrTerm struct {
	Target string `"br" @Ident`
}

type CondBrTerm struct {
	Cond string `"condbr" @Ident`
	Then string `"," @Ident`
	Else string `"," @Ident`
}

type SwitchTerm struct {
	Value   string       `"switch" @Ident ","`
	Cases   []*SwitchArm `"[" [ @@ { "," @@ } ] "]"`
	Default string       `"," "default" @Ident`
}

type SwitchArm struct {
	Const  int64  `@Integer ":"`
	Target string `@Ident`
}

type InvokeTerm struct {
	Dst    string   `"invoke" [ @Ident "=" ]`
	Callee string   `@Ident`
	Args   []string `"(" [ @Ident { "," @Ident } ] ")"`
	Normal string   `"," "to" @Ident`
	Unwind string   `"unwind" @Ident`
}

// RetTerm returns from the function; `ret void` returns no value.
type RetTerm struct {
	Value string `"ret" @Ident`
}
