package irtext

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"lumen/internal/mir"
)

var mirParser = participle.MustBuild[File](
	participle.Lexer(mirLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// Parse parses textual MIR into lowered functions ready for analysis.
// Block identifiers are assigned in order of appearance within each
// function; value identifiers in order of first mention, parameters
// first.
func Parse(filename, source string) ([]*mir.Function, error) {
	file, err := mirParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}

	fns := make([]*mir.Function, 0, len(file.Functions))
	for _, def := range file.Functions {
		fn, err := lowerFunction(def)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// ParseFile reads and parses a textual MIR file.
func ParseFile(path string) ([]*mir.Function, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(path, string(source))
}

// lowering state for one function
type lowerer struct {
	name   string
	blocks map[string]mir.BlockID
	values map[string]mir.ValueID
	names  map[mir.ValueID]string
}

func lowerFunction(def *FuncDef) (*mir.Function, error) {
	if len(def.Blocks) == 0 {
		return nil, fmt.Errorf("function %s has no blocks", def.Name)
	}

	lo := &lowerer{
		name:   def.Name,
		blocks: make(map[string]mir.BlockID),
		values: make(map[string]mir.ValueID),
		names:  make(map[mir.ValueID]string),
	}

	for i, b := range def.Blocks {
		if _, dup := lo.blocks[b.Label]; dup {
			return nil, fmt.Errorf("function %s: duplicate block label %q", def.Name, b.Label)
		}
		lo.blocks[b.Label] = mir.BlockID(i)
	}

	fn := &mir.Function{Name: def.Name, ValueNames: lo.names}
	for _, p := range def.Params {
		fn.Params = append(fn.Params, lo.value(p))
	}

	for i, b := range def.Blocks {
		block := &mir.Block{ID: mir.BlockID(i), Label: b.Label}
		for _, inst := range b.Instrs {
			lowered, err := lo.instr(inst)
			if err != nil {
				return nil, err
			}
			block.Instrs = append(block.Instrs, lowered)
		}
		term, err := lo.term(b.Term)
		if err != nil {
			return nil, err
		}
		block.Term = term
		fn.Blocks = append(fn.Blocks, block)
	}
	return fn, nil
}

func (lo *lowerer) value(name string) mir.ValueID {
	if id, ok := lo.values[name]; ok {
		return id
	}
	id := mir.ValueID(len(lo.values))
	lo.values[name] = id
	lo.names[id] = name
	return id
}

func (lo *lowerer) valueList(names []string) []mir.ValueID {
	ids := make([]mir.ValueID, len(names))
	for i, n := range names {
		ids[i] = lo.value(n)
	}
	return ids
}

func (lo *lowerer) block(label string) (mir.BlockID, error) {
	id, ok := lo.blocks[label]
	if !ok {
		return 0, fmt.Errorf("function %s: undefined block label %q", lo.name, label)
	}
	return id, nil
}

func (lo *lowerer) instr(def *InstrDef) (mir.Instruction, error) {
	switch {
	case def.Store != nil:
		return &mir.Store{Addr: lo.value(def.Store.Addr), Val: lo.value(def.Store.Val)}, nil
	case def.Call != nil:
		return &mir.Call{Dst: mir.NoValue, Callee: def.Call.Callee, Args: lo.valueList(def.Call.Args)}, nil
	case def.Assign != nil:
		return lo.assign(def.Assign)
	}
	return nil, fmt.Errorf("function %s: empty instruction", lo.name)
}

func (lo *lowerer) assign(def *AssignInstr) (mir.Instruction, error) {
	rhs := def.RHS
	switch {
	case rhs.Const != nil:
		return &mir.Const{Dst: lo.value(def.Dst), Value: rhs.Const.Value}, nil
	case rhs.Copy != nil:
		src := lo.value(rhs.Copy.Src)
		return &mir.Copy{Dst: lo.value(def.Dst), Src: src}, nil
	case rhs.Load != nil:
		addr := lo.value(rhs.Load.Addr)
		return &mir.Load{Dst: lo.value(def.Dst), Addr: addr}, nil
	case rhs.Phi != nil:
		incoming := make(map[mir.BlockID]mir.ValueID, len(rhs.Phi.Arms))
		for _, arm := range rhs.Phi.Arms {
			b, err := lo.block(arm.Label)
			if err != nil {
				return nil, err
			}
			incoming[b] = lo.value(arm.Value)
		}
		return &mir.Phi{Dst: lo.value(def.Dst), Incoming: incoming}, nil
	case rhs.Call != nil:
		args := lo.valueList(rhs.Call.Args)
		return &mir.Call{Dst: lo.value(def.Dst), Callee: rhs.Call.Callee, Args: args}, nil
	case rhs.Bin != nil:
		left, right := lo.value(rhs.Bin.Left), lo.value(rhs.Bin.Right)
		return &mir.BinOp{Dst: lo.value(def.Dst), Op: rhs.Bin.Op, Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("function %s: assignment to %s has no right-hand side", lo.name, def.Dst)
}

func (lo *lowerer) term(def *TermDef) (mir.Terminator, error) {
	switch {
	case def.Br != nil:
		target, err := lo.block(def.Br.Target)
		if err != nil {
			return nil, err
		}
		return &mir.Br{Target: target}, nil

	case def.CondBr != nil:
		cond := lo.value(def.CondBr.Cond)
		then, err := lo.block(def.CondBr.Then)
		if err != nil {
			return nil, err
		}
		els, err := lo.block(def.CondBr.Else)
		if err != nil {
			return nil, err
		}
		return &mir.CondBr{Cond: cond, Then: then, Else: els}, nil

	case def.Switch != nil:
		value := lo.value(def.Switch.Value)
		dflt, err := lo.block(def.Switch.Default)
		if err != nil {
			return nil, err
		}
		sw := &mir.Switch{Value: value, Default: dflt}
		for _, arm := range def.Switch.Cases {
			target, err := lo.block(arm.Target)
			if err != nil {
				return nil, err
			}
			sw.Cases = append(sw.Cases, mir.SwitchCase{Const: arm.Const, Target: target})
		}
		return sw, nil

	case def.Invoke != nil:
		dst := mir.NoValue
		if def.Invoke.Dst != "" {
			dst = lo.value(def.Invoke.Dst)
		}
		args := lo.valueList(def.Invoke.Args)
		normal, err := lo.block(def.Invoke.Normal)
		if err != nil {
			return nil, err
		}
		unwind, err := lo.block(def.Invoke.Unwind)
		if err != nil {
			return nil, err
		}
		return &mir.Invoke{Dst: dst, Callee: def.Invoke.Callee, Args: args, Normal: normal, Unwind: unwind}, nil

	case def.Ret != nil:
		if def.Ret.Value == "void" {
			return &mir.Return{}, nil
		}
		return &mir.Return{Value: lo.value(def.Ret.Value), HasValue: true}, nil

	case def.Unreachable:
		return &mir.Unreachable{}, nil
	}
	return nil, fmt.Errorf("function %s: block has no terminator", lo.name)
}
