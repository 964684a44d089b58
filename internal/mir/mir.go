package mir

// The Lumen middle-end IR: functions already lowered to ordered basic blocks
// of instructions, each block ending in exactly one control-transfer
// terminator. The analysis core consumes this form and never mutates it.

// BlockID names a basic block within one function. IDs are dense, assigned
// in block order, and never reused for the lifetime of an analysis.
type BlockID int

// ValueID names a variable or temporary within one function.
type ValueID int

// NoValue marks an absent value, e.g. the result of a void call.
const NoValue ValueID = -1

// Function is a single analysis unit: an ordered block list whose first
// block is the entry.
type Function struct {
	Name   string
	Params []ValueID
	Blocks []*Block

	// ValueNames carries display names for value identifiers. Optional;
	// printers fall back to v<N> when a name is missing.
	ValueNames map[ValueID]string
}

// Entry returns the function's entry block, or nil for an empty function.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block looks up a block by identifier. Returns nil when the identifier
// does not belong to this function.
func (f *Function) Block(id BlockID) *Block {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// ValueName returns the display name of a value identifier.
func (f *Function) ValueName(v ValueID) string {
	if name, ok := f.ValueNames[v]; ok {
		return name
	}
	return defaultValueName(v)
}

// Block is an ordered instruction sequence plus exactly one terminator.
type Block struct {
	ID     BlockID
	Label  string
	Instrs []Instruction
	Term   Terminator

	// LoopHeader is set by the natural loop detector; it is not an input
	// property.
	LoopHeader bool
}

// IsExit reports whether the block leaves the function via a return.
func (b *Block) IsExit() bool {
	_, ok := b.Term.(*Return)
	return ok
}
