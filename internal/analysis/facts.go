package analysis

import (
	"lumen/internal/mir"
)

// The four classical analyses, each a (direction, merge, gen/kill)
// instantiation of the engine in dataflow.go.
//
// Reaching-definition facts are definition sites rather than bare value
// identifiers: two assignments to the same variable on different paths
// are distinct facts, and both reach a merge point. Liveness facts are
// the variable identifiers themselves. Expression facts are canonical
// (operator, operand, operand) keys; identifier-level equality, not value
// numbering.

// Def identifies one definition site of a variable.
type Def struct {
	Var   mir.ValueID
	Block mir.BlockID
	// Index is the defining instruction's position in the block; a
	// definition by an Invoke terminator sits past the last instruction.
	Index int
}

// blockDef pairs a defined variable with its in-block position.
type blockDef struct {
	v   mir.ValueID
	idx int
}

// defsIn lists every definition in a block in execution order, including
// the result of an Invoke terminator, which is modeled as defined at the
// end of the defining block.
func defsIn(b *mir.Block) []blockDef {
	var defs []blockDef
	for i, inst := range b.Instrs {
		for _, v := range inst.Defs() {
			defs = append(defs, blockDef{v: v, idx: i})
		}
	}
	if inv, ok := b.Term.(*mir.Invoke); ok {
		for _, v := range inv.Defs() {
			defs = append(defs, blockDef{v: v, idx: len(b.Instrs)})
		}
	}
	return defs
}

// reachingDefinitions: forward, any-path. A definition reaches a block if
// some path from the definition site arrives without an intervening
// redefinition of the same variable.
func reachingDefinitions(g *Graph) FlowSets[Def] {
	byVar := make(map[mir.ValueID][]Def)
	for _, id := range g.Blocks() {
		b := g.Block(id)
		for _, d := range defsIn(b) {
			byVar[d.v] = append(byVar[d.v], Def{Var: d.v, Block: id, Index: d.idx})
		}
	}

	universe := make(factSet[Def])
	for _, defs := range byVar {
		for _, d := range defs {
			universe.add(d)
		}
	}

	gen := make(map[mir.BlockID]factSet[Def], g.BlockCount())
	kill := make(map[mir.BlockID]factSet[Def], g.BlockCount())
	for _, id := range g.Blocks() {
		b := g.Block(id)
		// The last definition of each variable in the block survives to
		// the block's exit; every other definition of those variables,
		// anywhere in the function, is killed.
		last := make(map[mir.ValueID]Def)
		for _, d := range defsIn(b) {
			last[d.v] = Def{Var: d.v, Block: id, Index: d.idx}
		}

		gen[id] = make(factSet[Def], len(last))
		kill[id] = make(factSet[Def])
		for v, surviving := range last {
			gen[id].add(surviving)
			for _, other := range byVar[v] {
				if other != surviving {
					kill[id].add(other)
				}
			}
		}
	}

	return solve(g, problem[Def]{
		name:     "reaching definitions",
		dir:      forward,
		merge:    anyPath,
		universe: universe,
		gen:      gen,
		kill:     kill,
	})
}

// liveVariables: backward, any-path. A variable is live at a point if
// some path from it reads the variable before redefining it.
func liveVariables(g *Graph) FlowSets[mir.ValueID] {
	universe := make(factSet[mir.ValueID])
	gen := make(map[mir.BlockID]factSet[mir.ValueID], g.BlockCount())
	kill := make(map[mir.BlockID]factSet[mir.ValueID], g.BlockCount())

	for _, id := range g.Blocks() {
		b := g.Block(id)
		use := make(factSet[mir.ValueID])
		def := make(factSet[mir.ValueID])

		record := func(uses, defs []mir.ValueID) {
			for _, u := range uses {
				universe.add(u)
				if !def.has(u) {
					use.add(u)
				}
			}
			for _, d := range defs {
				universe.add(d)
				def.add(d)
			}
		}
		for _, inst := range b.Instrs {
			record(inst.Uses(), inst.Defs())
		}
		if inv, ok := b.Term.(*mir.Invoke); ok {
			record(inv.Uses(), inv.Defs())
		} else {
			record(b.Term.Uses(), nil)
		}

		gen[id] = use
		kill[id] = def
	}

	return solve(g, problem[mir.ValueID]{
		name:     "live variables",
		dir:      backward,
		merge:    anyPath,
		universe: universe,
		gen:      gen,
		kill:     kill,
	})
}

// exprUniverse collects every expression computed anywhere in the
// function; it seeds the initial sets of the all-paths analyses.
func exprUniverse(g *Graph) factSet[mir.ExprKey] {
	universe := make(factSet[mir.ExprKey])
	for _, id := range g.Blocks() {
		for _, inst := range g.Block(id).Instrs {
			if bin, ok := inst.(*mir.BinOp); ok {
				universe.add(bin.Expr())
			}
		}
	}
	return universe
}

// exprKill returns the expressions invalidated by a block: every
// expression in the universe that reads a variable the block defines.
func exprKill(universe factSet[mir.ExprKey], b *mir.Block) factSet[mir.ExprKey] {
	kill := make(factSet[mir.ExprKey])
	for _, d := range defsIn(b) {
		for e := range universe {
			if e.Mentions(d.v) {
				kill.add(e)
			}
		}
	}
	return kill
}

// availableExpressions: forward, all-paths. An expression is available at
// a block if every path into it computes the expression and no operand
// has been redefined since.
func availableExpressions(g *Graph) FlowSets[mir.ExprKey] {
	universe := exprUniverse(g)
	gen := make(map[mir.BlockID]factSet[mir.ExprKey], g.BlockCount())
	kill := make(map[mir.BlockID]factSet[mir.ExprKey], g.BlockCount())

	for _, id := range g.Blocks() {
		b := g.Block(id)
		// Downward exposure: an expression survives to the block's exit
		// only if no later definition touches its operands. The operands
		// are read before the destination is written, so x = x + y kills
		// the expression it just computed.
		exposed := make(factSet[mir.ExprKey])
		invalidate := func(defs []mir.ValueID) {
			for _, d := range defs {
				for e := range exposed {
					if e.Mentions(d) {
						delete(exposed, e)
					}
				}
			}
		}
		for _, inst := range b.Instrs {
			if bin, ok := inst.(*mir.BinOp); ok {
				exposed.add(bin.Expr())
			}
			invalidate(inst.Defs())
		}
		if inv, ok := b.Term.(*mir.Invoke); ok {
			invalidate(inv.Defs())
		}

		gen[id] = exposed
		kill[id] = exprKill(universe, b)
	}

	return solve(g, problem[mir.ExprKey]{
		name:     "available expressions",
		dir:      forward,
		merge:    allPaths,
		universe: universe,
		gen:      gen,
		kill:     kill,
	})
}

// veryBusyExpressions: backward, all-paths. An expression is very busy at
// a block if every path out of it computes the expression before any
// operand is redefined.
func veryBusyExpressions(g *Graph) FlowSets[mir.ExprKey] {
	universe := exprUniverse(g)
	gen := make(map[mir.BlockID]factSet[mir.ExprKey], g.BlockCount())
	kill := make(map[mir.BlockID]factSet[mir.ExprKey], g.BlockCount())

	for _, id := range g.Blocks() {
		b := g.Block(id)
		// Upward exposure: an expression counts only when it is computed
		// before any in-block redefinition of its operands.
		exposed := make(factSet[mir.ExprKey])
		defed := make(factSet[mir.ValueID])
		for _, inst := range b.Instrs {
			if bin, ok := inst.(*mir.BinOp); ok {
				if !defed.has(bin.Left) && !defed.has(bin.Right) {
					exposed.add(bin.Expr())
				}
			}
			for _, d := range inst.Defs() {
				defed.add(d)
			}
		}

		gen[id] = exposed
		kill[id] = exprKill(universe, b)
	}

	return solve(g, problem[mir.ExprKey]{
		name:     "very busy expressions",
		dir:      backward,
		merge:    allPaths,
		universe: universe,
		gen:      gen,
		kill:     kill,
	})
}
