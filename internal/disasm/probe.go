package disasm

import (
	"fmt"

	"evscript/internal/bytecode"
	"evscript/internal/meta"
	"evscript/internal/resolve"
	"evscript/internal/script"
)

// probeBranch decodes straight-line code from offset, following every
// resolvable control transfer. Each origin is probed at most once. The
// cursor and the caller's register snapshot are restored on return.
func (d *Disassembler) probeBranch(offset int) error {
	if d.s.Branches.Has(offset) {
		return nil
	}
	if d.opts.MaxProbes > 0 && len(d.s.Branches) >= d.opts.MaxProbes {
		if !d.budgetWarned {
			d.budgetWarned = true
			d.warn(offset, "Probe budget of %d branches exhausted, skipping remaining branches", d.opts.MaxProbes)
		}
		return nil
	}

	d.log.Debug("Probing branch", "addr", fmt.Sprintf("%#x", offset))
	d.s.Branches.Add(offset)

	regs := d.s.Registers.Push()
	defer d.s.Registers.Pop()

	mark := d.cur.Save()
	defer d.cur.Restore(mark)

	d.cur.Jump(offset)

	for d.cur.HasMore() {
		d.cur.Step()

		h, ok := d.header(d.cur.CurrentOffset())
		if !ok {
			break
		}
		params, ok := d.decodeOperands(h, regs)
		if !ok {
			break
		}

		ins := &script.Instruction{Addr: h.Address, Op: h.Op, HeaderParam: h.HeaderParam, Params: params}
		d.s.Set(ins.Addr, ins)
		d.cur.Advance()

		for i := range ins.Params {
			if err := d.placeOperand(ins, i); err != nil {
				return err
			}
		}

		d.applyEffects(ins, regs)

		done, err := d.followControl(ins, regs)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return nil
}

// placeOperand writes operand i into its slots and runs its side effects:
// inline labels, pointer tables and deferred strings.
func (d *Disassembler) placeOperand(ins *script.Instruction, i int) error {
	op := ins.Params[i]
	for n := range op.Words() {
		d.s.Set(op.Addr+n*bytecode.WordSize, op)
	}
	d.cur.Advance(op.Words())

	if op.Type.IsInline() {
		dest, _ := op.Value.Get()
		if dest < 0 || int(dest) >= d.s.Len() {
			d.warn(ins.Addr, "Pointer at %#x destination %#x is past the end of the script, replacing with 0", op.Addr, dest)
			zero := &script.Operand{
				Addr:     op.Addr,
				Type:     bytecode.Immediate,
				Raw:      make([]int32, op.Words()),
				Value:    resolve.Known(0),
				Replaced: op,
			}
			ins.Params[i] = zero
			for n := range zero.Words() {
				d.s.Set(zero.Addr+n*bytecode.WordSize, zero)
			}
			return nil
		}
		op.Label = d.s.AddLabel(int(dest), fmt.Sprintf("LABEL_%d", d.s.LabelCount()))
	}

	kind := ins.Op.Kind
	isCall := kind == bytecode.KindCall
	var param meta.Param
	if isCall {
		param = d.meta.Param(ins.HeaderParam, i)
	}

	switch {
	case op.Type.IsPointerTable() && kind != bytecode.KindJmpTable && kind != bytecode.KindGosubTable:
		table, ok := target(op)
		if !ok {
			return nil
		}
		if isCall && !param.Branch.IsNone() {
			d.s.AddEdge(ins.Addr, table, script.EdgeTable)
			return d.probeTableOfBranches(d.branchSet(ins, param.Branch), table, ins.Params[0].Value)
		}
		d.handlePointerTable(ins, i, table, ins.Params[0].Value)
	case isCall && param.IsString():
		if addr, ok := target(op); ok {
			d.s.BuildStrings = append(d.s.BuildStrings, func() {
				d.s.Strings = append(d.s.Strings, script.StringInfo{Start: addr, MaxChars: script.Unbounded})
			})
		}
	}
	return nil
}

// branchSet picks the destination set a branch annotation feeds. Unknown
// annotations feed a throwaway set.
func (d *Disassembler) branchSet(ins *script.Instruction, b meta.Branch) script.AddrSet {
	switch b.Normalize() {
	case meta.BranchJump:
		return d.s.JumpTableDests
	case meta.BranchSubroutine:
		return d.s.Subs
	case meta.BranchForkJump:
		return d.s.ForkJumps
	}
	d.warn(ins.Addr, "Unknown branch type %s", b)
	return script.AddrSet{}
}

// follow records an edge and probes its destination.
func (d *Disassembler) follow(from, to int, kind script.EdgeKind) error {
	d.s.AddEdge(from, to, kind)
	return d.probeBranch(to)
}

func (d *Disassembler) unresolved(ins *script.Instruction, op *script.Operand) {
	if op.Replaced != nil {
		return
	}
	d.warn(ins.Addr, "Skipping %s at %#x due to unknowable parameter", ins.Op.Name, ins.Addr)
}

// followControl handles the branch family. done ends the current probe.
func (d *Disassembler) followControl(ins *script.Instruction, regs *resolve.RegisterFile) (done bool, err error) {
	p := ins.Params

	switch ins.Op.Kind {
	case bytecode.KindCall:
		for i, op := range p {
			param := d.meta.Param(ins.HeaderParam, i)
			if param.Branch.IsNone() || op.Type.IsPointerTable() {
				continue
			}
			addr, ok := target(op)
			if !ok {
				d.unresolved(ins, op)
				continue
			}
			switch param.Branch.Normalize() {
			case meta.BranchSubroutine:
				d.s.Subs.Add(addr)
			case meta.BranchForkJump:
				d.s.ForkJumps.Add(addr)
			case meta.BranchJump:
			default:
				d.warn(ins.Addr, "Unknown branch type %s", param.Branch)
			}
			if err := d.follow(ins.Addr, addr, script.EdgeCall); err != nil {
				return true, err
			}
		}

	case bytecode.KindJmp:
		addr, ok := target(p[0])
		if !ok {
			d.unresolved(ins, p[0])
			return p[0].Replaced != nil, nil
		}
		return true, d.follow(ins.Addr, addr, script.EdgeJump)

	case bytecode.KindJmpCmp, bytecode.KindJmpCmp0, bytecode.KindWhile:
		if err := d.follow(ins.Addr, d.cur.CurrentOffset(), script.EdgeFallthrough); err != nil {
			return true, err
		}
		last := p[len(p)-1]
		if addr, ok := target(last); ok {
			return true, d.follow(ins.Addr, addr, script.EdgeBranch)
		}
		d.unresolved(ins, last)
		return true, nil

	case bytecode.KindJmpTable, bytecode.KindGosubTable:
		dests := d.s.JumpTableDests
		if ins.Op.Kind == bytecode.KindGosubTable {
			dests = d.s.Subs
		}
		table, ok := target(p[1])
		switch {
		case !ok:
			d.unresolved(ins, p[1])
		case table != 0:
			d.s.AddEdge(ins.Addr, table, script.EdgeTable)
			if p[1].Type.IsNestedTable() {
				err = d.probeTableOfTables(dests, table, p[0].Value)
			} else {
				err = d.probeTableOfBranches(dests, table, p[0].Value)
			}
		}
		if ins.Op.Kind == bytecode.KindJmpTable {
			return true, err
		}
		regs.Invalidate()
		return false, err

	case bytecode.KindGosub:
		if addr, ok := target(p[0]); ok {
			d.s.Subs.Add(addr)
			err = d.follow(ins.Addr, addr, script.EdgeGosub)
		} else {
			d.unresolved(ins, p[0])
		}
		regs.Invalidate()
		return err != nil, err

	case bytecode.KindFork:
		if addr, ok := target(p[1]); ok {
			d.s.ForkJumps.Add(addr)
			err = d.follow(ins.Addr, addr, script.EdgeFork)
		} else {
			d.unresolved(ins, p[1])
		}
		regs.Invalidate()
		return err != nil, err

	case bytecode.KindForkReenter:
		if idx, ok := p[1].Value.Get(); ok && idx >= 0 && int(idx) < len(d.s.AllEntrypoints) {
			d.s.Reentries.Add(d.s.AllEntrypoints[idx])
		}
		regs.Invalidate()
	}

	return ins.Op.Terminal(), nil
}
