package disasm

import (
	"evscript/internal/bytecode"
	"evscript/internal/resolve"
	"evscript/internal/script"
)

// applyEffects updates the register snapshot after ins. Only direct storage
// operands are tracked; a computation with any unknown input yields unknown.
func (d *Disassembler) applyEffects(ins *script.Instruction, regs *resolve.RegisterFile) {
	p := ins.Params

	set := func(i int, v resolve.Value) {
		if i < len(p) && p[i].Type.IsStorage() {
			regs.Set(bytecode.StorageIndex(p[i].Raw[0]), v)
		}
	}
	merge := func(dest, src int, f func(v, s int32) int32) {
		if dest < len(p) && src < len(p) {
			set(dest, resolve.Merge(p[dest].Value, p[src].Value, f))
		}
	}
	modify := func(i int, f func(int32) int32) {
		if i < len(p) {
			set(i, p[i].Value.Map(f))
		}
	}
	compute := func(src, dest int, f func(int32) int32) {
		if src < len(p) {
			set(dest, p[src].Value.Map(f))
		}
	}

	switch ins.Op.Kind {
	case bytecode.KindMov, bytecode.KindSwapBroken:
		if len(p) == 2 {
			set(1, p[0].Value)
		}
	case bytecode.KindMov0:
		set(0, resolve.Known(0))

	case bytecode.KindAnd:
		merge(1, 0, func(v, s int32) int32 { return v & s })
	case bytecode.KindOr:
		merge(1, 0, func(v, s int32) int32 { return v | s })
	case bytecode.KindXor:
		merge(1, 0, func(v, s int32) int32 { return v ^ s })
	case bytecode.KindAndOr:
		if len(p) == 3 {
			masked := resolve.Merge(p[2].Value, p[0].Value, func(v, and int32) int32 { return v & and })
			set(2, resolve.Merge(masked, p[1].Value, func(v, or int32) int32 { return v | or }))
		}
	case bytecode.KindNot:
		modify(0, func(v int32) int32 { return ^v })
	case bytecode.KindShl:
		merge(1, 0, func(v, s int32) int32 { return v << uint32(s&31) })
	case bytecode.KindShr:
		merge(1, 0, func(v, s int32) int32 { return v >> uint32(s&31) })

	case bytecode.KindAdd:
		merge(1, 0, func(v, s int32) int32 { return v + s })
	case bytecode.KindSub:
		merge(1, 0, func(v, s int32) int32 { return v - s })
	case bytecode.KindSubRev:
		merge(1, 0, func(v, s int32) int32 { return s - v })
	case bytecode.KindIncr:
		modify(0, func(v int32) int32 { return v + 1 })
	case bytecode.KindDecr:
		modify(0, func(v int32) int32 { return v - 1 })
	case bytecode.KindNeg:
		modify(0, func(v int32) int32 { return -v })
	case bytecode.KindAbs:
		modify(0, resolve.Abs)

	case bytecode.KindMul:
		merge(1, 0, func(v, s int32) int32 { return v * s })
	case bytecode.KindDiv:
		merge(1, 0, resolve.SafeDiv)
	case bytecode.KindDivRev:
		merge(1, 0, func(v, s int32) int32 { return resolve.SafeDiv(s, v) })
	case bytecode.KindMod, bytecode.KindMod43:
		merge(1, 0, resolve.SafeMod)
	case bytecode.KindModRev, bytecode.KindModRev44:
		merge(1, 0, func(v, s int32) int32 { return resolve.SafeMod(s, v) })
	case bytecode.KindMul12:
		merge(1, 0, resolve.Mul12)
	case bytecode.KindDiv12:
		merge(1, 0, resolve.Div12)
	case bytecode.KindDiv12Rev:
		merge(1, 0, func(v, s int32) int32 { return resolve.Div12(s, v) })

	case bytecode.KindSqrt:
		compute(0, 1, resolve.Sqrt)
	case bytecode.KindRand:
		if len(p) == 2 {
			if bound, ok := p[0].Value.Get(); ok {
				set(1, resolve.Range(0, bound))
			} else {
				set(1, resolve.Unknown())
			}
		}
	case bytecode.KindSin12:
		compute(0, 1, resolve.Sin12)
	case bytecode.KindCos12:
		compute(0, 1, resolve.Cos12)
	case bytecode.KindAtan2_12:
		if len(p) == 3 {
			set(2, resolve.Merge(p[0].Value, p[1].Value, resolve.Atan2_12))
		}

	case bytecode.KindCall:
		for i := range p {
			if d.meta.Param(ins.HeaderParam, i).Dir().Modifies() {
				set(i, resolve.Unknown())
			}
		}

	default:
		for i, decl := range ins.Op.Params {
			if decl.Direction.Modifies() {
				set(i, resolve.Unknown())
			}
		}
	}
}
