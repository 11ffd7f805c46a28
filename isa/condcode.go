package isa

// CondCode holds the three condition code flags set by OPQ/IOPQ and
// consulted by CMOVX/JX.
type CondCode struct {
	SF bool // sign
	OF bool // overflow
	ZF bool // zero
}

// Test evaluates one of the seven condition functions against the current
// flags.
func (cc CondCode) Test(f CondFunc) bool {
	switch f {
	case CondYes:
		return true
	case CondLE:
		return (cc.SF != cc.OF) || cc.ZF
	case CondL:
		return cc.SF != cc.OF
	case CondE:
		return cc.ZF
	case CondNE:
		return !cc.ZF
	case CondGE:
		return cc.SF == cc.OF
	case CondG:
		return (cc.SF == cc.OF) && !cc.ZF
	default:
		return false
	}
}

// SetFromOp recomputes SF/ZF/OF for the result of applying op to a and b,
// following the same definitions the OPQ/IOPQ instructions use: for ADD,
// result = a+b; for SUB, result = b-a (the ISA's "op b, a" convention);
// AND/XOR clear OF.
func (cc *CondCode) SetFromOp(op OpFunc, a, b, result uint64) {
	cc.ZF = result == 0
	cc.SF = int64(result) < 0
	switch op {
	case OpAdd:
		cc.OF = sameSign(a, b) && !sameSign(b, result)
	case OpSub:
		// b - a: overflow iff a and b have different signs and the
		// result's sign differs from b's.
		cc.OF = !sameSign(a, b) && !sameSign(b, result)
	default:
		cc.OF = false
	}
}

func sameSign(x, y uint64) bool {
	return (int64(x) < 0) == (int64(y) < 0)
}

// Apply computes op(a, b) under the ISA's "op b, a" convention used by
// OPQ/IOPQ (ADD: a+b, SUB: b-a, AND: a&b, XOR: a^b) with 64-bit wraparound.
func Apply(op OpFunc, a, b uint64) uint64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return b - a
	case OpAnd:
		return a & b
	case OpXor:
		return a ^ b
	default:
		return 0
	}
}
