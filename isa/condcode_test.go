package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOpSubConvention(t *testing.T) {
	// OPQ/IOPQ compute op(b, a): SUB computes b - a.
	assert.Equal(t, uint64(5), Apply(OpSub, 3, 8))
	assert.Equal(t, uint64(11), Apply(OpAdd, 3, 8))
	assert.Equal(t, uint64(0), Apply(OpAnd, 0xf0, 0x0f))
	assert.Equal(t, uint64(0xff), Apply(OpXor, 0xf0, 0x0f))
}

func TestSetFromOpZeroAndSign(t *testing.T) {
	var cc CondCode
	cc.SetFromOp(OpSub, 5, 5, 0)
	assert.True(t, cc.ZF)
	assert.False(t, cc.SF)
	assert.False(t, cc.OF)
}

func TestSetFromOpAddOverflow(t *testing.T) {
	var cc CondCode
	maxPositive := uint64(1)<<63 - 1
	cc.SetFromOp(OpAdd, 1, maxPositive, maxPositive+1)
	assert.True(t, cc.OF, "adding two positives into a negative result overflows")
}

func TestCondFuncTable(t *testing.T) {
	cc := CondCode{SF: false, OF: false, ZF: false}
	assert.True(t, cc.Test(CondYes))
	assert.True(t, cc.Test(CondGE))
	assert.True(t, cc.Test(CondG))
	assert.False(t, cc.Test(CondL))
	assert.False(t, cc.Test(CondLE))
	assert.False(t, cc.Test(CondE))
	assert.True(t, cc.Test(CondNE))

	zero := CondCode{ZF: true}
	assert.True(t, zero.Test(CondE))
	assert.True(t, zero.Test(CondLE))
	assert.False(t, zero.Test(CondG))
}
