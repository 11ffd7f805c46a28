package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"y86sim/isa"
)

func TestAssembleResolvesSymbols(t *testing.T) {
	obj, src, err := Assemble(CallRetProgram(), 0)
	assert.NoError(t, err)

	target, ok := obj.Resolve("target")
	assert.True(t, ok)

	// irmovq $0x100,%rsp (10) + call (9) + halt (1) + nop (1) = 21
	assert.Equal(t, uint64(21), target)
	assert.Len(t, src.Lines, 6)
	assert.NotNil(t, src.Lines[1].Address)
}

func TestAssembleRunsToHalt(t *testing.T) {
	obj, _, err := Assemble(IopqProgram(), 0)
	assert.NoError(t, err)

	in := isa.NewInterpreter(obj.Memory, false, nil)
	res, err := in.Run()
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), res.Registers.Read(isa.RBX))
	assert.Equal(t, isa.StatHlt, in.Stat)
}

func TestAssembleRejectsDuplicateLabel(t *testing.T) {
	lines := []Line{
		{Label: "l", Inst: halt()},
		{Label: "l", Inst: halt()},
	}
	_, _, err := Assemble(lines, 0)
	assert.Error(t, err)
}
