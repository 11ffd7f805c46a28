package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"y86sim/asm"
	"y86sim/isa"
)

func runToHalt(t *testing.T, name string, lines []asm.Line) ([16]uint64, uint64) {
	t.Helper()
	obj, _, err := asm.Assemble(lines, 0)
	assert.NoError(t, err)

	sim := Create(name, &obj.Memory.Bytes, false)
	const maxCycles = 100000
	for !sim.IsTerminate() && sim.CycleCount() < maxCycles {
		sim.Step()
	}
	assert.True(t, sim.IsTerminate(), "%s did not terminate", name)
	return sim.Registers(), sim.CycleCount()
}

func TestSeqMatchesReferenceOnSum(t *testing.T) {
	obj, _, err := asm.Assemble(asm.SumProgram(), 0)
	assert.NoError(t, err)

	in := isa.NewInterpreter(obj.Memory, false, nil)
	want, err := in.Run()
	assert.NoError(t, err)

	got, _ := runToHalt(t, "seq", asm.SumProgram())
	assert.Equal(t, want.Registers.Read(isa.RAX), got[isa.RAX])
	assert.Equal(t, uint64(0xfed), got[isa.RAX])
}

func TestSeqMatchesReferenceOnBubble(t *testing.T) {
	obj, _, err := asm.Assemble(asm.BubbleProgram(), 0)
	assert.NoError(t, err)

	in := isa.NewInterpreter(obj.Memory.Clone(), false, nil)
	_, err = in.Run()
	assert.NoError(t, err)

	_, cycles := runToHalt(t, "seq", asm.BubbleProgram())
	assert.Greater(t, cycles, uint64(0))

	sim := Create("seq", &obj.Memory.Bytes, false)
	for !sim.IsTerminate() && sim.CycleCount() < 100000 {
		sim.Step()
	}
	assert.True(t, sim.IsTerminate(), "seq did not terminate")

	arrayAddr, ok := obj.Resolve("array")
	assert.True(t, ok)

	sorted := []uint64{}
	for i := uint64(0); i < 6; i++ {
		v, err := in.Mem.ReadQuad(arrayAddr + i*8)
		assert.NoError(t, err)
		sorted = append(sorted, v)

		got, err := obj.Memory.ReadQuad(arrayAddr + i*8)
		assert.NoError(t, err)
		assert.Equal(t, v, got, "seq array[%d]", i)
	}
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1], sorted[i], "array not sorted ascending")
	}
}

func TestCallRetOnSeq(t *testing.T) {
	got, _ := runToHalt(t, "seq", asm.CallRetProgram())
	assert.Equal(t, uint64(0x42), got[isa.RAX])
}
