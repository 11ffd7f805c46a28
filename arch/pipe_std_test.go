package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"y86sim/asm"
	"y86sim/isa"
)

func TestPipelinesAgreeWithReferenceOnSum(t *testing.T) {
	obj, _, err := asm.Assemble(asm.SumProgram(), 0)
	assert.NoError(t, err)

	in := isa.NewInterpreter(obj.Memory, false, nil)
	want, err := in.Run()
	assert.NoError(t, err)

	for _, name := range []string{"pipe_std", "pipe_s3a"} {
		got, cycles := runToHalt(t, name, asm.SumProgram())
		assert.Equal(t, want.Registers.Read(isa.RAX), got[isa.RAX], "architecture %s", name)
		assert.Greater(t, cycles, want.InstructionCount, "architecture %s should take more cycles than instructions", name)
	}
}

func TestPipelinesAgreeWithReferenceOnCallRet(t *testing.T) {
	want, _ := runToHalt(t, "seq", asm.CallRetProgram())

	for _, name := range []string{"pipe_std", "pipe_s3a", "ncopy"} {
		got, _ := runToHalt(t, name, asm.CallRetProgram())
		assert.Equal(t, want[isa.RAX], got[isa.RAX], "architecture %s", name)
	}
}

// TestNCopyExercisesLoadUseForwarding drives ncopy's reason for
// existing: the mrmovq/rmmovq pair NCopyProgram emits back to back is a
// load-use hazard, so running it is the only way to exercise the extra
// mem.dstM-to-decode forwarding path ncopy.go adds over pipe_std.
func TestNCopyExercisesLoadUseForwarding(t *testing.T) {
	const srcAddr, dstAddr = 0x200, 0x300
	src := []int64{5, -2, 7} // positive, negative, positive

	lines := asm.NCopyProgram(src, dstAddr, srcAddr)
	obj, _, err := asm.Assemble(lines, 0)
	assert.NoError(t, err)
	for i, v := range src {
		assert.NoError(t, obj.Memory.WriteQuad(srcAddr+uint64(i)*8, uint64(v)))
	}

	in := isa.NewInterpreter(obj.Memory.Clone(), false, nil)
	want, err := in.Run()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), want.Registers.Read(isa.RAX), "reference: 2 of 3 elements are positive")

	for _, name := range []string{"pipe_std", "pipe_s3a", "ncopy"} {
		mem := obj.Memory.Clone()
		sim := Create(name, &mem.Bytes, false)
		for !sim.IsTerminate() && sim.CycleCount() < 100000 {
			sim.Step()
		}
		assert.True(t, sim.IsTerminate(), "%s did not terminate", name)

		got := sim.Registers()
		assert.Equal(t, want.Registers.Read(isa.RAX), got[isa.RAX], "architecture %s positive count", name)

		for i, v := range src {
			gotV, err := mem.ReadQuad(dstAddr + uint64(i)*8)
			assert.NoError(t, err)
			assert.Equal(t, uint64(v), gotV, "architecture %s dst[%d]", name, i)
		}
	}
}

func TestS3aNeverFinishesInFewerCyclesThanStd(t *testing.T) {
	obj, _, err := asm.Assemble(asm.SumProgram(), 0)
	assert.NoError(t, err)

	std := Create("pipe_std", &obj.Memory.Bytes, false)
	s3a := Create("pipe_s3a", &obj.Memory.Bytes, false)

	var stdCycles, s3aCycles uint64
	for !std.IsTerminate() && stdCycles < 100000 {
		std.Step()
		stdCycles = std.CycleCount()
	}
	for !s3a.IsTerminate() && s3aCycles < 100000 {
		s3a.Step()
		s3aCycles = s3a.CycleCount()
	}
	assert.GreaterOrEqual(t, s3aCycles, stdCycles, "stall-only variant should never finish in fewer cycles than the forwarding one")
}
