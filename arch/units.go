package arch

import (
	"fmt"

	"y86sim/isa"
	"y86sim/object"
)

// The units below are wired by each architecture's constructor via plain
// pointers to shared signal values -- the Go realization of what the
// declarative language would otherwise bind by dotted-path name. Each
// unit's Run is a pure function of the signals it was given pointers to
// at construction time. Seq runs its units through the engine's
// hcl.Order walk and also calls several of them directly from its
// decode updater; the pipelines call Run directly from PropagateSignals.

// FetchUnit decodes one instruction from memory at PC and exposes its
// fields, plus a fetch-level status (StatHlt/StatAdr/StatIns) used by the
// status-selection logic.
type FetchUnit struct {
	Mem *object.Memory
	PC  *uint64

	Inst   isa.Instruction
	Valid  bool
	Status isa.Stat
}

func (u *FetchUnit) Run() {
	inst, err := isa.Decode(u.Mem.Bytes[:], *u.PC)
	if err != nil {
		u.Valid = false
		u.Status = isa.StatIns
		if *u.PC >= object.MemSize {
			u.Status = isa.StatAdr
		}
		return
	}
	u.Inst = inst
	u.Valid = true
	if inst.Icode == isa.IHalt {
		u.Status = isa.StatHlt
	} else {
		u.Status = isa.StatAok
	}
}

// RegReadUnit reads two source operands from a shared register file.
type RegReadUnit struct {
	Regs   *isa.RegisterFile
	SrcA   *isa.RegCode
	SrcB   *isa.RegCode
	ValA   uint64
	ValB   uint64
}

func (u *RegReadUnit) Run() {
	u.ValA = u.Regs.Read(*u.SrcA)
	u.ValB = u.Regs.Read(*u.SrcB)
}

// RegWriteUnit commits up to two values into the shared register file.
// Writes to RNone are no-ops (see isa.RegisterFile.Write).
type RegWriteUnit struct {
	Regs  *isa.RegisterFile
	DstE  *isa.RegCode
	ValE  *uint64
	DstM  *isa.RegCode
	ValM  *uint64
}

func (u *RegWriteUnit) Run() {
	u.Regs.Write(*u.DstE, *u.ValE)
	u.Regs.Write(*u.DstM, *u.ValM)
}

// ALUUnit computes the OPQ/IOPQ-style "op(b, a)" result used both by
// arithmetic instructions and by every address computation (rmmovq,
// mrmovq, call, ret, pushq, popq all route their displacement math
// through here with OpAdd/OpSub).
type ALUUnit struct {
	A, B *uint64
	Fun  *isa.OpFunc
	ValE uint64
}

func (u *ALUUnit) Run() {
	u.ValE = isa.Apply(*u.Fun, *u.A, *u.B)
}

// CCUnit updates the shared condition-code register, gated by SetCC. Seq
// asserts SetCC for OPQ/IOPQ; the pipelines do not use this unit and set
// the condition codes in their execute stage directly.
type CCUnit struct {
	CC    *isa.CondCode
	SetCC *bool
	Fun   *isa.OpFunc
	A, B  *uint64
	ValE  *uint64
}

func (u *CCUnit) Run() {
	if *u.SetCC {
		u.CC.SetFromOp(*u.Fun, *u.A, *u.B, *u.ValE)
	}
}

// MemUnit performs at most one read and, independently, at most one
// write per cycle, matching a single-ported data memory that the
// instructions needing both (none in this ISA) could never actually
// exercise.
type MemUnit struct {
	Mem *object.Memory

	Read  *bool
	Write *bool
	Addr  *uint64
	DataIn *uint64

	DataOut uint64
	Status  isa.Stat
}

func (u *MemUnit) Run() {
	u.Status = isa.StatAok
	if *u.Write {
		if err := u.Mem.WriteQuad(*u.Addr, *u.DataIn); err != nil {
			u.Status = isa.StatAdr
		}
	}
	if *u.Read {
		v, err := u.Mem.ReadQuad(*u.Addr)
		if err != nil {
			u.Status = isa.StatAdr
		} else {
			u.DataOut = v
		}
	}
}

// HazardUnit decides whether the fetch/decode stages must stall (a load
// in execute whose destination decode needs right now) and
// whether a mispredicted or returning control flow must bubble the
// younger instructions behind it.
type HazardUnit struct {
	// load-use hazard inputs
	ExDstM  *isa.RegCode
	ExIsLoad *bool
	SrcA, SrcB *isa.RegCode

	// control hazard inputs
	RetInFE, RetInDE, RetInEX *bool
	MispredictedBranch        *bool

	StallF, StallD, BubbleD, BubbleE bool
}

func (u *HazardUnit) Run() {
	loadUse := *u.ExIsLoad && *u.ExDstM != isa.RNone &&
		(*u.ExDstM == *u.SrcA || *u.ExDstM == *u.SrcB)
	ret := *u.RetInFE || *u.RetInDE || *u.RetInEX

	u.StallF = loadUse || ret
	u.StallD = loadUse
	u.BubbleE = loadUse || *u.MispredictedBranch
	u.BubbleD = ret
}

// ForwardUnit selects each source operand's value from the youngest
// in-flight instruction that will produce it, falling back to the
// register file's own read port. Sources lists candidate (reg, value)
// sources from youngest to oldest in-flight stage.
type ForwardUnit struct {
	Src      *isa.RegCode
	RegRead  *uint64
	Sources  []ForwardSource

	Value uint64
}

// ForwardSource is one candidate forwarding path: Reg is the producing
// instruction's destination register (RNone if it writes nothing this
// cycle) and Val its value.
type ForwardSource struct {
	Reg *isa.RegCode
	Val *uint64
}

func (u *ForwardUnit) Run() {
	if *u.Src == isa.RNone {
		u.Value = 0
		return
	}
	for _, s := range u.Sources {
		if *s.Reg == *u.Src {
			u.Value = *s.Val
			return
		}
	}
	u.Value = *u.RegRead
}

func fmtStat(s isa.Stat) string { return fmt.Sprintf("%s", s) }
