package isa

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"y86sim/object"
)

// Result is the outcome of running Interpreter.Run to termination.
type Result struct {
	Memory           *object.Memory
	Registers        RegisterFile
	PC               uint64
	CC               CondCode
	InstructionCount uint64
}

// Interpreter is the ISA-level reference implementation: it executes one
// instruction at a time starting at PC 0 until HALT, with no notion of
// pipelining or cycles. Every microarchitecture in this module is
// validated against it.
type Interpreter struct {
	Mem    *object.Memory
	Regs   RegisterFile
	CC     CondCode
	PC     uint64
	Stat   Stat
	TTYOut bool

	log logrus.FieldLogger
}

// NewInterpreter constructs a reference interpreter over mem, starting at
// PC 0. If log is nil a disabled logger is used.
func NewInterpreter(mem *object.Memory, ttyOut bool, log logrus.FieldLogger) *Interpreter {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Interpreter{Mem: mem, TTYOut: ttyOut, Stat: StatAok, log: log}
}

// Run executes instructions until HALT or a failure.
func (in *Interpreter) Run() (*Result, error) {
	var count uint64
	for {
		inst, err := Decode(in.Mem.Bytes[:], in.PC)
		if err != nil {
			return nil, fmt.Errorf("isa: fetch at pc %#x: %w", in.PC, err)
		}

		if in.TTYOut {
			in.log.WithFields(logrus.Fields{
				"pc": fmt.Sprintf("%#x", in.PC), "icode": inst.Icode, "ifun": inst.Ifun,
			}).Debug("fetch")
		}

		if err := in.execute(inst); err != nil {
			return nil, fmt.Errorf("isa: executing %s at pc %#x: %w", inst.Icode, in.PC, err)
		}
		count++

		if in.Stat == StatHlt {
			break
		}
	}

	if in.TTYOut {
		in.log.WithFields(logrus.Fields{
			"instructions": count, "pc": fmt.Sprintf("%#x", in.PC),
		}).Info("run complete")
	}

	return &Result{
		Memory:           in.Mem,
		Registers:        in.Regs,
		PC:               in.PC,
		CC:               in.CC,
		InstructionCount: count,
	}, nil
}

// execute dispatches one decoded instruction, advancing PC (and possibly
// RSP, memory and the condition codes) per its semantics.
func (in *Interpreter) execute(inst Instruction) error {
	switch inst.Icode {
	case IHalt:
		in.Stat = StatHlt
		in.PC += 1
	case INop:
		in.PC += 1
	case ICmov:
		return in.execCmov(inst)
	case IIrmovq:
		return in.execIrmovq(inst)
	case IRmmovq:
		return in.execRmmovq(inst)
	case IMrmovq:
		return in.execMrmovq(inst)
	case IOpq:
		return in.execOpq(inst)
	case IJx:
		return in.execJx(inst)
	case ICall:
		return in.execCall(inst)
	case IRet:
		return in.execRet(inst)
	case IPushq:
		return in.execPushq(inst)
	case IPopq:
		return in.execPopq(inst)
	case IIopq:
		return in.execIopq(inst)
	default:
		return fmt.Errorf("isa: unreachable icode %#x", byte(inst.Icode))
	}
	return nil
}

// CMOVX: rB <- rA when CC.test(ifun).
func (in *Interpreter) execCmov(inst Instruction) error {
	if in.CC.Test(CondFunc(inst.Ifun)) {
		in.Regs.Write(inst.RB, in.Regs.Read(inst.RA))
	}
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execIrmovq(inst Instruction) error {
	in.Regs.Write(inst.RB, inst.ValC)
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execRmmovq(inst Instruction) error {
	addr := effectiveAddress(in.Regs.Read(inst.RB), inst.ValC)
	if addr >= object.MemSize {
		in.Stat = StatAdr
		return fmt.Errorf("isa: rmmovq address %#x out of range", addr)
	}
	if err := in.Mem.WriteQuad(addr, in.Regs.Read(inst.RA)); err != nil {
		in.Stat = StatAdr
		return err
	}
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execMrmovq(inst Instruction) error {
	addr := effectiveAddress(in.Regs.Read(inst.RB), inst.ValC)
	if addr >= object.MemSize {
		in.Stat = StatAdr
		return fmt.Errorf("isa: mrmovq address %#x out of range", addr)
	}
	v, err := in.Mem.ReadQuad(addr)
	if err != nil {
		in.Stat = StatAdr
		return err
	}
	in.Regs.Write(inst.RA, v)
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execOpq(inst Instruction) error {
	if inst.Ifun > byte(OpXor) {
		in.Stat = StatIns
		return fmt.Errorf("isa: invalid OPQ function %#x", inst.Ifun)
	}
	op := OpFunc(inst.Ifun)
	a, b := in.Regs.Read(inst.RA), in.Regs.Read(inst.RB)
	result := Apply(op, a, b)
	in.CC.SetFromOp(op, a, b, result)
	in.Regs.Write(inst.RB, result)
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execIopq(inst Instruction) error {
	if inst.Ifun > byte(OpXor) {
		in.Stat = StatIns
		return fmt.Errorf("isa: invalid IOPQ function %#x", inst.Ifun)
	}
	op := OpFunc(inst.Ifun)
	a, b := inst.ValC, in.Regs.Read(inst.RB)
	result := Apply(op, a, b)
	in.CC.SetFromOp(op, a, b, result)
	in.Regs.Write(inst.RB, result)
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execJx(inst Instruction) error {
	if in.CC.Test(CondFunc(inst.Ifun)) {
		in.PC = inst.ValC
	} else {
		in.PC += uint64(inst.Len())
	}
	return nil
}

func (in *Interpreter) execCall(inst Instruction) error {
	retAddr := in.PC + uint64(inst.Len())
	newSP := in.Regs.Read(RSP) - 8
	if err := in.Mem.WriteQuad(newSP, retAddr); err != nil {
		in.Stat = StatAdr
		return err
	}
	in.Regs.Write(RSP, newSP)
	in.PC = inst.ValC
	return nil
}

func (in *Interpreter) execRet(inst Instruction) error {
	sp := in.Regs.Read(RSP)
	retAddr, err := in.Mem.ReadQuad(sp)
	if err != nil {
		in.Stat = StatAdr
		return err
	}
	in.Regs.Write(RSP, sp+8)
	in.PC = retAddr
	return nil
}

func (in *Interpreter) execPushq(inst Instruction) error {
	newSP := in.Regs.Read(RSP) - 8
	if err := in.Mem.WriteQuad(newSP, in.Regs.Read(inst.RA)); err != nil {
		in.Stat = StatAdr
		return err
	}
	in.Regs.Write(RSP, newSP)
	in.PC += uint64(inst.Len())
	return nil
}

func (in *Interpreter) execPopq(inst Instruction) error {
	sp := in.Regs.Read(RSP)
	v, err := in.Mem.ReadQuad(sp)
	if err != nil {
		in.Stat = StatAdr
		return err
	}
	in.Regs.Write(RSP, sp+8)
	in.Regs.Write(inst.RA, v)
	in.PC += uint64(inst.Len())
	return nil
}

// effectiveAddress mirrors the reference's signed-wrap arithmetic: it
// never rejects a negative intermediate early, only the final range check
// against MemSize does.
func effectiveAddress(base, disp uint64) uint64 {
	return uint64(int64(base) + int64(disp))
}
