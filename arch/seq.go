package arch

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"

	"y86sim/engine"
	"y86sim/hcl"
	"y86sim/hw"
	"y86sim/isa"
	"y86sim/object"
)

func init() {
	Register("seq", newSeq)
}

// Seq is the single-cycle architecture: every instruction is fetched,
// decoded, executed, memory-accessed and written back within one cycle,
// so its cycle cost is simply the longest of those combinational paths
// and its stage register is the program counter alone.
type Seq struct {
	mem  *object.Memory
	regs isa.RegisterFile
	cc   isa.CondCode
	pc   *hw.Stage[uint64]

	ttyOut bool
	log    logrus.FieldLogger

	fetch    *FetchUnit
	regRead  *RegReadUnit
	alu      *ALUUnit
	ccUnit   *CCUnit
	memUnit  *MemUnit
	regWrite *RegWriteUnit

	srcA, srcB, dstE, dstM isa.RegCode
	aluA, aluB             uint64
	aluFun                 isa.OpFunc
	setCC                  bool
	memRead, memWrite      bool
	memAddr, memDataIn     uint64
	valM                   uint64
	nextPC                 uint64
	stat                   isa.Stat

	order   *hcl.Order
	circuit *engine.Circuit
	tracer  *hcl.Tracer

	cycles    uint64
	terminate bool
}

func newSeq(mem *[0x2000]byte, ttyOut bool) CpuSim {
	// The simulator works on the caller's image in place, so memory
	// writes are visible through mem.
	m := (*object.Memory)(unsafe.Pointer(mem))
	log := logrus.New()
	if !ttyOut {
		log.SetLevel(logrus.PanicLevel)
	}

	s := &Seq{mem: m, ttyOut: ttyOut, log: log, pc: hw.NewStage("pc", uint64(0))}

	s.fetch = &FetchUnit{Mem: m, PC: &s.pc.Current}
	s.regRead = &RegReadUnit{Regs: &s.regs, SrcA: &s.srcA, SrcB: &s.srcB}
	s.alu = &ALUUnit{A: &s.aluA, B: &s.aluB, Fun: &s.aluFun}
	s.ccUnit = &CCUnit{CC: &s.cc, SetCC: &s.setCC, Fun: &s.aluFun, A: &s.aluA, B: &s.aluB, ValE: &s.alu.ValE}
	s.memUnit = &MemUnit{Mem: m, Read: &s.memRead, Write: &s.memWrite, Addr: &s.memAddr, DataIn: &s.memDataIn}
	s.regWrite = &RegWriteUnit{Regs: &s.regs, DstE: &s.dstE, ValE: &s.alu.ValE, DstM: &s.dstM, ValM: &s.valM}

	units := hw.NewUnitSet()
	units.Register("fetch", s.fetch)
	units.Register("regRead", s.regRead)
	units.Register("alu", s.alu)
	units.Register("cc", s.ccUnit)
	units.Register("mem", s.memUnit)
	units.Register("regWrite", s.regWrite)

	g := hcl.NewGraph()
	g.AddUnit("fetch")
	g.AddUnit("regRead")
	g.AddUnit("alu")
	g.AddUnit("cc")
	g.AddUnit("mem")
	g.AddUnit("regWrite")
	g.AddIntermediate("decode", []string{"fetch"}, []string{"regRead", "alu", "mem"})
	g.AddIntermediate("pc-select", []string{"fetch", "alu", "mem"}, nil)
	order, err := g.Build()
	if err != nil {
		panic(err)
	}
	s.order = order

	updaters := map[string]engine.Updater{
		"decode":    func(tracer *hcl.Tracer) { s.decode(tracer) },
		"pc-select": func(tracer *hcl.Tracer) { s.selectNextPC(tracer) },
	}
	s.circuit = engine.NewCircuit(order, units, updaters)
	s.tracer = hcl.NewTracer(log)

	return s
}

// decode derives this cycle's control signals from the fetched
// instruction, the same role the original's per-opcode table of source
// registers, destinations and ALU operands plays.
func (s *Seq) decode(tracer *hcl.Tracer) {
	inst := s.fetch.Inst
	icode := inst.Icode

	s.srcA = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.ICmov, isa.IOpq, isa.IRmmovq, isa.IPushq}, Value: inst.RA},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPopq, isa.IRet}, Value: isa.RSP},
	)
	s.srcB = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IOpq, isa.IRmmovq, isa.IMrmovq, isa.IIopq}, Value: inst.RB},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPushq, isa.IPopq, isa.ICall, isa.IRet}, Value: isa.RSP},
	)
	s.dstE = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.ICmov, isa.IIrmovq, isa.IOpq, isa.IIopq}, Value: inst.RB},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPushq, isa.IPopq, isa.ICall, isa.IRet}, Value: isa.RSP},
	)
	s.dstM = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IMrmovq, isa.IPopq}, Value: inst.RA},
	)

	s.regRead.Run()

	switch icode {
	case isa.IOpq:
		s.aluA, s.aluB, s.aluFun = s.regRead.ValA, s.regRead.ValB, isa.OpFunc(inst.Ifun)
		s.setCC = true
	case isa.IIopq:
		s.aluA, s.aluB, s.aluFun = inst.ValC, s.regRead.ValB, isa.OpFunc(inst.Ifun)
		s.setCC = true
	case isa.IIrmovq:
		s.aluA, s.aluB, s.aluFun, s.setCC = inst.ValC, 0, isa.OpAdd, false
	case isa.IRmmovq:
		s.aluA, s.aluB, s.aluFun, s.setCC = inst.ValC, s.regRead.ValB, isa.OpAdd, false
	case isa.IMrmovq:
		s.aluA, s.aluB, s.aluFun, s.setCC = inst.ValC, s.regRead.ValB, isa.OpAdd, false
	case isa.ICall, isa.IPushq:
		s.aluA, s.aluB, s.aluFun, s.setCC = 8, s.regRead.ValB, isa.OpSub, false
	case isa.IRet, isa.IPopq:
		s.aluA, s.aluB, s.aluFun, s.setCC = 8, s.regRead.ValB, isa.OpAdd, false
	case isa.ICmov:
		s.aluA, s.aluB, s.aluFun, s.setCC = s.regRead.ValA, 0, isa.OpAdd, false
	default:
		s.aluA, s.aluB, s.aluFun, s.setCC = 0, 0, isa.OpAdd, false
	}
	s.alu.Run()
	s.ccUnit.Run()

	s.memRead = icode == isa.IMrmovq || icode == isa.IRet || icode == isa.IPopq
	s.memWrite = icode == isa.IRmmovq || icode == isa.ICall || icode == isa.IPushq

	switch icode {
	case isa.IRmmovq, isa.IMrmovq:
		s.memAddr = s.alu.ValE
	case isa.ICall, isa.IPushq, isa.IRet, isa.IPopq:
		if icode == isa.ICall || icode == isa.IPushq {
			s.memAddr = s.alu.ValE
		} else {
			s.memAddr = s.regRead.ValB
		}
	}
	s.memDataIn = hcl.Mtc(icode, 0,
		hcl.MtcArm[isa.Icode, uint64]{Keys: []isa.Icode{isa.IRmmovq, isa.IPushq}, Value: s.regRead.ValA},
		hcl.MtcArm[isa.Icode, uint64]{Keys: []isa.Icode{isa.ICall}, Value: s.pc.Current + uint64(inst.Len())},
	)

	s.memUnit.Run()
	s.valM = s.memUnit.DataOut

	if icode == isa.ICmov && !s.cc.Test(isa.CondFunc(inst.Ifun)) {
		s.dstE = isa.RNone
	}

	s.regWrite.Run()

	s.stat = hcl.Switch(tracer, "stat", isa.StatAok,
		hcl.Case[isa.Stat]{Guard: func() bool { return !s.fetch.Valid }, Value: func() isa.Stat { return s.fetch.Status }, Tunnel: "bad-instruction"},
		hcl.Case[isa.Stat]{Guard: func() bool { return icode == isa.IHalt }, Value: func() isa.Stat { return isa.StatHlt }, Tunnel: "halt"},
		hcl.Case[isa.Stat]{Guard: func() bool { return s.memUnit.Status != isa.StatAok }, Value: func() isa.Stat { return s.memUnit.Status }, Tunnel: "memory-error"},
	)
}

// selectNextPC is the classic call/ret/branch-taken next-PC switch.
func (s *Seq) selectNextPC(tracer *hcl.Tracer) {
	inst := s.fetch.Inst
	icode := inst.Icode

	s.nextPC = hcl.Switch(tracer, "next-pc", s.pc.Current+uint64(inst.Len()),
		hcl.Case[uint64]{
			Guard:  func() bool { return icode == isa.IJx && s.cc.Test(isa.CondFunc(inst.Ifun)) },
			Value:  func() uint64 { return inst.ValC },
			Tunnel: "branch-taken",
		},
		hcl.Case[uint64]{
			Guard:  func() bool { return icode == isa.ICall },
			Value:  func() uint64 { return inst.ValC },
			Tunnel: "call-dest",
		},
		hcl.Case[uint64]{
			Guard:  func() bool { return icode == isa.IRet },
			Value:  func() uint64 { return s.valM },
			Tunnel: "ret-popped",
		},
	)
}

// InitiateNextCycle applies the stage mux, committing this cycle's
// combinational next-PC into the PC register.
func (s *Seq) InitiateNextCycle() {
	s.pc.Next = s.nextPC
	s.pc.Mux(s.log)
}

// PropagateSignals runs one propagation of the circuit from the current
// PC and increments the cycle counter. It touches no stage register, so
// calling it twice without an intervening InitiateNextCycle recomputes
// the same cycle's outputs.
func (s *Seq) PropagateSignals() {
	s.tracer.Reset()
	engine.RunCycle(s.circuit, s.tracer)
	s.cycles++
	if s.stat == isa.StatHlt || s.stat == isa.StatIns || s.stat == isa.StatAdr {
		s.terminate = true
	}
	if s.ttyOut {
		s.log.WithFields(logrus.Fields{"cycle": s.cycles, "pc": fmt.Sprintf("%#x", s.pc.Current), "stat": s.stat}).Debug("seq cycle")
	}
}

func (s *Seq) Step() {
	s.PropagateSignals()
	if !s.terminate {
		s.InitiateNextCycle()
	}
}

func (s *Seq) ProgramCounter() uint64 { return s.pc.Current }
func (s *Seq) IsTerminate() bool      { return s.terminate }
func (s *Seq) CycleCount() uint64     { return s.cycles }
func (s *Seq) CycleCost() uint64      { return uint64(s.order.MaxDist) }
func (s *Seq) Registers() [16]uint64  { return s.regs.Snapshot() }
func (s *Seq) PropOrder() *hcl.Order  { return s.order }

func (s *Seq) StageInfo() []StageInfo {
	return []StageInfo{{
		Name: "pc",
		Signals: []SignalValue{
			{Name: "pc", Formatted: fmt.Sprintf("%#x", s.pc.Current)},
			{Name: "stat", Formatted: s.stat.String()},
		},
	}}
}
