package arch

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"

	"y86sim/hcl"
	"y86sim/hw"
	"y86sim/isa"
	"y86sim/object"
)

func init() {
	Register("pipe_std", newPipeStd)
}

// PipeState is the payload every pipeline stage register after fetch
// carries. Not every field is meaningful at every stage -- e.g. ValE is
// write-only until execute runs -- but sharing one payload type keeps
// the four hw.Stage instances uniform, the same simplification the
// original's five nearly-identical per-stage signal structs amount to
// in practice.
type PipeState struct {
	Stat  isa.Stat
	Inst  isa.Instruction
	ValP  uint64
	ValA  uint64
	ValB  uint64
	ValE  uint64
	ValM  uint64
	SrcA  isa.RegCode
	SrcB  isa.RegCode
	DstE  isa.RegCode
	DstM  isa.RegCode
	Cnd   bool
}

var bubbleState = PipeState{
	Stat: isa.StatBub,
	Inst: isa.Instruction{Icode: isa.INop, RA: isa.RNone, RB: isa.RNone},
	SrcA: isa.RNone, SrcB: isa.RNone, DstE: isa.RNone, DstM: isa.RNone,
}

// PipeStd is the textbook 5-stage pipeline: fetch, decode, execute,
// memory, writeback, with a hazard unit stalling on load/use and on
// ret draining the pipe, and full forwarding from execute/memory/
// writeback into decode so that back-to-back dependent arithmetic
// never needs to stall.
type PipeStd struct {
	mem  *object.Memory
	regs isa.RegisterFile
	cc   isa.CondCode
	pc   *hw.Stage[uint64]

	d, e, m, w *hw.Stage[PipeState]

	ttyOut bool
	log    logrus.FieldLogger

	fetch  *FetchUnit
	hazard *HazardUnit

	// forwarding is false for the stall-only variant (pipe_s3a), which
	// has no forwarding paths and instead stalls decode until a
	// dependency has retired through writeback.
	forwarding bool
	// extraFwdPath wires the ncopy variant's additional forwarding
	// source: the memory unit's ValM keyed by the M register's DstM,
	// checked ahead of the standard sources. It selects the same value
	// as the standard memory-stage ValM source, so a load/use pair
	// still stalls one cycle as in pipe_std.
	extraFwdPath bool

	order  *hcl.Order
	tracer *hcl.Tracer

	cycles    uint64
	terminate bool
	lastStat  isa.Stat
}

func newPipeStd(mem *[0x2000]byte, ttyOut bool) CpuSim {
	return newPipeVariant(mem, ttyOut, true, false)
}

func newPipeVariant(mem *[0x2000]byte, ttyOut, forwarding, extraFwdPath bool) CpuSim {
	// The pipeline works on the caller's image in place, so memory
	// writes are visible through mem.
	m := (*object.Memory)(unsafe.Pointer(mem))
	log := logrus.New()
	if !ttyOut {
		log.SetLevel(logrus.PanicLevel)
	}

	p := &PipeStd{
		mem: m, ttyOut: ttyOut, log: log,
		pc:           hw.NewStage("pc", uint64(0)),
		d:            hw.NewStage("D", bubbleState),
		e:            hw.NewStage("E", bubbleState),
		forwarding:   forwarding,
		extraFwdPath: extraFwdPath,
	}
	p.m = hw.NewStage("M", bubbleState)
	p.w = hw.NewStage("W", bubbleState)
	p.fetch = &FetchUnit{Mem: m, PC: &p.pc.Current}
	p.hazard = &HazardUnit{}

	g := hcl.NewGraph()
	g.AddUnit("fetch")
	g.AddUnit("decode")
	g.AddUnit("execute")
	g.AddUnit("memory")
	g.AddUnit("writeback")
	g.AddIntermediate("hazard", []string{"decode", "execute"}, nil)
	order, err := g.Build()
	if err != nil {
		panic(err)
	}
	p.order = order
	p.tracer = hcl.NewTracer(log)

	return p
}

// InitiateNextCycle applies the stage mux, committing every stage
// register's combinational Next value (computed by the prior
// PropagateSignals) into Current.
func (p *PipeStd) InitiateNextCycle() {
	p.pc.Mux(p.log)
	p.d.Mux(p.log)
	p.e.Mux(p.log)
	p.m.Mux(p.log)
	p.w.Mux(p.log)
}

// PropagateSignals runs one propagation of the circuit from the current
// stage registers and increments the cycle counter. It only computes
// combinational outputs into each stage's Next/NextBubble/NextStall
// fields -- no stage register's Current changes here -- so calling it
// twice without an intervening InitiateNextCycle recomputes the same
// cycle's outputs.
func (p *PipeStd) PropagateSignals() {
	p.tracer.Reset()

	// Writeback: commits last cycle's memory-stage output.
	wState := p.w.Current
	regWrite := RegWriteUnit{Regs: &p.regs, DstE: &wState.DstE, ValE: &wState.ValE, DstM: &wState.DstM, ValM: &wState.ValM}
	regWrite.Run()

	// Memory: acts on last cycle's execute output.
	mIn := p.m.Current
	mOut := mIn
	memRead := mIn.Inst.Icode == isa.IMrmovq || mIn.Inst.Icode == isa.IRet || mIn.Inst.Icode == isa.IPopq
	memWrite := mIn.Inst.Icode == isa.IRmmovq || mIn.Inst.Icode == isa.ICall || mIn.Inst.Icode == isa.IPushq
	var addr, dataIn uint64
	switch mIn.Inst.Icode {
	case isa.IRmmovq, isa.IMrmovq, isa.ICall, isa.IPushq:
		addr = mIn.ValE
	case isa.IRet, isa.IPopq:
		addr = mIn.ValB
	}
	if mIn.Inst.Icode == isa.IRmmovq || mIn.Inst.Icode == isa.IPushq {
		dataIn = mIn.ValA
	} else if mIn.Inst.Icode == isa.ICall {
		dataIn = mIn.ValP
	}
	memUnit := MemUnit{Mem: p.mem, Read: &memRead, Write: &memWrite, Addr: &addr, DataIn: &dataIn}
	memUnit.Run()
	mOut.ValM = memUnit.DataOut
	if memUnit.Status != isa.StatAok {
		mOut.Stat = memUnit.Status
	}
	p.w.Next = mOut

	// Execute: acts on last cycle's decode output.
	eIn := p.e.Current
	eOut := eIn
	aluA, aluB := eIn.ValA, eIn.ValB
	var fun isa.OpFunc
	setCC := false
	switch eIn.Inst.Icode {
	case isa.IOpq:
		fun, setCC = isa.OpFunc(eIn.Inst.Ifun), true
	case isa.IIopq:
		aluA, fun, setCC = eIn.Inst.ValC, isa.OpFunc(eIn.Inst.Ifun), true
	case isa.IIrmovq:
		aluA, aluB, fun = eIn.Inst.ValC, 0, isa.OpAdd
	case isa.IRmmovq, isa.IMrmovq:
		aluA, fun = eIn.Inst.ValC, isa.OpAdd
	case isa.ICall, isa.IPushq:
		aluA, aluB, fun = 8, eIn.ValB, isa.OpSub
	case isa.IRet, isa.IPopq:
		aluA, aluB, fun = 8, eIn.ValB, isa.OpAdd
	case isa.ICmov:
		aluA, aluB, fun = eIn.ValA, 0, isa.OpAdd
	default:
		aluA, aluB, fun = 0, 0, isa.OpAdd
	}
	alu := ALUUnit{A: &aluA, B: &aluB, Fun: &fun}
	alu.Run()
	eOut.ValE = alu.ValE
	if setCC && eIn.Stat == isa.StatAok {
		p.cc.SetFromOp(fun, aluA, aluB, alu.ValE)
	}
	eOut.Cnd = p.cc.Test(isa.CondFunc(eIn.Inst.Ifun))
	if eIn.Inst.Icode == isa.ICmov && !eOut.Cnd {
		eOut.DstE = isa.RNone
	}
	p.m.Next = eOut

	mispredict := eIn.Inst.Icode == isa.IJx && !eOut.Cnd && eIn.Stat == isa.StatAok

	// Decode: acts on last cycle's fetch output, with forwarding from
	// execute/memory/writeback ahead of a register-file read.
	dIn := p.d.Current
	dOut := dIn
	icode := dIn.Inst.Icode
	dOut.SrcA = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.ICmov, isa.IOpq, isa.IRmmovq, isa.IPushq}, Value: dIn.Inst.RA},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPopq, isa.IRet}, Value: isa.RSP},
	)
	dOut.SrcB = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IOpq, isa.IRmmovq, isa.IMrmovq, isa.IIopq}, Value: dIn.Inst.RB},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPushq, isa.IPopq, isa.ICall, isa.IRet}, Value: isa.RSP},
	)
	dOut.DstE = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.ICmov, isa.IIrmovq, isa.IOpq, isa.IIopq}, Value: dIn.Inst.RB},
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IPushq, isa.IPopq, isa.ICall, isa.IRet}, Value: isa.RSP},
	)
	dOut.DstM = hcl.Mtc(icode, isa.RNone,
		hcl.MtcArm[isa.Icode, isa.RegCode]{Keys: []isa.Icode{isa.IMrmovq, isa.IPopq}, Value: dIn.Inst.RA},
	)

	isLoad := eIn.Inst.Icode == isa.IMrmovq
	p.hazard.ExDstM, p.hazard.ExIsLoad = &eIn.DstM, &isLoad
	p.hazard.SrcA, p.hazard.SrcB = &dOut.SrcA, &dOut.SrcB
	retInFE := icode == isa.IRet
	retInDE := eIn.Inst.Icode == isa.IRet
	retInEX := mIn.Inst.Icode == isa.IRet
	p.hazard.RetInFE, p.hazard.RetInDE, p.hazard.RetInEX = &retInFE, &retInDE, &retInEX
	p.hazard.MispredictedBranch = &mispredict
	p.hazard.Run()

	sources := []ForwardSource{
		{Reg: &eOut.DstE, Val: &eOut.ValE},
		{Reg: &mOut.DstE, Val: &mOut.ValE},
		{Reg: &mOut.DstM, Val: &mOut.ValM},
		{Reg: &wState.DstE, Val: &wState.ValE},
		{Reg: &wState.DstM, Val: &wState.ValM},
	}
	if p.extraFwdPath {
		// ncopy's additional path: the memory unit's output keyed by
		// the incoming M register's DstM. mOut is a copy of mIn, so it
		// matches whenever the {mOut.DstM, mOut.ValM} source below does.
		sources = append([]ForwardSource{{Reg: &mIn.DstM, Val: &mOut.ValM}}, sources...)
	}

	if p.forwarding {
		fwdA := ForwardUnit{Src: &dOut.SrcA, RegRead: new(uint64), Sources: sources}
		*fwdA.RegRead = p.regs.Read(dOut.SrcA)
		fwdA.Run()
		dOut.ValA = fwdA.Value

		fwdB := ForwardUnit{Src: &dOut.SrcB, RegRead: new(uint64), Sources: sources}
		*fwdB.RegRead = p.regs.Read(dOut.SrcB)
		fwdB.Run()
		dOut.ValB = fwdB.Value
	} else {
		// Stall-only: never forward. Any unresolved RAW hazard against
		// an in-flight destination just stalls decode/fetch and
		// bubbles execute until the producer has written back.
		dOut.ValA = p.regs.Read(dOut.SrcA)
		dOut.ValB = p.regs.Read(dOut.SrcB)
		rawHazard := dOut.SrcA != isa.RNone && (dOut.SrcA == eIn.DstE || dOut.SrcA == mIn.DstE || dOut.SrcA == mIn.DstM) ||
			dOut.SrcB != isa.RNone && (dOut.SrcB == eIn.DstE || dOut.SrcB == mIn.DstE || dOut.SrcB == mIn.DstM)
		if rawHazard {
			p.hazard.StallF, p.hazard.StallD, p.hazard.BubbleE = true, true, true
			// A stalled ret stays in decode rather than being bubbled.
			p.hazard.BubbleD = false
		}
	}

	// Fetch: predicts taken for control-flow instructions.
	p.fetch.Run()
	predPC := p.pc.Current + uint64(p.fetch.Inst.Len())
	if p.fetch.Valid && (p.fetch.Inst.Icode == isa.ICall || (p.fetch.Inst.Icode == isa.IJx)) {
		predPC = p.fetch.Inst.ValC
	}
	fOut := PipeState{
		Stat: p.fetch.Status,
		Inst: p.fetch.Inst,
		ValP: p.pc.Current + uint64(p.fetch.Inst.Len()),
	}
	if !p.fetch.Valid {
		fOut.Inst = isa.Instruction{Icode: isa.INop, RA: isa.RNone, RB: isa.RNone}
		fOut.ValP = p.pc.Current + 1
		predPC = fOut.ValP
	}

	// Commit stage registers per the bubble/stall law.
	p.pc.Next = predPC
	p.pc.NextBubble, p.pc.NextStall = false, p.hazard.StallF
	if mispredict {
		// The correction overrides a stall asked for by a wrong-path
		// ret in decode.
		p.pc.Next = eIn.ValP
		p.pc.NextStall = false
	}

	p.d.Next = fOut
	p.d.NextBubble, p.d.NextStall = p.hazard.BubbleD || mispredict, p.hazard.StallD

	// A ret reaching writeback resumes fetch at its popped return
	// address; whatever was fetched from the stalled PC is dropped.
	if wState.Inst.Icode == isa.IRet && wState.Stat == isa.StatAok {
		p.pc.Next = wState.ValM
		p.d.NextBubble = true
	}

	p.e.Next = dOut
	p.e.NextBubble, p.e.NextStall = p.hazard.BubbleE, false

	p.m.NextBubble, p.m.NextStall = false, false

	p.w.NextBubble, p.w.NextStall = false, false

	p.cycles++
	p.lastStat = wState.Stat
	if wState.Stat == isa.StatHlt || wState.Stat == isa.StatIns || wState.Stat == isa.StatAdr {
		p.terminate = true
	}
	if p.ttyOut {
		p.log.WithFields(logrus.Fields{"cycle": p.cycles, "pc": fmt.Sprintf("%#x", p.pc.Current)}).Debug("pipe_std cycle")
	}
}

func (p *PipeStd) Step() {
	p.PropagateSignals()
	if !p.terminate {
		p.InitiateNextCycle()
	}
}

func (p *PipeStd) ProgramCounter() uint64 { return p.pc.Current }
func (p *PipeStd) IsTerminate() bool      { return p.terminate }
func (p *PipeStd) CycleCount() uint64     { return p.cycles }
func (p *PipeStd) CycleCost() uint64      { return uint64(p.order.MaxDist) }
func (p *PipeStd) Registers() [16]uint64  { return p.regs.Snapshot() }
func (p *PipeStd) PropOrder() *hcl.Order  { return p.order }

func (p *PipeStd) StageInfo() []StageInfo {
	fmtState := func(name string, st PipeState) StageInfo {
		return StageInfo{Name: name, Signals: []SignalValue{
			{Name: "stat", Formatted: st.Stat.String()},
			{Name: "icode", Formatted: st.Inst.Icode.String()},
		}}
	}
	return []StageInfo{
		{Name: "F", Signals: []SignalValue{{Name: "pc", Formatted: fmt.Sprintf("%#x", p.pc.Current)}}},
		fmtState("D", p.d.Current),
		fmtState("E", p.e.Current),
		fmtState("M", p.m.Current),
		fmtState("W", p.w.Current),
	}
}
