// Package arch wires the isa, object, hw, hcl and engine packages into
// concrete microarchitectures: a single-cycle design and three pipelined
// variants, all exposed through the common CpuSim surface the inspector
// and the reference-comparison test harness drive.
package arch

import (
	"sort"

	"y86sim/hcl"
)

// SignalValue is one named signal's formatted value, captured for
// display by the inspector.
type SignalValue struct {
	Name      string
	Formatted string
}

// StageInfo is a snapshot of one pipeline (or single-cycle) stage
// register's contents for one cycle, keyed by the stage register's name.
type StageInfo struct {
	Name    string
	Signals []SignalValue
}

// CpuSim is the behavior every architecture instance exposes, whether it
// has one stage or five. PropagateSignals walks the dataflow order,
// computing every signal and intermediate for the current cycle into
// each stage register's Next/NextBubble/NextStall fields, then
// increments the cycle counter; it touches no stage register's Current,
// so calling it twice without an intervening InitiateNextCycle
// recomputes the same cycle. InitiateNextCycle applies the stage mux,
// committing those Next values into Current. Step propagates, then (if
// the simulator has not terminated) initiates the next cycle -- the
// unit of work the test harness and the inspector drive one cycle at a
// time.
type CpuSim interface {
	InitiateNextCycle()
	PropagateSignals()
	Step()

	ProgramCounter() uint64
	IsTerminate() bool
	CycleCount() uint64
	CycleCost() uint64
	Registers() [16]uint64
	StageInfo() []StageInfo
	PropOrder() *hcl.Order
}

// Factory builds a fresh CpuSim over the given memory image, logging
// fetched instructions when ttyOut is set.
type Factory func(mem *[0x2000]byte, ttyOut bool) CpuSim

var registry = map[string]Factory{}

// Register adds name to the architecture registry. Called from each
// architecture's init, so the set of available names is fixed at
// program start.
func Register(name string, f Factory) {
	if _, ok := registry[name]; ok {
		panic("arch: duplicate architecture name " + name)
	}
	registry[name] = f
}

// Create instantiates the named architecture. It panics on an
// unregistered name: selecting an architecture is a startup-time
// configuration concern, not a condition callers recover from.
func Create(name string, mem *[0x2000]byte, ttyOut bool) CpuSim {
	f, ok := registry[name]
	if !ok {
		panic("arch: invalid architecture name " + name)
	}
	return f(mem, ttyOut)
}

// Names returns the registered architecture names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
