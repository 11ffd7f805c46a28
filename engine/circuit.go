// Package engine runs the propagation loop: given a precomputed
// topological order over units and intermediate signals, it walks that
// order once per cycle, dispatching each unit's Run and each
// intermediate's updater closure in schedule order.
package engine

import (
	"y86sim/hcl"
	"y86sim/hw"
)

// Updater recomputes one intermediate signal's value for the current
// cycle. It is given the cycle's tracer so switches it evaluates can
// record tunnel firings.
type Updater func(tracer *hcl.Tracer)

// Circuit bundles a built schedule, the units it dispatches, and the
// updater closures for its intermediate signals.
type Circuit struct {
	Order    *hcl.Order
	Units    *hw.UnitSet
	Updaters map[string]Updater
}

// NewCircuit wraps a built order, unit registry, and updater map into a
// runnable Circuit.
func NewCircuit(order *hcl.Order, units *hw.UnitSet, updaters map[string]Updater) *Circuit {
	return &Circuit{Order: order, Units: units, Updaters: updaters}
}

// RunCycle walks the circuit's schedule once, running each unit and
// invoking each intermediate signal's updater, in the order the
// dataflow graph requires. It does not touch any stage register's
// Current/Next split -- committing Next into Current at the cycle
// boundary is the caller's job (see hw.Stage.Mux), since only the
// architecture wiring knows which stage registers exist.
func RunCycle(c *Circuit, tracer *hcl.Tracer) {
	for _, n := range c.Order.Nodes {
		if n.IsUnit {
			c.Units.Run(n.Name)
			continue
		}
		if u, ok := c.Updaters[n.Name]; ok {
			u(tracer)
		}
	}
}
