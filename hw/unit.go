// Package hw provides the hardware-unit framework: a name-addressed
// dispatcher over stateful units, and a generic pipeline stage register
// implementing the bubble/stall mux rule.
package hw

// Unit simulates one piece of combinational or stateful hardware. Run
// reads whatever input signals the unit was wired to at construction time
// and writes its output signals; the contract is that it is a pure
// function of those inputs and the unit's own state, except for units
// that wrap shared state (the register file, memory).
type Unit interface {
	Run()
}

// UnitSet is a name-addressed registry of units, mirroring the
// hardware-unit declaration's generated `run(unit_name, ...)` dispatcher.
type UnitSet struct {
	order []string
	units map[string]Unit
}

// NewUnitSet returns an empty registry.
func NewUnitSet() *UnitSet {
	return &UnitSet{units: map[string]Unit{}}
}

// Register adds a named unit. It panics on a duplicate name: wiring
// mistakes like this are a construction-time programmer error, not a
// runtime condition callers should have to handle.
func (s *UnitSet) Register(name string, u Unit) {
	if _, ok := s.units[name]; ok {
		panic("hw: duplicate unit name " + name)
	}
	s.units[name] = u
	s.order = append(s.order, name)
}

// Run executes the named unit's action.
func (s *UnitSet) Run(name string) {
	u, ok := s.units[name]
	if !ok {
		panic("hw: invalid unit name " + name)
	}
	u.Run()
}

// Names returns the registered unit names in registration order.
func (s *UnitSet) Names() []string {
	return append([]string(nil), s.order...)
}
