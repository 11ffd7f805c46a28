package hw

import "github.com/sirupsen/logrus"

// Stage is a generic pipeline stage register holding state of type T. Next
// is written during propagation; Current is what "previous-cycle" reads
// consult. Mux commits Next into Current at the end of a cycle, subject to
// the bubble/stall rule.
type Stage[T any] struct {
	Name    string
	Current T
	Bubble  bool
	Stall   bool

	Next       T
	NextBubble bool
	NextStall  bool

	defaultVal T
}

// NewStage returns a stage register named name, initialized to def (also
// its bubble-reset value).
func NewStage[T any](name string, def T) *Stage[T] {
	return &Stage[T]{Name: name, Current: def, defaultVal: def}
}

// Mux applies the end-of-cycle stage-register rule:
//  1. bubble && stall is illegal: logged, bubble wins.
//  2. bubble: current <- defaults.
//  3. stall: current unchanged.
//  4. otherwise: current <- next.
func (s *Stage[T]) Mux(log logrus.FieldLogger) {
	switch {
	case s.NextBubble && s.NextStall:
		if log != nil {
			log.WithField("stage", s.Name).Error("bubble and stall at the same time")
		}
		s.Current = s.defaultVal
	case s.NextBubble:
		s.Current = s.defaultVal
	case s.NextStall:
		// current unchanged
	default:
		s.Current = s.Next
	}
	s.Bubble, s.Stall = s.NextBubble, s.NextStall
}

// Reset restores the stage to its default value and clears the control
// inputs.
func (s *Stage[T]) Reset() {
	s.Current = s.defaultVal
	s.Bubble, s.Stall = false, false
	var zero T
	s.Next, s.NextBubble, s.NextStall = zero, false, false
}
