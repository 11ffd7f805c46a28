package hcl

import "github.com/sirupsen/logrus"

// Tracer records tunnel firings during one cycle's propagation. Tunnels
// carry no simulation meaning of their own; they exist purely so a
// diagnostic pass (the inspector, a trace dump) can see which guarded
// case of which switch fired, without the switch's evaluation itself
// needing to know anything about logging.
type Tracer struct {
	log     logrus.FieldLogger
	Firings []Firing
}

// Firing is one tunnel's activation during a cycle.
type Firing struct {
	Signal string
	Case   string
}

// NewTracer returns a Tracer that also forwards firings to log at debug
// level, when log is non-nil.
func NewTracer(log logrus.FieldLogger) *Tracer {
	return &Tracer{log: log}
}

// Fire records that signal's value was produced by the named case.
func (t *Tracer) Fire(signal, caseName string) {
	if t == nil {
		return
	}
	t.Firings = append(t.Firings, Firing{Signal: signal, Case: caseName})
	if t.log != nil {
		t.log.WithFields(logrus.Fields{"signal": signal, "case": caseName}).Debug("tunnel fired")
	}
}

// Reset clears recorded firings, for reuse across cycles.
func (t *Tracer) Reset() {
	if t == nil {
		return
	}
	t.Firings = t.Firings[:0]
}
