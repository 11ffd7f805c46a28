package hcl

// Case is one guarded alternative of a Switch: when Guard reports true,
// Value supplies the signal's value and, if Tunnel is non-empty, a
// firing is recorded under that name.
type Case[T any] struct {
	Guard  func() bool
	Value  func() T
	Tunnel string
}

// Switch evaluates cases in order and returns the value of the first
// whose guard is true, recording a tunnel firing on tracer when the
// winning case names one. def is returned, untraced, if no case
// matches -- mirroring a trailing "ow : default" arm.
func Switch[T any](tracer *Tracer, signal string, def T, cases ...Case[T]) T {
	for _, c := range cases {
		if c.Guard() {
			if c.Tunnel != "" {
				tracer.Fire(signal, c.Tunnel)
			}
			return c.Value()
		}
	}
	return def
}

// Mtc ("match") is the common case of a Switch whose guard is simple
// membership of a scrutinee in one of several value sets, each paired
// with a result. It returns the result for the first set containing v,
// or def if none matches.
func Mtc[K comparable, V any](v K, def V, arms ...MtcArm[K, V]) V {
	for _, arm := range arms {
		for _, k := range arm.Keys {
			if k == v {
				return arm.Value
			}
		}
	}
	return def
}

// MtcArm pairs a set of keys with the value Mtc returns when v matches
// any of them.
type MtcArm[K comparable, V any] struct {
	Keys  []K
	Value V
}
