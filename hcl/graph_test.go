package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOrdersProducersBeforeConsumers(t *testing.T) {
	g := NewGraph()
	g.AddUnit("fetch")
	g.AddUnit("execute")
	g.AddIntermediate("decode", []string{"fetch"}, []string{"execute"})

	order, err := g.Build()
	assert.NoError(t, err)

	pos := map[string]int{}
	for i, n := range order.Nodes {
		pos[n.Name] = i
	}
	assert.Less(t, pos["fetch"], pos["decode"])
	assert.Less(t, pos["decode"], pos["execute"])
}

func TestBuildComputesMaxDistAsUnitChainLength(t *testing.T) {
	g := NewGraph()
	g.AddUnit("a")
	g.AddUnit("b")
	g.AddUnit("c")
	g.AddIntermediate("ab", []string{"a"}, []string{"b"})
	g.AddIntermediate("bc", []string{"b"}, []string{"c"})

	order, err := g.Build()
	assert.NoError(t, err)
	assert.Equal(t, 3, order.MaxDist)
}

func TestBuildRejectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddUnit("a")
	g.AddUnit("b")
	g.AddIntermediate("ab", []string{"a"}, []string{"b"})
	g.AddIntermediate("ba", []string{"b"}, []string{"a"})

	_, err := g.Build()
	assert.Error(t, err)
}

func TestSwitchFirstMatchWinsAndFiresTunnel(t *testing.T) {
	tracer := NewTracer(nil)
	got := Switch(tracer, "sig", -1,
		Case[int]{Guard: func() bool { return false }, Value: func() int { return 1 }, Tunnel: "a"},
		Case[int]{Guard: func() bool { return true }, Value: func() int { return 2 }, Tunnel: "b"},
		Case[int]{Guard: func() bool { return true }, Value: func() int { return 3 }, Tunnel: "c"},
	)
	assert.Equal(t, 2, got)
	assert.Equal(t, []Firing{{Signal: "sig", Case: "b"}}, tracer.Firings)
}

func TestSwitchFallsBackToDefault(t *testing.T) {
	got := Switch[int](nil, "sig", 7, Case[int]{Guard: func() bool { return false }, Value: func() int { return 1 }})
	assert.Equal(t, 7, got)
}

func TestMtcMatchesFirstContainingArm(t *testing.T) {
	got := Mtc(2, "default",
		MtcArm[int, string]{Keys: []int{1, 2}, Value: "low"},
		MtcArm[int, string]{Keys: []int{3, 4}, Value: "high"},
	)
	assert.Equal(t, "low", got)
}

func TestMtcFallsBackToDefault(t *testing.T) {
	got := Mtc(99, "default", MtcArm[int, string]{Keys: []int{1}, Value: "low"})
	assert.Equal(t, "default", got)
}
