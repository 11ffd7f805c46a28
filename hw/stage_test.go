package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageMuxDefaultPath(t *testing.T) {
	s := NewStage("x", 0)
	s.Next = 5
	s.Mux(nil)
	assert.Equal(t, 5, s.Current)
}

func TestStageMuxBubbleResets(t *testing.T) {
	s := NewStage("x", 42)
	s.Current = 7
	s.Next = 5
	s.NextBubble = true
	s.Mux(nil)
	assert.Equal(t, 42, s.Current)
}

func TestStageMuxStallHoldsCurrent(t *testing.T) {
	s := NewStage("x", 0)
	s.Current = 9
	s.Next = 5
	s.NextStall = true
	s.Mux(nil)
	assert.Equal(t, 9, s.Current)
}

func TestStageMuxBubbleAndStallPrefersBubble(t *testing.T) {
	s := NewStage("x", 1)
	s.Current = 9
	s.Next = 5
	s.NextBubble, s.NextStall = true, true
	s.Mux(nil)
	assert.Equal(t, 1, s.Current)
}

func TestStageReset(t *testing.T) {
	s := NewStage("x", 3)
	s.Current, s.Bubble, s.Stall = 10, true, true
	s.Reset()
	assert.Equal(t, 3, s.Current)
	assert.False(t, s.Bubble)
	assert.False(t, s.Stall)
}

func TestUnitSetRunsRegisteredUnit(t *testing.T) {
	set := NewUnitSet()
	ran := false
	set.Register("u", runFunc(func() { ran = true }))
	set.Run("u")
	assert.True(t, ran)
}

func TestUnitSetPanicsOnUnknownName(t *testing.T) {
	set := NewUnitSet()
	assert.Panics(t, func() { set.Run("missing") })
}

func TestUnitSetPanicsOnDuplicateName(t *testing.T) {
	set := NewUnitSet()
	set.Register("u", runFunc(func() {}))
	assert.Panics(t, func() { set.Register("u", runFunc(func() {})) })
}

type runFunc func()

func (f runFunc) Run() { f() }
