package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = float32(1.0 / 60)

func newTestMixer(t *testing.T) (*Mixer, *Action, *Action) {
	t.Helper()
	m := NewMixer([]Clip{{Name: "standing", Duration: 2}, {Name: "run", Duration: 0.5}})
	stand, err := m.Action("standing")
	require.NoError(t, err)
	run, err := m.Action("run")
	require.NoError(t, err)
	return m, stand, run
}

func TestMixer_MissingClip(t *testing.T) {
	m := NewMixer([]Clip{{Name: "standing", Duration: 1}})
	_, err := m.Action("run")
	assert.ErrorIs(t, err, ErrMissingClip)
}

func TestMixer_DuplicateNames(t *testing.T) {
	m := NewMixer([]Clip{{Name: "run", Duration: 1}, {Name: "run", Duration: 9}})
	assert.Equal(t, []string{"run"}, m.Names())
	a, err := m.Action("run")
	require.NoError(t, err)
	assert.Equal(t, float32(1), a.Clip().Duration)
}

func TestAction_PlayLoops(t *testing.T) {
	m, _, run := newTestMixer(t)
	run.Play()
	for i := 0; i < 45; i++ {
		m.Update(step)
	}
	assert.InDelta(t, 0.25, run.Time(), 1e-4, "45 ticks of a 30-tick clip wraps once")
	assert.Equal(t, float32(1), run.Weight())
	assert.InDelta(t, 0.75, m.Time(), 1e-4)
}

func TestCrossFade(t *testing.T) {
	m, stand, run := newTestMixer(t)
	stand.Play()
	require.Equal(t, []*Action{stand}, m.Active())

	CrossFade(stand, run, 0.2)
	m.Update(step)
	assert.Len(t, m.Active(), 2, "both clips contribute during the blend window")
	assert.True(t, stand.IsFading())
	assert.Greater(t, stand.Weight(), run.Weight())

	for i := 0; i < 12; i++ {
		m.Update(step)
	}
	assert.Equal(t, []*Action{run}, m.Active(), "exactly one clip at steady state")
	assert.Equal(t, run, m.Dominant())
	assert.False(t, stand.IsRunning())
	assert.Equal(t, float32(1), run.Weight())
}

func TestCrossFade_ZeroDuration(t *testing.T) {
	m, stand, run := newTestMixer(t)
	stand.Play()
	CrossFade(stand, run, 0)
	assert.Equal(t, []*Action{run}, m.Active())
}

func TestCrossFade_BackAndForth(t *testing.T) {
	m, stand, run := newTestMixer(t)
	stand.Play()
	CrossFade(stand, run, 0.2)
	for i := 0; i < 3; i++ {
		m.Update(step)
	}
	CrossFade(run, stand, 0.2)
	for i := 0; i < 30; i++ {
		m.Update(step)
	}
	assert.Equal(t, []*Action{stand}, m.Active())
	assert.InDelta(t, 0.5, stand.Time(), 1e-4, "reset on fade in")
}

func TestMixer_DominantWhenIdle(t *testing.T) {
	m, _, _ := newTestMixer(t)
	assert.Nil(t, m.Dominant())
}

func TestAction_Frame(t *testing.T) {
	m := NewMixer([]Clip{{Name: "run", Duration: 1}})
	a, err := m.Action("run")
	require.NoError(t, err)
	a.Play()
	assert.Equal(t, 0, a.Frame(60, 60))

	m.Update(0.5)
	assert.Equal(t, 30, a.Frame(60, 60))
	assert.Equal(t, 5, a.Frame(60, 25), "wraps past the last sample")
	assert.Equal(t, 0, a.Frame(60, 0))
	assert.Equal(t, 0, a.Frame(0, 60))
}
