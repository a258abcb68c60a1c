// Package anim blends named, looping animation clips. It tracks time and influence per clip;
// sampling poses is left to the renderer.
package anim

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMissingClip is returned when a required clip is not part of the mixer.
var ErrMissingClip = errors.New("animation clip missing")

// Clip is a named animation of the given length in time units.
type Clip struct {
	Name     string
	Duration float32
}

// Action is the playback state of one clip. New actions are stopped with full weight.
type Action struct {
	clip    Clip
	time    float32
	weight  float32
	playing bool

	fading       bool
	fadeFrom     float32
	fadeTo       float32
	fadeElapsed  float32
	fadeDuration float32
}

func newAction(c Clip) *Action {
	return &Action{clip: c, weight: 1}
}

// Name returns the clip name.
func (a *Action) Name() string {
	return a.clip.Name
}

// Clip returns the underlying clip.
func (a *Action) Clip() Clip {
	return a.clip
}

// Time is the playback position within the clip.
func (a *Action) Time() float32 {
	return a.time
}

// Weight is the current influence, 0 when the action is not running.
func (a *Action) Weight() float32 {
	if !a.playing {
		return 0
	}
	return a.weight
}

// IsRunning reports whether the action is playing.
func (a *Action) IsRunning() bool {
	return a.playing
}

// IsFading reports whether a fade is in progress.
func (a *Action) IsFading() bool {
	return a.fading
}

// Play starts the action. Weight is left as set by a preceding FadeIn.
func (a *Action) Play() *Action {
	a.playing = true
	return a
}

// Reset rewinds to the start and cancels any fade.
func (a *Action) Reset() *Action {
	a.time = 0
	a.fading = false
	return a
}

// FadeIn ramps the weight from 0 to 1 over d.
func (a *Action) FadeIn(d float32) *Action {
	return a.fade(0, 1, d)
}

// FadeOut ramps the weight from its current value to 0 over d; the action stops when it gets there.
func (a *Action) FadeOut(d float32) *Action {
	return a.fade(a.Weight(), 0, d)
}

func (a *Action) fade(from, to, d float32) *Action {
	a.weight = from
	a.fadeFrom = from
	a.fadeTo = to
	a.fadeElapsed = 0
	a.fadeDuration = d
	a.fading = true
	if d <= 0 {
		a.finishFade()
	}
	return a
}

func (a *Action) finishFade() {
	a.weight = a.fadeTo
	a.fading = false
	if a.fadeTo == 0 {
		a.playing = false
	}
}

func (a *Action) update(dt float32) {
	if !a.playing {
		return
	}
	a.time += dt
	if d := a.clip.Duration; d > 0 {
		for a.time >= d {
			a.time -= d
		}
	}
	if !a.fading {
		return
	}
	a.fadeElapsed += dt
	if a.fadeElapsed >= a.fadeDuration {
		a.finishFade()
		return
	}
	t := a.fadeElapsed / a.fadeDuration
	a.weight = a.fadeFrom + (a.fadeTo-a.fadeFrom)*t
}

// Mixer owns one action per clip and advances them together.
type Mixer struct {
	actions map[string]*Action
	order   []string
	time    float32
}

// NewMixer creates stopped actions for clips. Later duplicates of a name are ignored.
func NewMixer(clips []Clip) *Mixer {
	m := &Mixer{actions: make(map[string]*Action, len(clips))}
	for _, c := range clips {
		if _, ok := m.actions[c.Name]; ok {
			continue
		}
		m.actions[c.Name] = newAction(c)
		m.order = append(m.order, c.Name)
	}
	return m
}

// Action returns the action for the named clip.
func (m *Mixer) Action(name string) (*Action, error) {
	a, ok := m.actions[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w (have %v)", name, ErrMissingClip, m.order)
	}
	return a, nil
}

// Names lists clip names in the order they were given.
func (m *Mixer) Names() []string {
	return slices.Clone(m.order)
}

// Update advances every running action by dt.
func (m *Mixer) Update(dt float32) {
	m.time += dt
	for _, name := range m.order {
		m.actions[name].update(dt)
	}
}

// Time is the total time the mixer has been advanced.
func (m *Mixer) Time() float32 {
	return m.time
}

// Active returns the actions with non-zero weight, in clip order.
func (m *Mixer) Active() []*Action {
	var out []*Action
	for _, name := range m.order {
		if a := m.actions[name]; a.Weight() > 0 {
			out = append(out, a)
		}
	}
	return out
}

// Dominant returns the action with the highest weight, or nil when nothing plays.
func (m *Mixer) Dominant() *Action {
	var best *Action
	for _, a := range m.Active() {
		if best == nil || a.Weight() > best.Weight() {
			best = a
		}
	}
	return best
}

// CrossFade fades from out and fades to in from its start over d.
func CrossFade(from, to *Action, d float32) {
	from.FadeOut(d)
	to.Reset().FadeIn(d).Play()
}

// Frame maps the playback position onto one of frameCount samples taken at sampleRate per time
// unit, wrapping past the last sample.
func (a *Action) Frame(sampleRate float32, frameCount int) int {
	if frameCount <= 0 || sampleRate <= 0 {
		return 0
	}
	f := int(a.time * sampleRate)
	return ((f % frameCount) + frameCount) % frameCount
}
