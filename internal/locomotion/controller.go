// Package locomotion steers the character toward the session destination one tick at a time and
// keeps its animation in step with what it is doing.
//
// Avoidance is local: a short ray along the heading. A blocked character stands and waits; it does
// not look for a way around.
package locomotion

import (
	"fmt"
	"log/slog"

	"navigator/internal/anim"
	"navigator/internal/geom"
	"navigator/internal/session"
)

// State is the locomotion mode. Exactly one is active.
type State int

const (
	Idle State = iota
	Moving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the steering constants. Speed, blend duration and step are per simulated tick of
// Step time units: movement is coupled to the frame cadence, one tick per rendered frame.
type Config struct {
	Speed          float32 // distance per tick
	ArrivalEpsilon float32
	Lookahead      float32
	BlendDuration  float32
	Step           float32 // animation advance per tick
	Bounds         geom.AABB
	SpawnPosition  geom.Vec3
	SpawnScale     float32
	IdleClip       string
	MoveClip       string
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Speed:          0.01,
		ArrivalEpsilon: 0.1,
		Lookahead:      0.3,
		BlendDuration:  0.2,
		Step:           1.0 / 60,
		Bounds:         geom.AABB{Min: geom.V(-20, 0, -20), Max: geom.V(20, 10, 20)},
		SpawnPosition:  geom.V(-1, 0, -1),
		SpawnScale:     0.05,
		IdleClip:       "standing",
		MoveClip:       "run",
	}
}

// Controller is the locomotion state machine. It is the only writer of the session's character
// transform.
type Controller struct {
	cfg   Config
	log   *slog.Logger
	mixer *anim.Mixer
	idle  *anim.Action
	move  *anim.Action

	state   State
	spawned bool
}

// New binds the controller to the idle and move clips of mixer and starts the idle clip.
// A missing clip is fatal: the controller could not keep exactly one animation playing.
func New(cfg Config, mixer *anim.Mixer, log *slog.Logger) (*Controller, error) {
	idle, err := mixer.Action(cfg.IdleClip)
	if err != nil {
		return nil, fmt.Errorf("locomotion: idle clip: %w", err)
	}
	move, err := mixer.Action(cfg.MoveClip)
	if err != nil {
		return nil, fmt.Errorf("locomotion: move clip: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	idle.Play()
	return &Controller{
		cfg:   cfg,
		log:   log,
		mixer: mixer,
		idle:  idle,
		move:  move,
		state: Idle,
	}, nil
}

// State returns the current locomotion state.
func (c *Controller) State() State {
	return c.state
}

// Mixer returns the animation mixer driven by the controller.
func (c *Controller) Mixer() *anim.Mixer {
	return c.mixer
}

// Update runs one tick: spawn on the first call, advance animation, steer, clamp into bounds.
func (c *Controller) Update(s *session.Session) {
	ch := &s.Character
	if !c.spawned {
		ch.Position = c.cfg.SpawnPosition
		ch.Scale = c.cfg.SpawnScale
		ch.Facing = geom.Forward
		c.spawned = true
	}

	c.mixer.Update(c.cfg.Step)

	prev := ch.Position
	stepped := c.steer(s)

	ch.Position = c.cfg.Bounds.Clamp(ch.Position)
	if stepped && ch.Position != prev {
		s.Trace.Append(ch.Position)
	}
}

// steer applies the steering decision for this tick and reports whether a movement step was taken.
func (c *Controller) steer(s *session.Session) bool {
	dest, ok := s.Destination()
	if !ok {
		return false
	}
	ch := &s.Character
	toTarget := dest.Sub(ch.Position)
	dist := toTarget.Len()

	if dist <= c.cfg.ArrivalEpsilon {
		if c.state != Idle {
			c.transition(Idle)
			ch.LookAt(ch.Position.Add(geom.Forward))
		}
		return false
	}

	dir, ok := toTarget.Normalize()
	if !ok {
		c.log.Warn("skipping movement step", "reason", "degenerate heading", "position", ch.Position, "destination", dest)
		return false
	}
	hit, blocked, err := s.Obstacles().Query(ch.Position, dir, c.cfg.Lookahead)
	if err != nil {
		c.log.Warn("skipping movement step", "error", err)
		return false
	}
	if blocked {
		if c.state != Idle {
			c.log.Debug("path blocked", "obstacle", hit.Name, "distance", hit.Distance)
			c.transition(Idle)
		}
		return false
	}

	if c.state != Moving {
		c.transition(Moving)
	}
	// Never step past the destination, whatever the tuned speed.
	ch.Position = ch.Position.Add(dir.Scale(min(c.cfg.Speed, dist)))
	ch.LookAt(dest)
	return true
}

func (c *Controller) transition(to State) {
	from := c.state
	switch to {
	case Idle:
		anim.CrossFade(c.move, c.idle, c.cfg.BlendDuration)
	case Moving:
		anim.CrossFade(c.idle, c.move, c.cfg.BlendDuration)
	}
	c.state = to
	c.log.Debug("locomotion state changed", "from", from, "to", to)
}
