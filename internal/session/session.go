// Package session holds the mutable state of one viewing session. One Session is owned by the
// navigator and passed by reference to each component's per-frame call.
//
// The destination is the only field written outside the frame loop (by click handling); it is
// swapped as a whole through an atomic pointer. Everything else is touched by the frame loop only.
package session

import (
	"sync/atomic"

	"navigator/internal/collision"
	"navigator/internal/geom"
	"navigator/internal/pathtrace"
)

// Transform is the character's placement. Orientation is kept as the direction the character
// looks along rather than as angles.
type Transform struct {
	Position geom.Vec3
	Facing   geom.Vec3
	Scale    float32
}

// Yaw returns the rotation about Y that turns the model's forward axis onto Facing.
func (t Transform) Yaw() float32 {
	return t.Facing.Yaw()
}

// LookAt turns the character toward target. A target at the current position leaves Facing alone.
func (t *Transform) LookAt(target geom.Vec3) {
	if d, ok := target.Sub(t.Position).Normalize(); ok {
		t.Facing = d
	}
}

// Session is the shared state of one viewing session.
type Session struct {
	Character Transform
	Trace     *pathtrace.Recorder

	destination atomic.Pointer[geom.Vec3]
	obstacles   atomic.Pointer[collision.Index]
}

// New returns a session with an empty trace of the given capacity and no destination.
func New(traceCapacity int) *Session {
	return &Session{
		Character: Transform{Facing: geom.Forward, Scale: 1},
		Trace:     pathtrace.New(traceCapacity),
	}
}

// SetDestination replaces the destination.
func (s *Session) SetDestination(p geom.Vec3) {
	s.destination.Store(&p)
}

// Destination returns the current destination, if one was ever set.
func (s *Session) Destination() (geom.Vec3, bool) {
	p := s.destination.Load()
	if p == nil {
		return geom.Zero, false
	}
	return *p, true
}

// SetObstacles installs the collision index. Only the first call has an effect; it reports whether
// the index was installed.
func (s *Session) SetObstacles(ix *collision.Index) bool {
	return s.obstacles.CompareAndSwap(nil, ix)
}

// Obstacles returns the collision index, or nil before the environment has loaded.
// A nil index never reports an obstruction.
func (s *Session) Obstacles() *collision.Index {
	return s.obstacles.Load()
}
