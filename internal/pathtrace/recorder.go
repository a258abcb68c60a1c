// Package pathtrace records the positions a character visits while moving, for the path overlay.
package pathtrace

import (
	"navigator/internal/geom"
)

// DefaultCapacity bounds a session's trace. At one entry per tick that is roughly half an hour of
// continuous movement at 60 ticks per second.
const DefaultCapacity = 100_000

// Recorder is an append-only trace with a fixed capacity. When full, the oldest entries are
// dropped so memory stays bounded; the overlay only ever needs the recent tail.
type Recorder struct {
	buf      []geom.Vec3
	capacity int
	start    int
	total    int
}

// New returns a recorder holding at most capacity points. capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{buf: make([]geom.Vec3, 0, min(capacity, 1024)), capacity: capacity}
}

// Cap returns the capacity.
func (r *Recorder) Cap() int {
	return r.capacity
}

// Append records p.
func (r *Recorder) Append(p geom.Vec3) {
	r.total++
	if len(r.buf) < r.capacity {
		r.buf = append(r.buf, p)
		return
	}
	r.buf[r.start] = p
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of retained points.
func (r *Recorder) Len() int {
	return len(r.buf)
}

// Total returns the number of points ever appended, including dropped ones.
func (r *Recorder) Total() int {
	return r.total
}

// Last returns the most recent point.
func (r *Recorder) Last() (geom.Vec3, bool) {
	if len(r.buf) == 0 {
		return geom.Zero, false
	}
	return r.buf[(r.start+len(r.buf)-1)%len(r.buf)], true
}

// Points returns the retained points, oldest first, as a new slice.
func (r *Recorder) Points() []geom.Vec3 {
	out := make([]geom.Vec3, 0, len(r.buf))
	out = append(out, r.buf[r.start:]...)
	out = append(out, r.buf[:r.start]...)
	return out
}

// Segments calls fn for each consecutive pair of retained points, oldest first, without copying.
func (r *Recorder) Segments(fn func(from, to geom.Vec3)) {
	n := len(r.buf)
	for i := 1; i < n; i++ {
		fn(r.buf[(r.start+i-1)%n], r.buf[(r.start+i)%n])
	}
}
