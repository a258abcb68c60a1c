package navigator

import (
	"fmt"
	"io"

	"navigator/internal/geom"
	"navigator/internal/locomotion"
)

// Report summarizes a headless run.
type Report struct {
	Frames         int
	State          locomotion.State
	Position       geom.Vec3
	Destination    geom.Vec3
	HasDestination bool
	Remaining      float32 // distance to the destination at the end
	Transitions    int
	ArrivedAt      int // first frame that ended Idle after moving, -1 if never
	TraceLen       int
	TraceTotal     int
}

// RunFor runs frames ticks and reports what happened.
func (n *Navigator) RunFor(frames int) Report {
	r := Report{ArrivedAt: -1}
	prev := n.State()
	moved := false
	for i := 1; i <= frames; i++ {
		n.Frame()
		st := n.State()
		if st != prev {
			r.Transitions++
		}
		if st == locomotion.Moving {
			moved = true
		}
		if moved && st == locomotion.Idle && r.ArrivedAt < 0 {
			r.ArrivedAt = i
		}
		prev = st
	}
	s := n.session
	r.Frames = frames
	r.State = n.State()
	r.Position = s.Character.Position
	r.Destination, r.HasDestination = s.Destination()
	if r.HasDestination {
		r.Remaining = r.Position.Dist(r.Destination)
	}
	r.TraceLen = s.Trace.Len()
	r.TraceTotal = s.Trace.Total()
	return r
}

// Write prints the report as aligned key=value lines.
func (r Report) Write(w io.Writer) error {
	dest := "none"
	if r.HasDestination {
		dest = fmt.Sprintf("(%.3f, %.3f, %.3f)", r.Destination.X, r.Destination.Y, r.Destination.Z)
	}
	arrived := "never"
	if r.ArrivedAt >= 0 {
		arrived = fmt.Sprintf("frame %d", r.ArrivedAt)
	}
	_, err := fmt.Fprintf(w, "=== Navigator Report ===\n"+
		"frames=%d state=%s transitions=%d\n"+
		"position=(%.3f, %.3f, %.3f) destination=%s remaining=%.3f\n"+
		"stopped=%s trace=%d total=%d\n",
		r.Frames, r.State, r.Transitions,
		r.Position.X, r.Position.Y, r.Position.Z, dest, r.Remaining,
		arrived, r.TraceLen, r.TraceTotal)
	return err
}
