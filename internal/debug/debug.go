// Package debug draws the text overlay: FPS, locomotion state, destination, trace length and the
// most recent log lines.
package debug

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"navigator/internal/navigator"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logSize    = 14
	logLines   = 6
	// updateInterval: text is rebuilt every N frames to limit allocations.
	updateInterval = 15
)

// LogSource supplies recent log lines.
type LogSource interface {
	Tail(n int) []string
}

// Debug holds overlay toggles and cached text. All overlays are off by default.
type Debug struct {
	ShowFPS   bool
	ShowState bool
	ShowLog   bool

	logs       LogSource
	frameCount uint32
	fpsText    string
	stateText  []string
}

// New returns an overlay with everything hidden. logs may be nil.
func New(logs LogSource) *Debug {
	return &Debug{logs: logs}
}

// Draw renders the enabled overlays. Call after the 3D scene.
func (d *Debug) Draw(nav *navigator.Navigator) {
	d.frameCount++
	refresh := d.frameCount%updateInterval == 0 || d.fpsText == ""
	if refresh {
		d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		d.stateText = stateLines(nav)
	}

	y := int32(padding)
	if d.ShowFPS {
		w := rl.MeasureText(d.fpsText, fontSize)
		rl.DrawText(d.fpsText, int32(rl.GetScreenWidth())-w-padding, y, fontSize, rl.Green)
	}
	if d.ShowState {
		for _, line := range d.stateText {
			rl.DrawText(line, padding, y, fontSize, rl.RayWhite)
			y += lineHeight
		}
	}
	if d.ShowLog && d.logs != nil {
		lines := d.logs.Tail(logLines)
		ly := int32(rl.GetScreenHeight()) - padding - int32(len(lines))*(logSize+2)
		for _, line := range lines {
			rl.DrawText(line, padding, ly, logSize, rl.LightGray)
			ly += logSize + 2
		}
	}
}

func stateLines(nav *navigator.Navigator) []string {
	s := nav.Session()
	pos := s.Character.Position
	lines := []string{
		fmt.Sprintf("State: %s", nav.State()),
		fmt.Sprintf("Position: %.2f %.2f %.2f", pos.X, pos.Y, pos.Z),
	}
	if dest, ok := s.Destination(); ok {
		lines = append(lines, fmt.Sprintf("Destination: %.2f %.2f %.2f", dest.X, dest.Y, dest.Z))
	} else {
		lines = append(lines, "Destination: none")
	}
	lines = append(lines, fmt.Sprintf("Trace: %d/%d", s.Trace.Len(), s.Trace.Cap()))
	if !nav.Ready() {
		lines = append(lines, "Loading...")
	}
	return lines
}
