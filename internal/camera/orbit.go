package camera

import (
	"github.com/chewxy/math32"

	"navigator/internal/geom"
)

// OrbitControls moves a camera on a sphere around its target. Input calls accumulate; Update applies
// them, clamps distance and polar angle, and writes the camera position.
type OrbitControls struct {
	Camera *Perspective

	MinDistance float32
	MaxDistance float32
	MinPolar    float32 // radians from +Y
	MaxPolar    float32

	RotateSpeed float32 // radians per input unit
	ZoomSpeed   float32 // dolly factor per wheel step, > 1

	EnableRotate bool
	EnableZoom   bool
	EnablePan    bool

	azimuthDelta float32
	polarDelta   float32
	scale        float32
}

// NewOrbitControls wraps cam with rotate and zoom enabled. Pan is off: the character is the
// look-at anchor.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	return &OrbitControls{
		Camera:       cam,
		MinDistance:  1,
		MaxDistance:  50,
		MinPolar:     0.05,
		MaxPolar:     math32.Pi/2 - 0.05,
		RotateSpeed:  0.005,
		ZoomSpeed:    1.1,
		EnableRotate: true,
		EnableZoom:   true,
		scale:        1,
	}
}

// Rotate queues an orbit by dx, dy input units (e.g. pixels dragged).
func (o *OrbitControls) Rotate(dx, dy float32) {
	if !o.EnableRotate {
		return
	}
	o.azimuthDelta -= dx * o.RotateSpeed
	o.polarDelta -= dy * o.RotateSpeed
}

// Zoom queues a dolly; positive steps move closer.
func (o *OrbitControls) Zoom(steps float32) {
	if !o.EnableZoom || steps == 0 || o.ZoomSpeed <= 0 {
		return
	}
	o.scale *= math32.Pow(o.ZoomSpeed, -steps)
}

// Pan shifts camera and target together along the view plane. It does nothing unless EnablePan is set.
func (o *OrbitControls) Pan(dx, dy float32) {
	if !o.EnablePan {
		return
	}
	_, right, up := o.Camera.basis()
	shift := right.Scale(-dx).Add(up.Scale(dy))
	o.Camera.Position = o.Camera.Position.Add(shift)
	o.Camera.Target = o.Camera.Target.Add(shift)
}

// Distance returns the current camera-to-target distance.
func (o *OrbitControls) Distance() float32 {
	return o.Camera.Position.Dist(o.Camera.Target)
}

// Update applies queued input and constraints.
func (o *OrbitControls) Update() {
	offset := o.Camera.Position.Sub(o.Camera.Target)
	r := offset.Len()
	if r == 0 {
		r = o.MinDistance
		offset = geom.V(0, r, 0)
	}
	polar := math32.Acos(max(-1, min(1, offset.Y/r)))
	azimuth := math32.Atan2(offset.X, offset.Z)

	azimuth += o.azimuthDelta
	polar = max(o.MinPolar, min(o.MaxPolar, polar+o.polarDelta))
	r = max(o.MinDistance, min(o.MaxDistance, r*o.scale))

	o.azimuthDelta, o.polarDelta, o.scale = 0, 0, 1

	sp, cp := math32.Sincos(polar)
	sa, ca := math32.Sincos(azimuth)
	o.Camera.Position = o.Camera.Target.Add(geom.V(r*sp*sa, r*cp, r*sp*ca))
}

// Rig keeps the orbit centered on the character. Each frame it shifts the camera by however far the
// character moved, so whatever orbit and zoom the user applied is preserved.
type Rig struct {
	Controls *OrbitControls
	last     geom.Vec3
	seeded   bool
}

// NewRig wraps controls.
func NewRig(controls *OrbitControls) *Rig {
	return &Rig{Controls: controls}
}

// Seed sets the reference position the next Follow measures movement from.
func (r *Rig) Seed(character geom.Vec3) {
	r.last = character
	r.seeded = true
}

// Follow tracks the character at its new position. The first call only seeds the reference, so
// the camera does not jump by the character's distance from the origin.
func (r *Rig) Follow(character geom.Vec3) {
	if !r.seeded {
		r.Seed(character)
	}
	cam := r.Controls.Camera
	cam.Position = cam.Position.Add(character.Sub(r.last))
	cam.Target = character
	r.Controls.Update()
	r.last = character
}
