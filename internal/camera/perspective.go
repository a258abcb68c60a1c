// Package camera is the third-person viewpoint: a perspective camera, orbit controls over it, and
// the rig that keeps the orbit centered on the character.
package camera

import (
	"github.com/chewxy/math32"

	"navigator/internal/geom"
)

// Perspective is a look-at camera with a vertical field of view in degrees.
type Perspective struct {
	Position geom.Vec3
	Target   geom.Vec3
	Up       geom.Vec3
	FovY     float32
	Aspect   float32 // width / height
}

// NewPerspective returns a Y-up camera at position looking at target.
func NewPerspective(position, target geom.Vec3, fovY, aspect float32) *Perspective {
	return &Perspective{Position: position, Target: target, Up: geom.Up, FovY: fovY, Aspect: aspect}
}

// basis returns the camera's forward, right and up unit vectors.
func (p *Perspective) basis() (forward, right, up geom.Vec3) {
	forward, ok := p.Target.Sub(p.Position).Normalize()
	if !ok {
		forward = geom.V(0, 0, -1)
	}
	right, ok = forward.Cross(p.Up).Normalize()
	if !ok {
		// Looking straight along Up: pick any perpendicular.
		right = geom.V(1, 0, 0)
	}
	up = right.Cross(forward)
	return forward, right, up
}

func (p *Perspective) halfExtents() (w, h float32) {
	h = math32.Tan(p.FovY * math32.Pi / 360)
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return h * aspect, h
}

// Ray returns the world ray through normalized device coordinates (x right, y up, both in [-1, 1]).
func (p *Perspective) Ray(ndcX, ndcY float32) geom.Ray {
	forward, right, up := p.basis()
	hw, hh := p.halfExtents()
	d := forward.Add(right.Scale(ndcX * hw)).Add(up.Scale(ndcY * hh))
	dir, _ := d.Normalize()
	return geom.Ray{Origin: p.Position, Dir: dir}
}

// Project maps a world point to normalized device coordinates. ok is false for points at or
// behind the camera plane.
func (p *Perspective) Project(world geom.Vec3) (ndcX, ndcY float32, ok bool) {
	forward, right, up := p.basis()
	d := world.Sub(p.Position)
	z := d.Dot(forward)
	if z <= 0 {
		return 0, 0, false
	}
	hw, hh := p.halfExtents()
	return d.Dot(right) / (z * hw), d.Dot(up) / (z * hh), true
}
