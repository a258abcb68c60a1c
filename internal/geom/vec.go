// Package geom holds the float32 vector math shared by the navigation core.
// Vec3 has the same layout as raylib's Vector3 so the render layer can convert with rl.Vector3(v).
package geom

import (
	"github.com/chewxy/math32"
)

// Vec3 is a 3D point or direction in world units. Y is up.
type Vec3 struct {
	X, Y, Z float32
}

// V returns the vector (x, y, z).
func V(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Zero is the origin.
var Zero = Vec3{}

// Forward is the canonical facing direction used when the character stands still.
var Forward = Vec3{Z: 1}

// Up is world up.
var Up = Vec3{Y: 1}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Mul multiplies component-wise.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Dist returns |a - b|.
func (a Vec3) Dist(b Vec3) float32 {
	return a.Sub(b).Len()
}

// Normalize returns the unit vector along a. ok is false for zero-length or non-finite input,
// in which case the returned vector is Zero.
func (a Vec3) Normalize() (n Vec3, ok bool) {
	l := a.Len()
	if l == 0 || !finite(l) {
		return Zero, false
	}
	return a.Scale(1 / l), true
}

// Clamp limits each component to [lo, hi].
func (a Vec3) Clamp(lo, hi Vec3) Vec3 {
	return Vec3{
		clamp(a.X, lo.X, hi.X),
		clamp(a.Y, lo.Y, hi.Y),
		clamp(a.Z, lo.Z, hi.Z),
	}
}

// Lerp interpolates from a to b by t.
func (a Vec3) Lerp(b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// ApproxEqual reports whether every component differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol && math32.Abs(a.Z-b.Z) <= tol
}

// IsFinite is false if any component is NaN or Inf.
func (a Vec3) IsFinite() bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}

// Yaw returns the rotation about Y, in radians, that turns Forward onto a's horizontal projection.
// A vertical or zero vector yields 0.
func (a Vec3) Yaw() float32 {
	if a.X == 0 && a.Z == 0 {
		return 0
	}
	return math32.Atan2(a.X, a.Z)
}

// Slice returns the components as an array, the layout the raylib bindings take for uniforms.
func (a Vec3) Slice() [3]float32 {
	return [3]float32{a.X, a.Y, a.Z}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
