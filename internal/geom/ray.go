package geom

import (
	"github.com/chewxy/math32"
)

// epsilon below which a ray is treated as parallel to a triangle plane.
const parallelEpsilon = 1e-7

// Ray is a half-line. Dir is expected to be unit length; distances returned by the
// intersection tests are in Dir units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns a box that contains nothing; extending it with a point yields that point.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Valid is false for inverted or empty boxes.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Extend grows the box to include p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)},
		Max: Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box holding both boxes.
func (b AABB) Union(o AABB) AABB {
	if !o.Valid() {
		return b
	}
	if !b.Valid() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Contains reports whether p lies inside the box, boundary included.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp moves p to the nearest point inside the box.
func (b AABB) Clamp(p Vec3) Vec3 {
	return p.Clamp(b.Min, b.Max)
}

// Center is the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IntersectRay runs the slab test and returns the entry distance along r, clipped to [0, maxDist].
// A ray starting inside the box hits at distance 0.
func (b AABB) IntersectRay(r Ray, maxDist float32) (float32, bool) {
	if !b.Valid() {
		return 0, false
	}
	tmin := float32(0)
	tmax := maxDist
	o := r.Origin.Slice()
	d := r.Dir.Slice()
	lo := b.Min.Slice()
	hi := b.Max.Slice()
	for axis := 0; axis < 3; axis++ {
		if math32.Abs(d[axis]) < parallelEpsilon {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * inv
		t2 := (hi[axis] - o[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// Triangle is three corners in counter-clockwise order.
type Triangle struct {
	A, B, C Vec3
}

// IntersectRay is the Möller-Trumbore test. Both faces count as hits; hits behind the origin
// or beyond maxDist are rejected.
func (tri Triangle) IntersectRay(r Ray, maxDist float32) (float32, bool) {
	return tri.intersect(r, maxDist, false)
}

// IntersectRayFront is IntersectRay with back faces culled: only a ray arriving against the
// counter-clockwise normal hits. A ray leaving a closed mesh from inside hits nothing.
func (tri Triangle) IntersectRayFront(r Ray, maxDist float32) (float32, bool) {
	return tri.intersect(r, maxDist, true)
}

func (tri Triangle) intersect(r Ray, maxDist float32, cull bool) (float32, bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if cull && det < parallelEpsilon {
		return 0, false
	}
	if math32.Abs(det) < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// Normal is the unnormalized counter-clockwise face normal.
func (tri Triangle) Normal() Vec3 {
	return tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
}

// Bounds returns the triangle's box.
func (tri Triangle) Bounds() AABB {
	return EmptyAABB().Extend(tri.A).Extend(tri.B).Extend(tri.C)
}

// Affine is a scale followed by a translation: p' = p*Scale + Offset.
// Scene nodes carry no rotation, so this is the full node transform.
type Affine struct {
	Scale  Vec3
	Offset Vec3
}

// Identity leaves points unchanged.
func Identity() Affine {
	return Affine{Scale: Vec3{1, 1, 1}}
}

// Apply maps a local point into the parent space.
func (a Affine) Apply(p Vec3) Vec3 {
	return p.Mul(a.Scale).Add(a.Offset)
}

// Then returns the transform that applies child first and then a.
func (a Affine) Then(child Affine) Affine {
	return Affine{
		Scale:  a.Scale.Mul(child.Scale),
		Offset: a.Apply(child.Offset),
	}
}

// Triangle maps every corner of t. A mirroring scale would flip the winding, so two corners are
// swapped to keep the front face outward.
func (a Affine) Triangle(t Triangle) Triangle {
	out := Triangle{A: a.Apply(t.A), B: a.Apply(t.B), C: a.Apply(t.C)}
	if a.Scale.X*a.Scale.Y*a.Scale.Z < 0 {
		out.B, out.C = out.C, out.B
	}
	return out
}

// AABB maps a box. Negative scales swap corners, so the result is rebuilt from both.
func (a Affine) AABB(b AABB) AABB {
	if !b.Valid() {
		return b
	}
	return EmptyAABB().Extend(a.Apply(b.Min)).Extend(a.Apply(b.Max))
}
