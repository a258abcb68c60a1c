package scenegraph

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"navigator/internal/geom"
)

// ErrUnknownPrimitive is returned when an environment names a primitive type we cannot build.
var ErrUnknownPrimitive = errors.New("unknown primitive type")

// Primitive type names accepted in environment files. They match what the renderer can draw.
const (
	Cube     = "cube"
	Sphere   = "sphere"
	Cylinder = "cylinder"
	Plane    = "plane"
)

// Sphere and cylinder tessellation, kept in step with the render meshes.
const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 16
)

// Mesh is local-space triangle geometry with a cached bounding box.
type Mesh struct {
	Triangles []geom.Triangle
	Bounds    geom.AABB
}

// NewMesh computes the bounds of tris.
func NewMesh(tris []geom.Triangle) *Mesh {
	b := geom.EmptyAABB()
	for _, t := range tris {
		b = b.Union(t.Bounds())
	}
	return &Mesh{Triangles: tris, Bounds: b}
}

// Primitive builds the unit mesh for a primitive type: every primitive fits a 1x1x1 box
// centered on the origin, except plane which is a 1x1 quad on Y=0. Faces wind counter-clockwise
// seen from outside.
func Primitive(kind string) (*Mesh, error) {
	switch kind {
	case Cube:
		return cubeMesh(), nil
	case Sphere:
		return sphereMesh(sphereRings, sphereSlices), nil
	case Cylinder:
		return cylinderMesh(cylinderSlices), nil
	case Plane:
		return planeMesh(), nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownPrimitive)
	}
}

func quad(a, b, c, d geom.Vec3) []geom.Triangle {
	return []geom.Triangle{{A: a, B: b, C: c}, {A: a, B: c, C: d}}
}

func cubeMesh() *Mesh {
	const h = 0.5
	p := func(x, y, z float32) geom.Vec3 { return geom.V(x*h, y*h, z*h) }
	var tris []geom.Triangle
	tris = append(tris, quad(p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1))...)     // +Z
	tris = append(tris, quad(p(1, -1, -1), p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1))...) // -Z
	tris = append(tris, quad(p(1, -1, 1), p(1, -1, -1), p(1, 1, -1), p(1, 1, 1))...)     // +X
	tris = append(tris, quad(p(-1, -1, -1), p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1))...) // -X
	tris = append(tris, quad(p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1), p(-1, 1, -1))...)     // +Y
	tris = append(tris, quad(p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1), p(-1, -1, 1))...) // -Y
	return NewMesh(tris)
}

func planeMesh() *Mesh {
	const h = 0.5
	return NewMesh(quad(geom.V(-h, 0, h), geom.V(h, 0, h), geom.V(h, 0, -h), geom.V(-h, 0, -h)))
}

func sphereMesh(rings, slices int) *Mesh {
	const r = 0.5
	point := func(ring, slice int) geom.Vec3 {
		theta := math32.Pi * float32(ring) / float32(rings)
		phi := 2 * math32.Pi * float32(slice) / float32(slices)
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		return geom.V(r*st*cp, r*ct, r*st*sp)
	}
	tris := make([]geom.Triangle, 0, rings*slices*2)
	for i := 0; i < rings; i++ {
		for j := 0; j < slices; j++ {
			tris = append(tris, quad(point(i, j), point(i, j+1), point(i+1, j+1), point(i+1, j))...)
		}
	}
	return NewMesh(tris)
}

// cylinderMesh is centered on the origin, unlike raylib's which sits on Y=0.
func cylinderMesh(slices int) *Mesh {
	const r, h = 0.5, 0.5
	rim := func(i int, y float32) geom.Vec3 {
		a := 2 * math32.Pi * float32(i) / float32(slices)
		s, c := math32.Sincos(a)
		return geom.V(r*c, y, r*s)
	}
	top := geom.V(0, h, 0)
	bottom := geom.V(0, -h, 0)
	tris := make([]geom.Triangle, 0, slices*4)
	for i := 0; i < slices; i++ {
		tris = append(tris, quad(rim(i, -h), rim(i, h), rim(i+1, h), rim(i+1, -h))...)
		tris = append(tris, geom.Triangle{A: top, B: rim(i+1, h), C: rim(i, h)})
		tris = append(tris, geom.Triangle{A: bottom, B: rim(i, -h), C: rim(i+1, -h)})
	}
	return NewMesh(tris)
}

// MeshFromBuffers builds a mesh from packed XYZ vertex positions and optional triangle indices, as
// glTF buffers store them. Without indices every three vertices form a triangle.
func MeshFromBuffers(vertices []float32, indices []uint32) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(vertices))
	}
	n := len(vertices) / 3
	at := func(i int) geom.Vec3 {
		return geom.V(vertices[3*i], vertices[3*i+1], vertices[3*i+2])
	}
	var tris []geom.Triangle
	if len(indices) == 0 {
		tris = make([]geom.Triangle, 0, n/3)
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, geom.Triangle{A: at(i), B: at(i + 1), C: at(i + 2)})
		}
		return NewMesh(tris), nil
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index buffer length %d is not a multiple of 3", len(indices))
	}
	tris = make([]geom.Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if a >= n || b >= n || c >= n {
			return nil, fmt.Errorf("index out of range at triangle %d", i/3)
		}
		tris = append(tris, geom.Triangle{A: at(a), B: at(b), C: at(c)})
	}
	return NewMesh(tris), nil
}
