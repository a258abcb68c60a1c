// Package scenegraph is the read-only environment the navigator works against: named nodes with a
// translate+scale transform, optional triangle geometry, and children. Nodes are built once when an
// environment finishes loading and never mutated afterwards.
package scenegraph

import (
	"math"

	"navigator/internal/geom"
)

// Node is one element of the environment hierarchy.
// Kind is the primitive type the renderer draws for this node; empty for groups and imported meshes.
type Node struct {
	Name     string
	Kind     string
	Position geom.Vec3
	Scale    geom.Vec3 // zero components are treated as 1
	Mesh     *Mesh
	Children []*Node
}

// NewGroup returns a node with no geometry.
func NewGroup(name string, children ...*Node) *Node {
	return &Node{Name: name, Scale: geom.V(1, 1, 1), Children: children}
}

// NewPrimitive returns a node carrying the unit mesh for kind, placed at position with scale.
func NewPrimitive(name, kind string, position, scale geom.Vec3) (*Node, error) {
	m, err := Primitive(kind)
	if err != nil {
		return nil, err
	}
	return &Node{Name: name, Kind: kind, Position: position, Scale: scale, Mesh: m}, nil
}

// Add appends children.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Local returns the node transform relative to its parent.
func (n *Node) Local() geom.Affine {
	s := n.Scale
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	if s.Z == 0 {
		s.Z = 1
	}
	return geom.Affine{Scale: s, Offset: n.Position}
}

// Walk visits n and its descendants depth-first, parents before children, passing each node's
// world transform. parent is the transform of n's parent; use geom.Identity() for a root.
func (n *Node) Walk(parent geom.Affine, fn func(node *Node, world geom.Affine)) {
	if n == nil {
		return
	}
	world := parent.Then(n.Local())
	fn(n, world)
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}

// Find returns the first node named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(geom.Identity(), func(node *Node, _ geom.Affine) {
		if found == nil && node.Name == name {
			found = node
		}
	})
	return found
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	var c int
	n.Walk(geom.Identity(), func(*Node, geom.Affine) { c++ })
	return c
}

// Bake flattens the geometry of n and all its descendants into one world-space mesh.
func (n *Node) Bake(parent geom.Affine) *Mesh {
	var tris []geom.Triangle
	n.Walk(parent, func(node *Node, world geom.Affine) {
		if node.Mesh == nil {
			return
		}
		for _, t := range node.Mesh.Triangles {
			tris = append(tris, world.Triangle(t))
		}
	})
	return NewMesh(tris)
}

// Hit is a ray intersection with scene geometry.
type Hit struct {
	Node     *Node
	Point    geom.Vec3
	Distance float32
}

// Raycast returns the nearest intersection of r with any geometry in the subtree rooted at n,
// within maxDist. r.Dir must be unit length.
func (n *Node) Raycast(r geom.Ray, maxDist float32) (Hit, bool) {
	best := Hit{Distance: float32(math.Inf(1))}
	var found bool
	n.Walk(geom.Identity(), func(node *Node, world geom.Affine) {
		if node.Mesh == nil {
			return
		}
		if d, ok := world.AABB(node.Mesh.Bounds).IntersectRay(r, min(maxDist, best.Distance)); !ok || d > best.Distance {
			return
		}
		for _, t := range node.Mesh.Triangles {
			d, ok := world.Triangle(t).IntersectRay(r, maxDist)
			if ok && d < best.Distance {
				best = Hit{Node: node, Point: r.At(d), Distance: d}
				found = true
			}
		}
	})
	return best, found
}
