// Package collision answers short-range obstruction queries against the collidable subset of an
// environment. The subset is extracted once, when the environment finishes loading.
package collision

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ErikKalkoken/go-set"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

// ErrDegenerateQuery is returned for a query whose direction has no length.
var ErrDegenerateQuery = errors.New("collision: zero-length query direction")

// collidable is one extracted node with its subtree geometry baked into world space.
type collidable struct {
	name string
	mesh *scenegraph.Mesh
}

// Index is the immutable collidable set plus the query over it.
// A nil *Index is valid and never reports an obstruction.
type Index struct {
	items []collidable
	names set.Set[string]
}

// Build walks root once and keeps every node with geometry whose name contains tag.
// Matched nodes take their whole subtree along; descendants of a matched node are not matched again.
func Build(root *scenegraph.Node, tag string, log *slog.Logger) *Index {
	ix := &Index{}
	if root == nil || tag == "" {
		return ix
	}
	var walk func(n *scenegraph.Node, parent geom.Affine)
	walk = func(n *scenegraph.Node, parent geom.Affine) {
		world := parent.Then(n.Local())
		if n.Mesh != nil && strings.Contains(n.Name, tag) {
			m := n.Bake(parent)
			if len(m.Triangles) > 0 {
				ix.items = append(ix.items, collidable{name: n.Name, mesh: m})
				ix.names.Add(n.Name)
			}
			return
		}
		for _, c := range n.Children {
			walk(c, world)
		}
	}
	walk(root, geom.Identity())
	if log != nil {
		log.Info("collision index built", "tag", tag, "collidables", len(ix.items))
	}
	return ix
}

// Len returns the number of collidables.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.items)
}

// Contains reports whether a node with this name was extracted.
func (ix *Index) Contains(name string) bool {
	if ix == nil {
		return false
	}
	return ix.names.Contains(name)
}

// Hit is the first obstruction found by Query.
type Hit struct {
	Name     string
	Point    geom.Vec3
	Distance float32
}

// Query casts from origin along dir for at most maxDist and reports whether anything collidable
// lies in the way. dir is normalized here; a zero direction yields ErrDegenerateQuery.
// Any hit blocks; the returned Hit is the nearest one. Only outward faces block, so a query that
// starts inside an obstacle can leave it.
func (ix *Index) Query(origin, dir geom.Vec3, maxDist float32) (Hit, bool, error) {
	n, ok := dir.Normalize()
	if !ok {
		return Hit{}, false, ErrDegenerateQuery
	}
	if ix == nil || len(ix.items) == 0 || maxDist <= 0 {
		return Hit{}, false, nil
	}
	r := geom.Ray{Origin: origin, Dir: n}
	var best Hit
	var blocked bool
	limit := maxDist
	for _, it := range ix.items {
		if _, ok := it.mesh.Bounds.IntersectRay(r, limit); !ok {
			continue
		}
		for _, t := range it.mesh.Triangles {
			d, ok := t.IntersectRayFront(r, limit)
			if !ok {
				continue
			}
			best = Hit{Name: it.name, Point: r.At(d), Distance: d}
			blocked = true
			limit = d
		}
	}
	return best, blocked, nil
}

// Blocked is Query without the hit details. Degenerate queries report not blocked.
func (ix *Index) Blocked(origin, dir geom.Vec3, maxDist float32) bool {
	_, blocked, err := ix.Query(origin, dir, maxDist)
	return err == nil && blocked
}
