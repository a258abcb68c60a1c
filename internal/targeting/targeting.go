// Package targeting turns a click on the viewport into a world-space destination by casting a ray
// from the active viewpoint against every surface of the environment.
package targeting

import (
	"log/slog"
	"sync/atomic"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
	"navigator/internal/session"
)

// DefaultMaxDistance bounds click rays.
const DefaultMaxDistance = 1000

// Viewpoint produces world rays through normalized device coordinates.
type Viewpoint interface {
	Ray(ndcX, ndcY float32) geom.Ray
}

// NDC converts a pixel position in a width x height viewport to normalized device coordinates:
// x grows right, y grows up, both span [-1, 1].
func NDC(px, py, width, height float32) (x, y float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return px/width*2 - 1, -(py/height*2 - 1)
}

// Targeter picks destinations. Until an environment is installed every click misses.
type Targeter struct {
	env     atomic.Pointer[scenegraph.Node]
	maxDist float32
	log     *slog.Logger
}

// New returns a targeter casting rays up to maxDist; maxDist <= 0 uses DefaultMaxDistance.
func New(maxDist float32, log *slog.Logger) *Targeter {
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}
	if log == nil {
		log = slog.Default()
	}
	return &Targeter{maxDist: maxDist, log: log}
}

// SetEnvironment installs the graph clicks are tested against.
func (t *Targeter) SetEnvironment(root *scenegraph.Node) {
	t.env.Store(root)
}

// Pick returns the nearest environment surface under the given NDC position.
func (t *Targeter) Pick(view Viewpoint, ndcX, ndcY float32) (scenegraph.Hit, bool) {
	root := t.env.Load()
	if root == nil {
		return scenegraph.Hit{}, false
	}
	r := view.Ray(ndcX, ndcY)
	if _, ok := r.Dir.Normalize(); !ok {
		return scenegraph.Hit{}, false
	}
	return root.Raycast(r, t.maxDist)
}

// Click handles one pointer click at pixel (px, py) in a width x height viewport. On a hit the
// session destination is replaced by the hit point; a miss leaves the previous destination in place.
func (t *Targeter) Click(s *session.Session, view Viewpoint, px, py, width, height float32) (geom.Vec3, bool) {
	x, y := NDC(px, py, width, height)
	hit, ok := t.Pick(view, x, y)
	if !ok {
		t.log.Debug("click missed the environment", "x", px, "y", py)
		return geom.Zero, false
	}
	s.SetDestination(hit.Point)
	t.log.Debug("destination set", "point", hit.Point, "node", hit.Node.Name)
	return hit.Point, true
}
