package assets

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/ErikKalkoken/go-set"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

// IsModel reports whether path names a glTF environment rather than a YAML one.
func IsModel(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return true
	}
	return false
}

// LoadGLTF reads the default scene of a glTF/GLB file into a graph that keeps the file's node
// names and hierarchy. Mesh geometry is baked into world space on the node that owns it, so every
// node carries an identity transform; drawing the file is left to the renderer.
func LoadGLTF(path string, log *slog.Logger) (*scenegraph.Node, error) {
	if log == nil {
		log = slog.Default()
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
	}
	l := &gltfLoader{doc: doc, log: log}
	root := scenegraph.NewGroup(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, i := range l.rootNodes() {
		n, err := l.node(i, identity4())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, path, err)
		}
		root.Add(n)
	}
	log.Info("environment loaded", "path", path, "nodes", root.Count(), "meshes", l.meshes)
	return root, nil
}

type gltfLoader struct {
	doc    *gltf.Document
	log    *slog.Logger
	seen   set.Set[int]
	meshes int
}

// rootNodes are the default scene's nodes. Files without scenes fall back to every node that is
// nobody's child.
func (l *gltfLoader) rootNodes() []int {
	doc := l.doc
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = int(*doc.Scene)
		}
		out := make([]int, 0, len(doc.Scenes[s].Nodes))
		for _, i := range doc.Scenes[s].Nodes {
			out = append(out, int(i))
		}
		return out
	}
	var children set.Set[int]
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			children.Add(int(c))
		}
	}
	var out []int
	for i := range doc.Nodes {
		if !children.Contains(i) {
			out = append(out, i)
		}
	}
	return out
}

func (l *gltfLoader) node(i int, parent mat4) (*scenegraph.Node, error) {
	if i < 0 || i >= len(l.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", i)
	}
	if l.seen.Contains(i) {
		return nil, fmt.Errorf("node %d is reached twice", i)
	}
	l.seen.Add(i)

	src := l.doc.Nodes[i]
	world := parent.mul(localMatrix(src))
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node%d", i)
	}
	out := scenegraph.NewGroup(name)
	if src.Mesh != nil {
		m, err := l.mesh(int(*src.Mesh), world)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		out.Mesh = m
		l.meshes++
	}
	for _, c := range src.Children {
		child, err := l.node(int(c), world)
		if err != nil {
			return nil, err
		}
		out.Add(child)
	}
	return out, nil
}

// mesh merges the triangle primitives of a glTF mesh, transformed by world.
func (l *gltfLoader) mesh(i int, world mat4) (*scenegraph.Mesh, error) {
	doc := l.doc
	if i < 0 || i >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", i)
	}
	flip := world.mirrors()
	var verts []float32
	var indices []uint32
	for pi, p := range doc.Meshes[i].Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			l.log.Debug("skipping non-triangle primitive", "mesh", doc.Meshes[i].Name, "primitive", pi)
			continue
		}
		acr, ok := p.Attributes[gltf.POSITION]
		if !ok || int(acr) >= len(doc.Accessors) {
			return nil, fmt.Errorf("mesh %d primitive %d: no positions", i, pi)
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[acr], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", i, pi, err)
		}
		var idx []uint32
		if p.Indices != nil {
			if int(*p.Indices) >= len(doc.Accessors) {
				return nil, fmt.Errorf("mesh %d primitive %d: indices out of range", i, pi)
			}
			if idx, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", i, pi, err)
			}
		} else {
			idx = make([]uint32, len(pos)-len(pos)%3)
			for k := range idx {
				idx[k] = uint32(k)
			}
		}
		if len(idx)%3 != 0 {
			return nil, fmt.Errorf("mesh %d primitive %d: %d indices do not form triangles", i, pi, len(idx))
		}

		base := uint32(len(verts) / 3)
		for _, v := range pos {
			w := world.apply(v)
			verts = append(verts, w.X, w.Y, w.Z)
		}
		for k := 0; k < len(idx); k += 3 {
			a, b, c := idx[k], idx[k+1], idx[k+2]
			if flip {
				b, c = c, b
			}
			indices = append(indices, base+a, base+b, base+c)
		}
	}
	if len(indices) == 0 {
		return scenegraph.NewMesh(nil), nil
	}
	return scenegraph.MeshFromBuffers(verts, indices)
}

// mat4 is a column-major 4x4 matrix, laid out as glTF stores node matrices.
type mat4 [16]float64

func identity4() mat4 {
	return mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

func (a mat4) mul(b mat4) mat4 {
	var out mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = s
		}
	}
	return out
}

func (a mat4) apply(p [3]float32) geom.Vec3 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return geom.V(
		float32(a[0]*x+a[4]*y+a[8]*z+a[12]),
		float32(a[1]*x+a[5]*y+a[9]*z+a[13]),
		float32(a[2]*x+a[6]*y+a[10]*z+a[14]),
	)
}

// mirrors is true when the linear part has a negative determinant.
func (a mat4) mirrors() bool {
	det := a[0]*(a[5]*a[10]-a[9]*a[6]) -
		a[4]*(a[1]*a[10]-a[9]*a[2]) +
		a[8]*(a[1]*a[6]-a[5]*a[2])
	return det < 0
}

// localMatrix is the node's matrix when one is given, otherwise T*R*S. Unset fields read as the
// glTF defaults.
func localMatrix(n *gltf.Node) mat4 {
	var m mat4
	for i := range m {
		m[i] = float64(n.Matrix[i])
	}
	if m != (mat4{}) && m != identity4() {
		return m
	}

	t := [3]float64{float64(n.Translation[0]), float64(n.Translation[1]), float64(n.Translation[2])}
	s := [3]float64{float64(n.Scale[0]), float64(n.Scale[1]), float64(n.Scale[2])}
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	x, y, z, w := float64(n.Rotation[0]), float64(n.Rotation[1]), float64(n.Rotation[2]), float64(n.Rotation[3])
	if l := math.Sqrt(x*x + y*y + z*z + w*w); l > 0 {
		x, y, z, w = x/l, y/l, z/l, w/l
	} else {
		w = 1
	}
	r := [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
	m = identity4()
	for c := 0; c < 3; c++ {
		for row := 0; row < 3; row++ {
			m[c*4+row] = r[row][c] * s[c]
		}
	}
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}
