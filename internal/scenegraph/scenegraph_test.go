package scenegraph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/geom"
)

const courtyard = `
name: Courtyard
nodes:
  - name: Ground
    type: plane
    scale: [40, 1, 40]
  - name: Props
    position: [3, 0, 0]
    children:
      - name: Cube.001
        type: cube
        position: [0, 0.5, 0]
      - name: Barrel
        type: cylinder
        position: [0, 0.5, 3]
`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(courtyard))
	require.NoError(t, err)
	assert.Equal(t, "Courtyard", root.Name)
	assert.Equal(t, 5, root.Count())

	cube := root.Find("Cube.001")
	require.NotNil(t, cube)
	assert.Equal(t, Cube, cube.Kind)
	assert.Len(t, cube.Mesh.Triangles, 12)
	assert.Nil(t, root.Find("missing"))
}

func TestParse_UnknownPrimitive(t *testing.T) {
	_, err := Parse([]byte("nodes:\n  - name: X\n    type: torus\n"))
	assert.ErrorIs(t, err, ErrUnknownPrimitive)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("nodes: ["))
	assert.Error(t, err)
}

func TestSaveAndLoadFile(t *testing.T) {
	def := EnvironmentDef{Nodes: []NodeDef{{Name: "Ground", Type: Plane, Scale: [3]float32{10, 1, 10}}}}
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, def.Save(path))

	root, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Environment", root.Name)
	assert.NotNil(t, root.Find("Ground"))
}

func TestPrimitiveBounds(t *testing.T) {
	for _, kind := range []string{Cube, Sphere, Cylinder} {
		t.Run(kind, func(t *testing.T) {
			m, err := Primitive(kind)
			require.NoError(t, err)
			assert.True(t, m.Bounds.Min.ApproxEqual(geom.V(-0.5, -0.5, -0.5), 1e-5))
			assert.True(t, m.Bounds.Max.ApproxEqual(geom.V(0.5, 0.5, 0.5), 1e-5))
		})
	}
	m, err := Primitive(Plane)
	require.NoError(t, err)
	assert.Equal(t, float32(0), m.Bounds.Min.Y)
	assert.Equal(t, float32(0), m.Bounds.Max.Y)
}

func TestRaycast_Nearest(t *testing.T) {
	root, err := Parse([]byte(courtyard))
	require.NoError(t, err)

	// Straight down onto the cube top: the cube (y=1) is nearer than the ground (y=0).
	hit, ok := root.Raycast(geom.Ray{Origin: geom.V(3, 5, 0), Dir: geom.V(0, -1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, "Cube.001", hit.Node.Name)
	assert.True(t, hit.Point.ApproxEqual(geom.V(3, 1, 0), 1e-5))

	hit, ok = root.Raycast(geom.Ray{Origin: geom.V(-5, 5, -5), Dir: geom.V(0, -1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, "Ground", hit.Node.Name)
	assert.InDelta(t, 5, hit.Distance, 1e-5)

	_, ok = root.Raycast(geom.Ray{Origin: geom.V(0, 5, 0), Dir: geom.V(0, 1, 0)}, 100)
	assert.False(t, ok, "nothing above")
}

func TestBake(t *testing.T) {
	root, err := Parse([]byte(courtyard))
	require.NoError(t, err)
	props := root.Find("Props")
	m := props.Bake(geom.Identity())
	assert.Len(t, m.Triangles, 12+cylinderSlices*4)
	assert.InDelta(t, 2.5, m.Bounds.Min.X, 1e-5)
}

func TestPrimitive_OutwardWinding(t *testing.T) {
	for _, kind := range []string{Cube, Sphere, Cylinder} {
		m, err := Primitive(kind)
		require.NoError(t, err)
		for i, tri := range m.Triangles {
			n := tri.Normal()
			if n.Dot(n) < 1e-12 {
				continue // collapsed at a pole
			}
			centroid := tri.A.Add(tri.B).Add(tri.C).Scale(1.0 / 3)
			require.Greater(t, n.Dot(centroid), float32(0), "%s triangle %d faces inward", kind, i)
		}
	}
}

func TestMeshFromBuffers(t *testing.T) {
	verts := []float32{0, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 1}

	m, err := MeshFromBuffers(verts[:9], nil)
	require.NoError(t, err)
	assert.Len(t, m.Triangles, 1)

	m, err = MeshFromBuffers(verts, []uint32{0, 1, 2, 1, 3, 2})
	require.NoError(t, err)
	require.Len(t, m.Triangles, 2)
	assert.Equal(t, geom.V(1, 0, 1), m.Triangles[1].B)
	assert.Equal(t, geom.V(1, 0, 1), m.Bounds.Max)

	_, err = MeshFromBuffers(verts[:4], nil)
	assert.Error(t, err)
	_, err = MeshFromBuffers(verts, []uint32{0, 1, 9})
	assert.Error(t, err)
	_, err = MeshFromBuffers(verts, []uint32{0, 1})
	assert.Error(t, err)
}
