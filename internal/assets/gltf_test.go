package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/collision"
	"navigator/internal/engineconfig"
	"navigator/internal/geom"
)

// testdata/map.glb: Ground (10x10 quad), Obstacles (translated +1 on Z) holding Cube.001 and a
// Cube.002 turned 90 degrees about Y and stretched 2x on its own X, and a mesh-less Lamp.
const mapGLB = "testdata/map.glb"

func TestIsModel(t *testing.T) {
	assert.True(t, IsModel("assets/map.glb"))
	assert.True(t, IsModel("scene.GLTF"))
	assert.False(t, IsModel("assets/env/courtyard.yaml"))
	assert.False(t, IsModel(""))
}

func TestLoadGLTF_KeepsNodeNames(t *testing.T) {
	root, err := LoadGLTF(mapGLB, nil)
	require.NoError(t, err)
	assert.Equal(t, "map", root.Name)

	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ground", "Obstacles", "Lamp"}, names)

	group := root.Find("Obstacles")
	require.NotNil(t, group)
	assert.Nil(t, group.Mesh)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "Cube.001", group.Children[0].Name)
	assert.Nil(t, root.Find("Lamp").Mesh)
}

func TestLoadGLTF_WorldSpaceGeometry(t *testing.T) {
	root, err := LoadGLTF(mapGLB, nil)
	require.NoError(t, err)

	cases := []struct {
		name     string
		min, max geom.Vec3
		tris     int
	}{
		{"Ground", geom.V(-5, 0, -5), geom.V(5, 0, 5), 2},
		{"Cube.001", geom.V(1.5, 0, 0.5), geom.V(2.5, 1, 1.5), 12},
		{"Cube.002", geom.V(-2.5, 0, 0), geom.V(-1.5, 1, 2), 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := root.Find(tc.name)
			require.NotNil(t, n)
			require.NotNil(t, n.Mesh)
			assert.Len(t, n.Mesh.Triangles, tc.tris)
			assert.True(t, n.Mesh.Bounds.Min.ApproxEqual(tc.min, 1e-5), "min %v", n.Mesh.Bounds.Min)
			assert.True(t, n.Mesh.Bounds.Max.ApproxEqual(tc.max, 1e-5), "max %v", n.Mesh.Bounds.Max)
		})
	}
}

func TestLoadGLTF_CubesAreCollidable(t *testing.T) {
	root, err := LoadGLTF(mapGLB, nil)
	require.NoError(t, err)

	ix := collision.Build(root, "Cube", nil)
	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Contains("Cube.001"))
	assert.True(t, ix.Contains("Cube.002"))
	assert.False(t, ix.Contains("Ground"))

	hit, blocked, err := ix.Query(geom.V(0, 0.5, 1), geom.V(1, 0, 0), 2)
	require.NoError(t, err)
	require.True(t, blocked)
	assert.Equal(t, "Cube.001", hit.Name)
	assert.InDelta(t, 1.5, hit.Distance, 1e-5)

	hit, blocked, err = ix.Query(geom.V(0, 0.5, 1), geom.V(-1, 0, 0), 2)
	require.NoError(t, err)
	require.True(t, blocked, "rotated cube keeps outward faces")
	assert.Equal(t, "Cube.002", hit.Name)

	assert.False(t, ix.Blocked(geom.V(0, 0.5, -3), geom.V(1, 0, 0), 2), "ground is not collidable")
}

func TestLoadGLTF_ClicksLandOnGround(t *testing.T) {
	root, err := LoadGLTF(mapGLB, nil)
	require.NoError(t, err)
	hit, ok := root.Raycast(geom.Ray{Origin: geom.V(0, 5, -3), Dir: geom.V(0, -1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, "Ground", hit.Node.Name)
	assert.True(t, hit.Point.ApproxEqual(geom.V(0, 0, -3), 1e-5))
}

func TestLoadEnvironment_GLB(t *testing.T) {
	root, err := LoadEnvironment(engineconfig.Assets{Environment: mapGLB, CollidableTag: "Cube"}, geom.Zero, nil)
	require.NoError(t, err)
	assert.NotNil(t, root.Find("Cube.001"))
}

func TestLoadGLTF_Failures(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadGLTF(filepath.Join(dir, "missing.glb"), nil)
	assert.ErrorIs(t, err, ErrAssetLoad)

	bad := filepath.Join(dir, "bad.glb")
	require.NoError(t, os.WriteFile(bad, []byte("not a model"), 0644))
	_, err = LoadGLTF(bad, nil)
	assert.ErrorIs(t, err, ErrAssetLoad)
	_, err = LoadEnvironment(engineconfig.Assets{Environment: bad}, geom.Zero, nil)
	assert.ErrorIs(t, err, ErrAssetLoad)
}
