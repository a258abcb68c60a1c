package mapgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

func TestGenerateObstacleField_Deterministic(t *testing.T) {
	opts := DefaultObstacleFieldOptions()
	opts.Seed = 42
	a, err := GenerateObstacleField(opts)
	require.NoError(t, err)
	b, err := GenerateObstacleField(opts)
	require.NoError(t, err)
	assert.Equal(t, a.Count(), b.Count())
	assert.NotNil(t, a.Find("Ground"))
}

func TestGenerateObstacleField_ClearAreaAndNaming(t *testing.T) {
	opts := DefaultObstacleFieldOptions()
	opts.Seed = 7
	opts.Density = 1
	root, err := GenerateObstacleField(opts)
	require.NoError(t, err)

	var cubes int
	root.Walk(geom.Identity(), func(n *scenegraph.Node, world geom.Affine) {
		if n.Kind != scenegraph.Cube {
			return
		}
		cubes++
		assert.True(t, strings.HasPrefix(n.Name, "Cube."), n.Name)
		flat := geom.V(world.Offset.X, 0, world.Offset.Z)
		assert.GreaterOrEqual(t, flat.Dist(geom.V(-1, 0, -1)), opts.ClearRadius, n.Name)
	})
	assert.Greater(t, cubes, 0)
}

func TestGenerateObstacleField_ZeroDensity(t *testing.T) {
	opts := DefaultObstacleFieldOptions()
	opts.Seed = 3
	opts.Density = 0
	root, err := GenerateObstacleField(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, root.Count(), "group and ground only")
}

func TestGenerateObstacleField_InvalidSize(t *testing.T) {
	_, err := GenerateObstacleField(ObstacleFieldOptions{})
	assert.Error(t, err)
}

func TestFractalValueNoise2D_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := fractalValueNoise2D(float32(i)*0.37, float32(i)*0.11, 99, 4, 2, 0.5)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}
