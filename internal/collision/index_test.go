package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

func newEnv(t *testing.T) *scenegraph.Node {
	t.Helper()
	ground, err := scenegraph.NewPrimitive("Ground", scenegraph.Plane, geom.Zero, geom.V(40, 1, 40))
	require.NoError(t, err)
	// Cube spanning x in [0.9, 1.1] on the +X axis.
	wall, err := scenegraph.NewPrimitive("Cube.001", scenegraph.Cube, geom.V(1, 0.5, 0), geom.V(0.2, 1, 2))
	require.NoError(t, err)
	// Sub-geometry under a tagged parent offset along +Z.
	crate, err := scenegraph.NewPrimitive("Cube.Lid", scenegraph.Cube, geom.V(0, 0, 0), geom.V(1, 1, 1))
	require.NoError(t, err)
	stack, err := scenegraph.NewPrimitive("CubeStack", scenegraph.Cube, geom.V(0, 0.5, 3), geom.V(0.2, 0.2, 0.2))
	require.NoError(t, err)
	crate.Position = geom.V(0, 0, -4) // local, scaled by the parent's 0.2: world z = 3 - 0.8
	stack.Add(crate)
	return scenegraph.NewGroup("Env", ground, wall, stack)
}

func TestBuild_ExtractsByTag(t *testing.T) {
	ix := Build(newEnv(t), "Cube", nil)
	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Contains("Cube.001"))
	assert.True(t, ix.Contains("CubeStack"))
	assert.False(t, ix.Contains("Ground"))
	assert.False(t, ix.Contains("Cube.Lid"), "children ride along with their tagged parent")
}

func TestQuery(t *testing.T) {
	ix := Build(newEnv(t), "Cube", nil)
	cases := []struct {
		name    string
		origin  geom.Vec3
		dir     geom.Vec3
		rng     float32
		blocked bool
	}{
		{"wall within lookahead", geom.V(0.7, 0.5, 0), geom.V(1, 0, 0), 0.3, true},
		{"wall beyond lookahead", geom.V(0.5, 0.5, 0), geom.V(1, 0, 0), 0.3, false},
		{"facing away", geom.V(0.7, 0.5, 0), geom.V(-1, 0, 0), 0.3, false},
		{"unnormalized direction", geom.V(0.7, 0.5, 0), geom.V(5, 0, 0), 0.3, true},
		{"ground is not collidable", geom.V(-5, 0.1, -5), geom.V(0, -1, 0), 0.3, false},
		{"child geometry of tagged node", geom.V(0, 0.5, 1.9), geom.V(0, 0, 1), 0.3, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hit, blocked, err := ix.Query(tc.origin, tc.dir, tc.rng)
			require.NoError(t, err)
			assert.Equal(t, tc.blocked, blocked)
			if blocked {
				assert.LessOrEqual(t, hit.Distance, tc.rng)
				assert.NotEmpty(t, hit.Name)
			}
		})
	}
}

func TestQuery_FirstIntersectionPoint(t *testing.T) {
	ix := Build(newEnv(t), "Cube", nil)
	hit, blocked, err := ix.Query(geom.V(0.7, 0.5, 0), geom.V(1, 0, 0), 0.3)
	require.NoError(t, err)
	require.True(t, blocked)
	assert.Equal(t, "Cube.001", hit.Name)
	assert.True(t, hit.Point.ApproxEqual(geom.V(0.9, 0.5, 0), 1e-5))
}

func TestQuery_FromInsideObstacle(t *testing.T) {
	box, err := scenegraph.NewPrimitive("Cube.A", scenegraph.Cube, geom.Zero, geom.V(2, 2, 2))
	require.NoError(t, err)
	ix := Build(scenegraph.NewGroup("Env", box), "Cube", nil)
	require.Equal(t, 1, ix.Len())

	inside := geom.V(0, 0.5, 0)
	for _, dir := range []geom.Vec3{geom.V(1, 0, 0), geom.V(-1, 0, 0), geom.V(0, 0, 1), geom.V(0, 0, -1)} {
		assert.False(t, ix.Blocked(inside, dir, 5), "leaving along %v", dir)
	}
	assert.True(t, ix.Blocked(geom.V(-1.2, 0.5, 0), geom.V(1, 0, 0), 0.3), "approaching from outside")
}

func TestQuery_EmptyAndNil(t *testing.T) {
	var nilIndex *Index
	assert.False(t, nilIndex.Blocked(geom.Zero, geom.V(1, 0, 0), 10))
	assert.Equal(t, 0, nilIndex.Len())

	empty := Build(nil, "Cube", nil)
	assert.False(t, empty.Blocked(geom.Zero, geom.V(1, 0, 0), 10))

	untagged := Build(newEnv(t), "Rock", nil)
	assert.Equal(t, 0, untagged.Len())
	assert.False(t, untagged.Blocked(geom.V(0.7, 0.5, 0), geom.V(1, 0, 0), 0.3))
}

func TestQuery_Degenerate(t *testing.T) {
	ix := Build(newEnv(t), "Cube", nil)
	_, blocked, err := ix.Query(geom.Zero, geom.Zero, 0.3)
	assert.ErrorIs(t, err, ErrDegenerateQuery)
	assert.False(t, blocked)
	assert.False(t, ix.Blocked(geom.Zero, geom.Zero, 0.3))
}
