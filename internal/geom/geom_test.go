package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3_Normalize(t *testing.T) {
	n, ok := V(3, 0, 4).Normalize()
	assert.True(t, ok)
	assert.InDelta(t, 1, n.Len(), 1e-6)
	assert.InDelta(t, 0.6, n.X, 1e-6)

	_, ok = Zero.Normalize()
	assert.False(t, ok, "zero vector has no direction")

	_, ok = V(math32.NaN(), 0, 0).Normalize()
	assert.False(t, ok)
}

func TestVec3_Clamp(t *testing.T) {
	got := V(-30, 5, 40).Clamp(V(-20, 0, -20), V(20, 10, 20))
	assert.Equal(t, V(-20, 5, 20), got)
}

func TestVec3_Yaw(t *testing.T) {
	assert.InDelta(t, 0, Forward.Yaw(), 1e-6)
	assert.InDelta(t, math32.Pi/2, V(1, 0, 0).Yaw(), 1e-6)
	assert.Equal(t, float32(0), Up.Yaw())
}

func TestAABB_IntersectRay(t *testing.T) {
	box := AABB{Min: V(1, -1, -1), Max: V(2, 1, 1)}
	cases := []struct {
		name    string
		ray     Ray
		maxDist float32
		hit     bool
		dist    float32
	}{
		{"straight hit", Ray{Origin: Zero, Dir: V(1, 0, 0)}, 10, true, 1},
		{"out of range", Ray{Origin: Zero, Dir: V(1, 0, 0)}, 0.5, false, 0},
		{"pointing away", Ray{Origin: Zero, Dir: V(-1, 0, 0)}, 10, false, 0},
		{"parallel outside", Ray{Origin: V(0, 2, 0), Dir: V(1, 0, 0)}, 10, false, 0},
		{"inside", Ray{Origin: V(1.5, 0, 0), Dir: V(0, 0, 1)}, 10, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := box.IntersectRay(tc.ray, tc.maxDist)
			assert.Equal(t, tc.hit, ok)
			if tc.hit {
				assert.InDelta(t, tc.dist, d, 1e-6)
			}
		})
	}
}

func TestTriangle_IntersectRay(t *testing.T) {
	tri := Triangle{A: V(-1, 0, -1), B: V(1, 0, -1), C: V(0, 0, 1)}
	down := Ray{Origin: V(0, 2, 0), Dir: V(0, -1, 0)}

	d, ok := tri.IntersectRay(down, 10)
	assert.True(t, ok)
	assert.InDelta(t, 2, d, 1e-6)
	assert.True(t, down.At(d).ApproxEqual(Zero, 1e-6))

	_, ok = tri.IntersectRay(down, 1.5)
	assert.False(t, ok, "hit beyond range")

	up := Ray{Origin: V(0, -2, 0), Dir: V(0, 1, 0)}
	_, ok = tri.IntersectRay(up, 10)
	assert.True(t, ok, "back face counts")

	miss := Ray{Origin: V(5, 2, 0), Dir: V(0, -1, 0)}
	_, ok = tri.IntersectRay(miss, 10)
	assert.False(t, ok)

	grazing := Ray{Origin: V(0, 0.5, 0), Dir: V(1, 0, 0)}
	_, ok = tri.IntersectRay(grazing, 10)
	assert.False(t, ok, "parallel ray")
}

func TestTriangle_IntersectRayFront(t *testing.T) {
	// Counter-clockwise seen from above, so the front face points up.
	tri := Triangle{A: V(-1, 0, 1), B: V(1, 0, 1), C: V(0, 0, -1)}
	require.Greater(t, tri.Normal().Y, float32(0))

	down := Ray{Origin: V(0, 2, 0), Dir: V(0, -1, 0)}
	d, ok := tri.IntersectRayFront(down, 10)
	assert.True(t, ok)
	assert.InDelta(t, 2, d, 1e-6)

	up := Ray{Origin: V(0, -2, 0), Dir: V(0, 1, 0)}
	_, ok = tri.IntersectRayFront(up, 10)
	assert.False(t, ok, "back face is culled")
	_, ok = tri.IntersectRay(up, 10)
	assert.True(t, ok, "two-sided test still hits")
}

func TestAffine_TriangleKeepsWinding(t *testing.T) {
	tri := Triangle{A: V(-1, 0, 1), B: V(1, 0, 1), C: V(0, 0, -1)}
	mirror := Affine{Scale: V(-1, 1, 1), Offset: V(3, 0, 0)}
	out := mirror.Triangle(tri)
	assert.Greater(t, out.Normal().Y, float32(0))

	down := Ray{Origin: V(3, 2, 0), Dir: V(0, -1, 0)}
	_, ok := out.IntersectRayFront(down, 10)
	assert.True(t, ok)
}

func TestAffine_Then(t *testing.T) {
	parent := Affine{Scale: V(2, 2, 2), Offset: V(10, 0, 0)}
	child := Affine{Scale: V(0.5, 1, 1), Offset: V(1, 1, 1)}
	p := V(1, 1, 1)
	want := parent.Apply(child.Apply(p))
	assert.True(t, parent.Then(child).Apply(p).ApproxEqual(want, 1e-6))
}

func TestAffine_AABBNegativeScale(t *testing.T) {
	a := Affine{Scale: V(-1, 1, 1)}
	b := a.AABB(AABB{Min: V(1, 0, 0), Max: V(2, 1, 1)})
	assert.Equal(t, V(-2, 0, 0), b.Min)
	assert.Equal(t, V(-1, 1, 1), b.Max)
}
