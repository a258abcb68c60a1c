// Package mapgen builds procedural environments: a ground plane with noise-placed obstacle cubes.
// It stands in for an authored environment file when none is configured.
package mapgen

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

// ObstacleFieldOptions controls obstacle field generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// A tile gets an obstacle when its noise sample exceeds 1-Density. HeightScale is the tallest obstacle.
// Tiles within ClearRadius of Clear stay empty so the character never spawns inside a cube.
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type ObstacleFieldOptions struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32
	Density     float32
	Tag         string

	Clear       geom.Vec3
	ClearRadius float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultObstacleFieldOptions returns a field that fits the default navigation bounds.
func DefaultObstacleFieldOptions() ObstacleFieldOptions {
	return ObstacleFieldOptions{
		Width:       20,
		Depth:       20,
		TileSize:    2.0,
		HeightScale: 2.0,
		Density:     0.25,
		Tag:         "Cube",
		Clear:       geom.V(-1, 0, -1),
		ClearRadius: 3,
		Seed:        0,
		Octaves:     4,
		Frequency:   0.3,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

func (o *ObstacleFieldOptions) sanitize() {
	if o.TileSize <= 0 {
		o.TileSize = 1
	}
	if o.HeightScale <= 0 {
		o.HeightScale = 1
	}
	if o.Density < 0 {
		o.Density = 0
	}
	if o.Density > 1 {
		o.Density = 1
	}
	if o.Tag == "" {
		o.Tag = "Cube"
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = 2.0
	}
	if o.Gain <= 0 {
		o.Gain = 0.5
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// GenerateObstacleField returns a group holding a "Ground" plane centered on the origin and one cube
// per selected tile, named "<Tag>.NNN" so the collision index picks them up. Cubes sit on Y=0.
func GenerateObstacleField(opts ObstacleFieldOptions) (*scenegraph.Node, error) {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil, fmt.Errorf("mapgen: invalid size %dx%d", opts.Width, opts.Depth)
	}
	opts.sanitize()

	widthWorld := float32(opts.Width) * opts.TileSize
	depthWorld := float32(opts.Depth) * opts.TileSize
	ground, err := scenegraph.NewPrimitive("Ground", scenegraph.Plane, geom.Zero, geom.V(widthWorld, 1, depthWorld))
	if err != nil {
		return nil, err
	}
	root := scenegraph.NewGroup("ObstacleField", ground)

	// First tile center is at (-extentX + halfTile, -extentZ + halfTile).
	halfTile := opts.TileSize * 0.5
	startX := -widthWorld*0.5 + halfTile
	startZ := -depthWorld*0.5 + halfTile
	threshold := 1 - opts.Density
	minHeight := min(float32(0.5), opts.HeightScale)

	var count int
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			cx := startX + float32(x)*opts.TileSize
			cz := startZ + float32(z)*opts.TileSize
			if geom.V(cx, 0, cz).Dist(geom.V(opts.Clear.X, 0, opts.Clear.Z)) < opts.ClearRadius {
				continue
			}
			n := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if !isFinite(n) || n <= threshold {
				continue
			}
			// Map the part of the sample above threshold to [minHeight, HeightScale].
			h := minHeight
			if threshold < 1 {
				h += (n - threshold) / (1 - threshold) * (opts.HeightScale - minHeight)
			}
			count++
			name := fmt.Sprintf("%s.%03d", opts.Tag, count)
			cube, err := scenegraph.NewPrimitive(name, scenegraph.Cube, geom.V(cx, h*0.5, cz), geom.V(opts.TileSize*0.8, h, opts.TileSize*0.8))
			if err != nil {
				return nil, err
			}
			root.Add(cube)
		}
	}
	return root, nil
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] over a hashed integer lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	sx := smoothStep(x - float32(x0))
	sy := smoothStep(y - float32(y0))

	ix0 := lerp(hash2D(x0, y0, seed), hash2D(x0+1, y0, seed), sx)
	ix1 := lerp(hash2D(x0, y0+1, seed), hash2D(x0+1, y0+1, seed), sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
