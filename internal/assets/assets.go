// Package assets resolves the navigator's inputs: the environment graph (a glTF file, an authored
// YAML file or a generated obstacle field) and the character's clip table.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"navigator/internal/anim"
	"navigator/internal/engineconfig"
	"navigator/internal/geom"
	"navigator/internal/mapgen"
	"navigator/internal/scenegraph"
)

// ErrAssetLoad is wrapped by every failure to load the environment or the character. It is fatal
// to the viewport and never retried.
var ErrAssetLoad = errors.New("asset load failed")

// SampleRate is how many animation frames model loaders bake per time unit.
const SampleRate = 60

// Require checks that path names a readable regular file.
func Require(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no path given", ErrAssetLoad)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrAssetLoad, path)
	}
	return nil
}

// LoadEnvironment returns the environment graph. A configured environment file is parsed, as glTF
// when IsModel says so and as YAML otherwise; with no file an obstacle field is generated around
// spawn, tagged so its cubes are collidable.
func LoadEnvironment(a engineconfig.Assets, spawn geom.Vec3, log *slog.Logger) (*scenegraph.Node, error) {
	if log == nil {
		log = slog.Default()
	}
	if a.Environment != "" {
		if err := Require(a.Environment); err != nil {
			return nil, err
		}
		if IsModel(a.Environment) {
			return LoadGLTF(a.Environment, log)
		}
		root, err := scenegraph.LoadFile(a.Environment)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssetLoad, err)
		}
		log.Info("environment loaded", "path", a.Environment, "nodes", root.Count())
		return root, nil
	}
	opts := mapgen.DefaultObstacleFieldOptions()
	opts.Seed = a.GenerateSeed
	opts.Tag = a.CollidableTag
	opts.Clear = spawn
	root, err := mapgen.GenerateObstacleField(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}
	log.Info("environment generated", "seed", opts.Seed, "nodes", root.Count())
	return root, nil
}

// ClipName decodes a fixed-size, NUL-padded name field.
func ClipName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// Clip describes an animation baked into frameCount frames at SampleRate.
func Clip(name string, frameCount int) anim.Clip {
	return anim.Clip{Name: name, Duration: float32(frameCount) / SampleRate}
}

// Sample returns the frame of a baked animation that the action currently shows.
func Sample(a *anim.Action, frameCount int) int {
	return a.Frame(SampleRate, frameCount)
}
