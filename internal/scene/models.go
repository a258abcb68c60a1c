package scene

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"navigator/internal/anim"
	"navigator/internal/assets"
)

// Character is the loaded character model and its baked animations.
type Character struct {
	Model      rl.Model
	animations []rl.ModelAnimation
	byName     map[string]int
}

// LoadCharacter loads a glTF/GLB character and its animations. Needs a GL context.
func LoadCharacter(path string, log *slog.Logger) (*Character, error) {
	if err := assets.Require(path); err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}
	model := rl.LoadModel(path)
	if !rl.IsModelValid(model) {
		return nil, fmt.Errorf("character: %w: %s", assets.ErrAssetLoad, path)
	}
	c := &Character{
		Model:      model,
		animations: rl.LoadModelAnimations(path),
		byName:     make(map[string]int),
	}
	for i, a := range c.animations {
		name := assets.ClipName(a.Name[:])
		if _, dup := c.byName[name]; !dup {
			c.byName[name] = i
		}
	}
	log.Info("character loaded", "path", path, "meshes", model.MeshCount, "clips", len(c.animations))
	return c, nil
}

// Clips lists the animations for the mixer.
func (c *Character) Clips() []anim.Clip {
	out := make([]anim.Clip, 0, len(c.animations))
	for _, a := range c.animations {
		out = append(out, assets.Clip(assets.ClipName(a.Name[:]), int(a.FrameCount)))
	}
	return out
}

// Pose applies the frame the action is showing. Skeletal poses are not blended: during a
// crossfade the heavier action wins.
func (c *Character) Pose(a *anim.Action) {
	if a == nil {
		return
	}
	i, ok := c.byName[a.Name()]
	if !ok {
		return
	}
	ma := c.animations[i]
	rl.UpdateModelAnimation(c.Model, ma, int32(assets.Sample(a, int(ma.FrameCount))))
}

// Unload releases the model and its animations.
func (c *Character) Unload() {
	if len(c.animations) > 0 {
		rl.UnloadModelAnimations(c.animations)
	}
	rl.UnloadModel(c.Model)
}

// LoadEnvironmentModel loads a glTF environment for drawing. Its click and collision geometry
// comes from assets.LoadGLTF, which keeps the node names this loader drops.
func LoadEnvironmentModel(path string, log *slog.Logger) (rl.Model, error) {
	if err := assets.Require(path); err != nil {
		return rl.Model{}, fmt.Errorf("environment model: %w", err)
	}
	model := rl.LoadModel(path)
	if !rl.IsModelValid(model) {
		return rl.Model{}, fmt.Errorf("environment model: %w: %s", assets.ErrAssetLoad, path)
	}
	log.Info("environment model loaded", "path", path, "meshes", model.MeshCount)
	return model, nil
}
