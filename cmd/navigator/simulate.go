package main

import (
	"io"
	"log/slog"

	"navigator/internal/anim"
	"navigator/internal/assets"
	"navigator/internal/engineconfig"
	"navigator/internal/geom"
	"navigator/internal/navigator"
)

// Synthetic clip lengths, in frames, for runs without a character model.
const (
	idleFrames = 120
	moveFrames = 48
)

// simulate drives the navigator without a window: same environment, synthetic clips, a fixed
// destination, a fixed number of frames.
func simulate(p engineconfig.Prefs, log *slog.Logger, dest geom.Vec3, frames int, out io.Writer) error {
	nav, err := navigator.New(p, log)
	if err != nil {
		return err
	}
	env, err := assets.LoadEnvironment(p.Assets, p.Locomotion.SpawnPosition.V3(), log)
	if err != nil {
		return err
	}
	nav.EnvironmentLoaded(env)
	err = nav.CharacterLoaded([]anim.Clip{
		assets.Clip(p.Locomotion.IdleClip, idleFrames),
		assets.Clip(p.Locomotion.MoveClip, moveFrames),
	})
	if err != nil {
		return err
	}
	nav.SetDestination(dest)
	return nav.RunFor(frames).Write(out)
}
