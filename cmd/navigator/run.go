package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"navigator/internal/assets"
	"navigator/internal/debug"
	"navigator/internal/engineconfig"
	"navigator/internal/graphics"
	"navigator/internal/logger"
	"navigator/internal/navigator"
	"navigator/internal/scene"
)

// runViewport opens the window and runs the interactive loop. Asset failures are fatal.
func runViewport(p engineconfig.Prefs, lg *logger.Logger) error {
	log := lg.Slog()
	nav, err := navigator.New(p, log)
	if err != nil {
		return err
	}
	env, err := assets.LoadEnvironment(p.Assets, p.Locomotion.SpawnPosition.V3(), log)
	if err != nil {
		return err
	}

	scn := scene.New()
	scn.SetGridVisible(p.Window.GridVisible)
	scn.PathVisible = p.Window.PathVisible
	dbg := debug.New(lg)
	dbg.ShowFPS = p.Window.ShowFPS
	dbg.ShowState = p.Window.ShowState
	dbg.ShowLog = p.Window.ShowState

	// Models need the GL context, so they load after the window opens.
	setup := func() error {
		if assets.IsModel(p.Assets.Environment) {
			model, err := scene.LoadEnvironmentModel(p.Assets.Environment, log)
			if err != nil {
				return err
			}
			scn.SetEnvironmentModel(model)
		}
		nav.EnvironmentLoaded(env)

		ch, err := scene.LoadCharacter(p.Assets.Character, log)
		if err != nil {
			return err
		}
		if err := nav.CharacterLoaded(ch.Clips()); err != nil {
			ch.Unload()
			return err
		}
		scn.SetCharacter(ch)
		return nil
	}
	update := func() {
		handleInput(nav)
		nav.Frame()
	}
	draw := func() {
		scn.Draw(nav)
		dbg.Draw(nav)
	}

	return graphics.Run(graphics.Options{
		Title:      "navigator",
		Width:      p.Window.Width,
		Height:     p.Window.Height,
		TargetFPS:  p.Window.TargetFPS,
		Background: scn.Background(),
	}, setup, update, draw, scn.Unload)
}

// handleInput maps pointer input: left click picks a destination, right drag orbits, the wheel zooms.
func handleInput(nav *navigator.Navigator) {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		nav.Click(m.X, m.Y, w, h)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		nav.Orbit().Rotate(d.X, d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		nav.Orbit().Zoom(wheel)
	}
}
