// Package graphics owns the window and the frame loop.
package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options configures the window.
type Options struct {
	Title      string
	Width      int32
	Height     int32
	TargetFPS  int32
	Background rl.Color
}

// Run opens the window, calls setup once the GL context exists, then loops until the window closes.
// Each frame calls update (input and simulation) before clearing and calling draw. teardown runs
// before the window closes. A setup error ends Run before the first frame.
func Run(opts Options, setup func() error, update, draw, teardown func()) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	defer rl.CloseWindow()

	fps := opts.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)

	if err := setup(); err != nil {
		return err
	}
	defer teardown()

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(opts.Background)
		draw()
		rl.EndDrawing()
	}
	return nil
}
