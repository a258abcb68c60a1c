// Package scene renders the navigator: environment primitives and models, the character, the path
// overlay and an editor grid, all seen through the navigator's orbit camera.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"navigator/internal/camera"
	"navigator/internal/collision"
	"navigator/internal/geom"
	"navigator/internal/navigator"
	"navigator/internal/primitives"
	"navigator/internal/scenegraph"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	pathLift     = 0.02 // keeps the polyline above the ground plane
	markerRadius = 0.08
)

var (
	groundColor     = rl.NewColor(96, 100, 92, 255)
	obstacleColor   = rl.NewColor(196, 120, 64, 255)
	propColor       = rl.NewColor(140, 140, 150, 255)
	pathColor       = rl.NewColor(255, 214, 64, 255)
	destColor       = rl.NewColor(230, 60, 60, 255)
	backgroundColor = rl.NewColor(24, 26, 32, 255)
)

// Scene holds the raylib camera mirrored from the navigator camera and the loaded render assets.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	PathVisible bool

	prims      *primitives.Registry
	character  *Character
	envModel   rl.Model
	hasEnvDraw bool
}

// New returns a scene with the grid and path overlays on.
func New() *Scene {
	s := &Scene{
		prims:       primitives.NewRegistry(),
		GridVisible: true,
		PathVisible: true,
	}
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Projection = rl.CameraPerspective
	return s
}

// SetCharacter sets the model drawn at the character transform.
func (s *Scene) SetCharacter(c *Character) {
	s.character = c
}

// SetEnvironmentModel sets a glTF environment drawn alongside the primitives.
func (s *Scene) SetEnvironmentModel(m rl.Model) {
	s.envModel = m
	s.hasEnvDraw = true
}

// SetGridVisible sets whether the editor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Background is the clear color.
func (s *Scene) Background() rl.Color {
	return backgroundColor
}

// Sync copies the navigator camera into the raylib camera.
func (s *Scene) Sync(p *camera.Perspective) {
	s.Camera.Position = rl.Vector3(p.Position)
	s.Camera.Target = rl.Vector3(p.Target)
	s.Camera.Up = rl.Vector3(p.Up)
	s.Camera.Fovy = p.FovY
}

// Draw renders the 3D scene for the current navigator state. Call after ClearBackground and
// before 2D overlays.
func (s *Scene) Draw(nav *navigator.Navigator) {
	s.Sync(nav.Camera())
	s.prims.SetView(nav.Camera().Position)

	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		drawEditorGrid()
	}
	if env := nav.Environment(); env != nil {
		obstacles := nav.Session().Obstacles()
		s.prims.DrawTree(env, func(n *scenegraph.Node) rl.Color {
			return tint(n, obstacles)
		})
	}
	if s.hasEnvDraw {
		rl.DrawModel(s.envModel, rl.Vector3{}, 1, rl.White)
	}
	s.drawCharacter(nav)
	if s.PathVisible {
		s.drawPath(nav)
	}
	rl.EndMode3D()
}

// tint colors exactly the nodes the collision index extracted as obstacles.
func tint(n *scenegraph.Node, obstacles *collision.Index) rl.Color {
	switch {
	case obstacles.Contains(n.Name):
		return obstacleColor
	case n.Kind == scenegraph.Plane:
		return groundColor
	default:
		return propColor
	}
}

func (s *Scene) drawCharacter(nav *navigator.Navigator) {
	if s.character == nil || !nav.Ready() {
		return
	}
	if m := nav.Mixer(); m != nil {
		s.character.Pose(m.Dominant())
	}
	ch := nav.Session().Character
	scale := rl.NewVector3(ch.Scale, ch.Scale, ch.Scale)
	rl.DrawModelEx(s.character.Model, rl.Vector3(ch.Position), rl.NewVector3(0, 1, 0), ch.Yaw()*rl.Rad2deg, scale, rl.White)
}

func (s *Scene) drawPath(nav *navigator.Navigator) {
	lift := geom.V(0, pathLift, 0)
	nav.Session().Trace.Segments(func(from, to geom.Vec3) {
		rl.DrawLine3D(rl.Vector3(from.Add(lift)), rl.Vector3(to.Add(lift)), pathColor)
	})
	if dest, ok := nav.Session().Destination(); ok {
		rl.DrawSphereWires(rl.Vector3(dest), markerRadius, 6, 8, destColor)
	}
}

// Unload releases GPU resources owned by the scene.
func (s *Scene) Unload() {
	s.prims.Unload()
	if s.character != nil {
		s.character.Unload()
	}
	if s.hasEnvDraw {
		rl.UnloadModel(s.envModel)
	}
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis lines through the
// origin (X red, Y green, Z blue).
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Z = -gridExtent, float32(i)
		end.X, end.Z = gridExtent, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	axes := [3]struct {
		dir rl.Vector3
		c   rl.Color
	}{
		{rl.NewVector3(1, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha)},
		{rl.NewVector3(0, 1, 0), rl.NewColor(80, 220, 80, axisLineAlpha)},
		{rl.NewVector3(0, 0, 1), rl.NewColor(80, 80, 220, axisLineAlpha)},
	}
	for _, a := range axes {
		rl.DrawLine3D(rl.Vector3Scale(a.dir, -gridExtent), rl.Vector3Scale(a.dir, gridExtent), a.c)
	}
}
