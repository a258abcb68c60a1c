// Package navigator wires the click-to-move pieces together. Asset loaders call EnvironmentLoaded
// and CharacterLoaded once each; input handlers call Click; the frame loop calls Frame.
package navigator

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"navigator/internal/anim"
	"navigator/internal/camera"
	"navigator/internal/collision"
	"navigator/internal/engineconfig"
	"navigator/internal/geom"
	"navigator/internal/locomotion"
	"navigator/internal/scenegraph"
	"navigator/internal/session"
	"navigator/internal/targeting"
)

// Navigator owns the session and every component that reads or writes it.
type Navigator struct {
	prefs    engineconfig.Prefs
	log      *slog.Logger
	session  *session.Session
	targeter *targeting.Targeter
	camera   *camera.Perspective
	orbit    *camera.OrbitControls
	rig      *camera.Rig

	envOnce    sync.Once
	env        atomic.Pointer[scenegraph.Node]
	controller atomic.Pointer[locomotion.Controller]
	frames     uint64
}

// New builds a navigator from validated preferences. The camera starts at the configured position
// looking at the spawn point.
func New(prefs engineconfig.Prefs, log *slog.Logger) (*Navigator, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	aspect := float32(1)
	if prefs.Window.Width > 0 && prefs.Window.Height > 0 {
		aspect = float32(prefs.Window.Width) / float32(prefs.Window.Height)
	}
	cam := camera.NewPerspective(prefs.Camera.Position.V3(), prefs.Locomotion.SpawnPosition.V3(), prefs.Camera.FovY, aspect)
	orbit := camera.NewOrbitControls(cam)
	orbit.MinDistance = prefs.Camera.MinDistance
	orbit.MaxDistance = prefs.Camera.MaxDistance
	orbit.RotateSpeed = prefs.Camera.RotateSpeed
	orbit.ZoomSpeed = prefs.Camera.ZoomSpeed
	return &Navigator{
		prefs:    prefs,
		log:      log,
		session:  session.New(prefs.PathTraceCapacity),
		targeter: targeting.New(targeting.DefaultMaxDistance, log),
		camera:   cam,
		orbit:    orbit,
		rig:      camera.NewRig(orbit),
	}, nil
}

// EnvironmentLoaded installs the environment graph for clicks and extracts the obstacles from it.
// Only the first call with a non-nil root has any effect; it reports whether this call was the
// one that installed.
func (n *Navigator) EnvironmentLoaded(root *scenegraph.Node) bool {
	if root == nil {
		return false
	}
	installed := false
	n.envOnce.Do(func() {
		n.env.Store(root)
		n.targeter.SetEnvironment(root)
		ix := collision.Build(root, n.prefs.Assets.CollidableTag, n.log)
		n.session.SetObstacles(ix)
		n.log.Info("environment ready", "name", root.Name, "nodes", root.Count(), "obstacles", ix.Len())
		installed = true
	})
	return installed
}

// CharacterLoaded builds the animation mixer and locomotion controller from the character's clips.
// A missing idle or move clip is fatal and wraps anim.ErrMissingClip. Calls after a successful one
// are ignored.
func (n *Navigator) CharacterLoaded(clips []anim.Clip) error {
	if n.controller.Load() != nil {
		return nil
	}
	c, err := locomotion.New(n.prefs.LocomotionConfig(), anim.NewMixer(clips), n.log)
	if err != nil {
		return fmt.Errorf("character: %w", err)
	}
	if !n.controller.CompareAndSwap(nil, c) {
		return nil
	}
	n.log.Info("character ready", "clips", len(clips))
	return nil
}

// Click sets the destination from a pointer click at pixel (px, py) in a width x height viewport.
// A click that hits nothing returns false and keeps the previous destination.
func (n *Navigator) Click(px, py, width, height float32) (geom.Vec3, bool) {
	if width > 0 && height > 0 {
		n.camera.Aspect = width / height
	}
	return n.targeter.Click(n.session, n.camera, px, py, width, height)
}

// SetDestination sets the destination directly, bypassing the click ray.
func (n *Navigator) SetDestination(p geom.Vec3) {
	n.session.SetDestination(p)
}

// Frame runs one tick: animation, steering, then camera follow. Nothing moves until the
// character is loaded.
func (n *Navigator) Frame() {
	c := n.controller.Load()
	if c == nil {
		return
	}
	c.Update(n.session)
	n.rig.Follow(n.session.Character.Position)
	n.frames++
}

// Frames is the number of ticks run since the character loaded.
func (n *Navigator) Frames() uint64 {
	return n.frames
}

// Ready reports whether both the environment and the character are loaded.
func (n *Navigator) Ready() bool {
	return n.env.Load() != nil && n.controller.Load() != nil
}

// State is the locomotion state, Idle before the character loads.
func (n *Navigator) State() locomotion.State {
	if c := n.controller.Load(); c != nil {
		return c.State()
	}
	return locomotion.Idle
}

// Mixer returns the character's animation mixer, or nil before the character loads.
func (n *Navigator) Mixer() *anim.Mixer {
	if c := n.controller.Load(); c != nil {
		return c.Mixer()
	}
	return nil
}

func (n *Navigator) Session() *session.Session     { return n.session }
func (n *Navigator) Camera() *camera.Perspective   { return n.camera }
func (n *Navigator) Orbit() *camera.OrbitControls  { return n.orbit }
func (n *Navigator) Environment() *scenegraph.Node { return n.env.Load() }
func (n *Navigator) Prefs() engineconfig.Prefs     { return n.prefs }
