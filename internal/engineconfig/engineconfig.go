package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"navigator/internal/geom"
	"navigator/internal/locomotion"
	"navigator/internal/pathtrace"
)

// EngineConfigPath is the default config file, relative to the process working directory.
const EngineConfigPath = "config/navigator.yaml"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Vec is a YAML-friendly [x, y, z].
type Vec [3]float32

// V3 converts to a geometry vector.
func (v Vec) V3() geom.Vec3 {
	return geom.V(v[0], v[1], v[2])
}

// Locomotion holds the steering tunables. Speed and BlendDuration are per simulated tick of
// AnimationStep time units (one tick per rendered frame).
type Locomotion struct {
	Speed          float32 `yaml:"speed"`
	ArrivalEpsilon float32 `yaml:"arrival_epsilon"`
	Lookahead      float32 `yaml:"lookahead"`
	BlendDuration  float32 `yaml:"blend_duration"`
	AnimationStep  float32 `yaml:"animation_step"`
	BoundsMin      Vec     `yaml:"bounds_min"`
	BoundsMax      Vec     `yaml:"bounds_max"`
	SpawnPosition  Vec     `yaml:"spawn_position"`
	SpawnScale     float32 `yaml:"spawn_scale"`
	IdleClip       string  `yaml:"idle_clip"`
	MoveClip       string  `yaml:"move_clip"`
}

// Camera holds the starting viewpoint and orbit limits.
type Camera struct {
	Position    Vec     `yaml:"position"`
	FovY        float32 `yaml:"fov_y"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	RotateSpeed float32 `yaml:"rotate_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
}

// Assets names the inputs. Environment is a glTF/GLB map or a YAML graph; empty generates an
// obstacle field.
type Assets struct {
	Environment   string `yaml:"environment,omitempty"`
	Character     string `yaml:"character"`
	CollidableTag string `yaml:"collidable_tag"`
	GenerateSeed  int64  `yaml:"generate_seed,omitempty"`
}

// Window holds window and overlay preferences.
type Window struct {
	Width       int32 `yaml:"width"`
	Height      int32 `yaml:"height"`
	TargetFPS   int32 `yaml:"target_fps"`
	ShowFPS     bool  `yaml:"show_fps"`
	ShowState   bool  `yaml:"show_state"`
	GridVisible bool  `yaml:"grid_visible"`
	PathVisible bool  `yaml:"path_visible"`
}

// Prefs is the whole configuration. Persisted as YAML.
type Prefs struct {
	Locomotion        Locomotion `yaml:"locomotion"`
	Camera            Camera     `yaml:"camera"`
	Assets            Assets     `yaml:"assets"`
	Window            Window     `yaml:"window"`
	PathTraceCapacity int        `yaml:"path_trace_capacity"`
	LogFile           string     `yaml:"log_file,omitempty"`
}

// Default returns the stock configuration.
func Default() Prefs {
	lc := locomotion.DefaultConfig()
	return Prefs{
		Locomotion: Locomotion{
			Speed:          lc.Speed,
			ArrivalEpsilon: lc.ArrivalEpsilon,
			Lookahead:      lc.Lookahead,
			BlendDuration:  lc.BlendDuration,
			AnimationStep:  lc.Step,
			BoundsMin:      Vec(lc.Bounds.Min.Slice()),
			BoundsMax:      Vec(lc.Bounds.Max.Slice()),
			SpawnPosition:  Vec(lc.SpawnPosition.Slice()),
			SpawnScale:     lc.SpawnScale,
			IdleClip:       lc.IdleClip,
			MoveClip:       lc.MoveClip,
		},
		Camera: Camera{
			Position:    Vec{5, 5, 5},
			FovY:        60,
			MinDistance: 1,
			MaxDistance: 50,
			RotateSpeed: 0.005,
			ZoomSpeed:   1.1,
		},
		Assets: Assets{
			Character:     "assets/character.glb",
			CollidableTag: "Cube",
		},
		Window: Window{
			Width:       1280,
			Height:      720,
			TargetFPS:   60,
			ShowFPS:     false,
			ShowState:   true,
			GridVisible: true,
			PathVisible: true,
		},
		PathTraceCapacity: pathtrace.DefaultCapacity,
		LogFile:           "logs/navigator.log",
	}
}

// Load reads preferences from path. A missing file yields Default() and no file is created.
// Fields absent from the file keep their default values.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Environment variables read by ApplyEnv.
const (
	EnvEnvironment = "NAVIGATOR_ENVIRONMENT"
	EnvCharacter   = "NAVIGATOR_CHARACTER"
	EnvSpeed       = "NAVIGATOR_SPEED"
	EnvLogFile     = "NAVIGATOR_LOG_FILE"
)

// ApplyEnv overrides fields from the environment. Unset variables leave fields alone.
func (p *Prefs) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvEnvironment); ok {
		p.Assets.Environment = v
	}
	if v, ok := os.LookupEnv(EnvCharacter); ok {
		p.Assets.Character = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		p.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvSpeed); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSpeed, err)
		}
		p.Locomotion.Speed = float32(f)
	}
	return nil
}

// Validate checks the tunables the navigation core relies on.
func (p Prefs) Validate() error {
	l := p.Locomotion
	switch {
	case l.Speed <= 0:
		return fmt.Errorf("%w: speed must be positive", ErrInvalidConfig)
	case l.ArrivalEpsilon <= 0:
		return fmt.Errorf("%w: arrival_epsilon must be positive", ErrInvalidConfig)
	case l.Lookahead <= 0:
		return fmt.Errorf("%w: lookahead must be positive", ErrInvalidConfig)
	case l.BlendDuration < 0:
		return fmt.Errorf("%w: blend_duration must not be negative", ErrInvalidConfig)
	case l.AnimationStep <= 0:
		return fmt.Errorf("%w: animation_step must be positive", ErrInvalidConfig)
	case l.SpawnScale <= 0:
		return fmt.Errorf("%w: spawn_scale must be positive", ErrInvalidConfig)
	case l.IdleClip == "" || l.MoveClip == "":
		return fmt.Errorf("%w: idle_clip and move_clip are required", ErrInvalidConfig)
	case l.IdleClip == l.MoveClip:
		return fmt.Errorf("%w: idle_clip and move_clip must differ", ErrInvalidConfig)
	}
	if !(geom.AABB{Min: l.BoundsMin.V3(), Max: l.BoundsMax.V3()}).Valid() {
		return fmt.Errorf("%w: bounds_min must not exceed bounds_max", ErrInvalidConfig)
	}
	if p.Camera.FovY <= 0 || p.Camera.FovY >= 180 {
		return fmt.Errorf("%w: fov_y must be in (0, 180)", ErrInvalidConfig)
	}
	if p.Camera.MinDistance <= 0 || p.Camera.MaxDistance < p.Camera.MinDistance {
		return fmt.Errorf("%w: camera distance limits", ErrInvalidConfig)
	}
	if p.Assets.CollidableTag == "" {
		return fmt.Errorf("%w: collidable_tag is required", ErrInvalidConfig)
	}
	return nil
}

// Clone returns a deep copy.
func (p Prefs) Clone() (Prefs, error) {
	var out Prefs
	if err := copier.CopyWithOption(&out, &p, copier.Option{DeepCopy: true}); err != nil {
		return Prefs{}, err
	}
	return out, nil
}

// LocomotionConfig converts to the controller's configuration.
func (p Prefs) LocomotionConfig() locomotion.Config {
	l := p.Locomotion
	return locomotion.Config{
		Speed:          l.Speed,
		ArrivalEpsilon: l.ArrivalEpsilon,
		Lookahead:      l.Lookahead,
		BlendDuration:  l.BlendDuration,
		Step:           l.AnimationStep,
		Bounds:         geom.AABB{Min: l.BoundsMin.V3(), Max: l.BoundsMax.V3()},
		SpawnPosition:  l.SpawnPosition.V3(),
		SpawnScale:     l.SpawnScale,
		IdleClip:       l.IdleClip,
		MoveClip:       l.MoveClip,
	}
}
