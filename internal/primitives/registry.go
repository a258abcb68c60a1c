// Package primitives draws environment primitives (cube, sphere, cylinder, plane) with a shared lit
// material. GPU meshes are created lazily, after the window and GL context exist.
package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"navigator/internal/geom"
	"navigator/internal/scenegraph"
)

type cached struct {
	mesh   rl.Mesh
	mtl    rl.Material
	offset rl.Vector3 // model-space shift that centers the mesh on the node position
}

// generators build the unit mesh for each primitive kind. Sizes match scenegraph.Primitive so the
// drawn shape is the shape rays are tested against.
var generators = map[string]func() (rl.Mesh, rl.Vector3){
	scenegraph.Cube: func() (rl.Mesh, rl.Vector3) {
		return rl.GenMeshCube(1, 1, 1), rl.Vector3{}
	},
	scenegraph.Sphere: func() (rl.Mesh, rl.Vector3) {
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices), rl.Vector3{}
	},
	// Raylib's cylinder sits on Y=0; scenegraph's is centered.
	scenegraph.Cylinder: func() (rl.Mesh, rl.Vector3) {
		return rl.GenMeshCylinder(0.5, 1, cylinderSlices), rl.NewVector3(0, -0.5, 0)
	},
	scenegraph.Plane: func() (rl.Mesh, rl.Vector3) {
		return rl.GenMeshPlane(1, 1, 1, 1), rl.Vector3{}
	},
}

const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 16
)

// Registry caches one mesh per primitive kind and a shared lit shader.
type Registry struct {
	cache    map[string]cached
	shader   rl.Shader
	loaded   bool
	viewPos  [3]float32
	lightDir [3]float32
}

// NewRegistry returns an empty registry lit from above-right.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[string]cached),
		lightDir: [3]float32{0.5, 1, 0.5},
	}
}

// SetView sets the camera position for specular highlights. Call once per frame before drawing.
func (r *Registry) SetView(viewPos geom.Vec3) {
	r.viewPos = viewPos.Slice()
}

func (r *Registry) ensureShader() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
}

func (r *Registry) ensure(kind string) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	gen, ok := generators[kind]
	if !ok {
		return cached{}, false
	}
	r.ensureShader()
	mesh, offset := gen()
	mtl := rl.LoadMaterialDefault()
	if rl.IsShaderValid(r.shader) {
		mtl.Shader = r.shader
	}
	c := cached{mesh: mesh, mtl: mtl, offset: offset}
	r.cache[kind] = c
	return c, true
}

// Draw draws one primitive with the given world transform and tint. Unknown kinds are skipped.
// Must be called between BeginMode3D and EndMode3D.
func (r *Registry) Draw(kind string, world geom.Affine, tint rl.Color) {
	c, ok := r.ensure(kind)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	offsetM := rl.MatrixTranslate(c.offset.X, c.offset.Y, c.offset.Z)
	scaleM := rl.MatrixScale(world.Scale.X, world.Scale.Y, world.Scale.Z)
	transM := rl.MatrixTranslate(world.Offset.X, world.Offset.Y, world.Offset.Z)
	rl.DrawMesh(c.mesh, c.mtl, rl.MatrixMultiply(rl.MatrixMultiply(offsetM, scaleM), transM))
}

// DrawTree draws every primitive under root. tint picks the color per node.
func (r *Registry) DrawTree(root *scenegraph.Node, tint func(*scenegraph.Node) rl.Color) {
	root.Walk(geom.Identity(), func(n *scenegraph.Node, world geom.Affine) {
		if n.Kind == "" {
			return
		}
		r.Draw(n.Kind, world, tint(n))
	})
}

// Unload releases GPU resources. The registry can be reused afterwards.
func (r *Registry) Unload() {
	for kind, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, kind)
	}
	if r.loaded && rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
	r.loaded = false
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 skyColor;
uniform vec3 groundColor;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  vec3 hemi = mix(groundColor, skyColor, N.y * 0.5 + 0.5);
  float diffuse = max(dot(N, L), 0.0);
  float spec = pow(max(dot(N, normalize(L + V)), 0.0), 32.0) * specularStrength;
  vec3 rgb = colDiffuse.rgb * (hemi + diffuse * 0.7) + vec3(spec) * (diffuse > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(rgb, colDiffuse.a);
}
`
)

var (
	skyColor    = [3]float32{0.32, 0.34, 0.4}
	groundColor = [3]float32{0.12, 0.11, 0.1}
)

const specularStrength = float32(0.3)

// setLitShaderUniforms uploads per-frame lighting values. Values are copied into local arrays so
// cgo never sees Go-managed pointers into the registry.
func (r *Registry) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := r.viewPos
	lightDir := r.lightDir
	sky := skyColor
	ground := groundColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "skyColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, sky[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "groundColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, ground[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}
