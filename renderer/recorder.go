package renderer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

// DrawCall is one recorded DrawMesh request.
type DrawCall struct {
	Mesh      string
	Material  materials.Material
	Texture   string
	Transform mgl32.Mat4
}

var _ sgraph.Renderer = (*Recorder)(nil)

// Recorder is a headless sgraph.Renderer. It keeps the registered meshes
// and textures and records the draw calls and lights of the last frame.
// Tools use it to inspect a scene without a GPU.
type Recorder struct {
	meshes   map[string]*core.PolygonMesh
	textures map[string]string

	// Calls and Lights describe the most recent Draw.
	Calls  []DrawCall
	Lights []core.Light
	Frames int

	disposed bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		meshes:   make(map[string]*core.PolygonMesh),
		textures: make(map[string]string),
	}
}

func (r *Recorder) AddMesh(name string, mesh *core.PolygonMesh) error {
	if mesh == nil {
		return fmt.Errorf("mesh %q is nil", name)
	}
	r.meshes[name] = mesh
	return nil
}

func (r *Recorder) AddTexture(name, path string) error {
	r.textures[name] = path
	return nil
}

// HasMesh reports whether name was registered.
func (r *Recorder) HasMesh(name string) bool {
	_, ok := r.meshes[name]
	return ok
}

// Meshes returns the registered mesh names, sorted.
func (r *Recorder) Meshes() []string {
	return slices.Sorted(maps.Keys(r.meshes))
}

func (r *Recorder) Textures() map[string]string {
	return maps.Clone(r.textures)
}

func (r *Recorder) DrawMesh(meshName string, mat materials.Material, textureName string, transform mgl32.Mat4) error {
	if _, ok := r.meshes[meshName]; !ok {
		return fmt.Errorf("draw %q: %w", meshName, sgraph.ErrMeshNotFound)
	}
	if textureName != "" {
		if _, ok := r.textures[textureName]; !ok {
			return fmt.Errorf("draw %q with texture %q: %w", meshName, textureName, sgraph.ErrTextureNotFound)
		}
	}
	r.Calls = append(r.Calls, DrawCall{
		Mesh:      meshName,
		Material:  mat,
		Texture:   textureName,
		Transform: transform,
	})
	return nil
}

// Draw collects the lights of the tree, then draws it.
func (r *Recorder) Draw(root sgraph.Node, stack *sgraph.MatrixStack) error {
	r.Calls = r.Calls[:0]
	r.Lights = root.Lights(stack)
	r.Frames++
	return root.Draw(r, stack)
}

// Triangles returns the triangle count of the last frame.
func (r *Recorder) Triangles() int {
	total := 0
	for _, c := range r.Calls {
		total += r.meshes[c.Mesh].TriangleCount()
	}
	return total
}

func (r *Recorder) Dispose() error {
	clear(r.meshes)
	clear(r.textures)
	r.disposed = true
	return nil
}

func (r *Recorder) Disposed() bool {
	return r.disposed
}
