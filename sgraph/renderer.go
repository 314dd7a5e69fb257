package sgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
)

// DrawContext is what a leaf needs to request a draw call.
//
// Implementations return an error wrapping ErrMeshNotFound or
// ErrTextureNotFound for a non-empty name that was never registered.
// Leaves never call DrawMesh with an empty mesh name; an empty texture
// name means untextured.
type DrawContext interface {
	DrawMesh(meshName string, mat materials.Material, textureName string, transform mgl32.Mat4) error
}

// Renderer is the boundary towards a graphics backend. The scene graph
// never talks to a graphics API directly.
type Renderer interface {
	DrawContext

	// AddMesh makes mesh drawable under name.
	AddMesh(name string, mesh *core.PolygonMesh) error
	// AddTexture makes the image file at path drawable under name.
	AddTexture(name, path string) error
	// Draw renders one frame of the tree rooted at root. The base of stack
	// holds the caller's view transform.
	Draw(root Node, stack *MatrixStack) error
	// Dispose releases backend resources.
	Dispose() error
}
