package renderer

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/sgraph"
)

// Viewer supplies the view transform placed at the base of the stack.
type Viewer interface {
	ViewMatrix() mgl32.Mat4
}

// Engine drives one scene graph frame by frame: animate, then draw with
// the camera view at the base of the transform stack.
type Engine struct {
	Scene  *sgraph.Scenegraph
	Camera Viewer

	Paused bool

	frames int
	last   float32
}

func NewEngine(sg *sgraph.Scenegraph, cam Viewer) *Engine {
	return &Engine{Scene: sg, Camera: cam}
}

// Frame renders the scene at time t. While paused the animation is frozen
// at the last animated time.
func (e *Engine) Frame(t float32) error {
	if !e.Paused {
		if err := e.Scene.Animate(t); err != nil {
			return err
		}
		e.last = t
	}

	view := mgl32.Ident4()
	if e.Camera != nil {
		view = e.Camera.ViewMatrix()
	}
	stack := sgraph.NewMatrixStack(view)
	if err := e.Scene.Draw(stack); err != nil {
		return fmt.Errorf("frame %d: %w", e.frames, err)
	}
	if stack.Len() != 1 {
		// a node kept a matrix pushed
		slog.Error("renderer: transform stack not balanced after frame", "depth", stack.Len())
	}
	e.frames++
	return nil
}

func (e *Engine) Frames() int {
	return e.frames
}

// AnimationTime returns the time the scene was last animated at.
func (e *Engine) AnimationTime() float32 {
	return e.last
}
