package sgraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MatrixStack is the cumulative-transform stack threaded through a
// traversal. The zero value behaves as a stack whose top is the identity.
//
// Every Push made while visiting a node must be matched by exactly one Pop
// before control returns to that node's caller; nodes use defer for this.
type MatrixStack struct {
	mats []mgl32.Mat4
}

// NewMatrixStack returns a stack holding base, typically the camera view.
func NewMatrixStack(base mgl32.Mat4) *MatrixStack {
	return &MatrixStack{mats: []mgl32.Mat4{base}}
}

// Top returns the current cumulative matrix.
func (s *MatrixStack) Top() mgl32.Mat4 {
	if len(s.mats) == 0 {
		return mgl32.Ident4()
	}
	return s.mats[len(s.mats)-1]
}

// Push pushes Top() × m.
func (s *MatrixStack) Push(m mgl32.Mat4) {
	s.mats = append(s.mats, s.Top().Mul4(m))
}

// PushMatrix pushes m unchanged.
func (s *MatrixStack) PushMatrix(m mgl32.Mat4) {
	s.mats = append(s.mats, m)
}

// Pop removes the top matrix. Popping an empty stack panics: it means a
// traversal popped something it never pushed.
func (s *MatrixStack) Pop() {
	if len(s.mats) == 0 {
		panic("sgraph: pop of empty matrix stack")
	}
	s.mats = s.mats[:len(s.mats)-1]
}

func (s *MatrixStack) Len() int {
	return len(s.mats)
}

// Clone returns an independent stack with the same contents, for
// traversing a branch on another goroutine.
func (s *MatrixStack) Clone() *MatrixStack {
	return &MatrixStack{mats: append([]mgl32.Mat4(nil), s.mats...)}
}
