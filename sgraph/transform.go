package sgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
)

// TransformNode applies a fixed local matrix and a per-frame animation
// matrix to exactly one child. The matrix pushed for the child is
// top × animation × local, so the animation acts in the parent's frame
// after the local placement.
type TransformNode struct {
	nodeBase
	local     mgl32.Mat4
	animation mgl32.Mat4
	child     Node
}

func NewTransformNode(name string, local mgl32.Mat4) *TransformNode {
	return &TransformNode{
		nodeBase:  nodeBase{name: name},
		local:     local,
		animation: mgl32.Ident4(),
	}
}

func (n *TransformNode) Kind() Kind {
	return KindTransform
}

func (n *TransformNode) Transform() mgl32.Mat4 {
	return n.local
}

func (n *TransformNode) SetTransform(m mgl32.Mat4) {
	n.local = m
}

// SetAnimationTransform replaces the animation matrix. It does not compose
// with the previous value.
func (n *TransformNode) SetAnimationTransform(m mgl32.Mat4) error {
	n.animation = m
	return nil
}

func (n *TransformNode) AnimationTransform() (mgl32.Mat4, error) {
	return n.animation, nil
}

// Matrix returns animation × local.
func (n *TransformNode) Matrix() mgl32.Mat4 {
	return n.animation.Mul4(n.local)
}

// AddChild sets the child if there is none yet.
func (n *TransformNode) AddChild(child Node) error {
	if n.child != nil {
		return ErrHasChild
	}
	n.SetChild(child)
	return nil
}

// SetChild replaces the child. The previous child, if any, is detached.
func (n *TransformNode) SetChild(child Node) {
	if old := n.child; old != nil && old != child && n.graph != nil {
		n.graph.detach(old)
	}
	n.child = child
	if n.graph != nil && child != nil {
		child.SetScenegraph(n.graph)
	}
}

func (n *TransformNode) Child() Node {
	return n.child
}

func (n *TransformNode) Children() []Node {
	if n.child == nil {
		return nil
	}
	return []Node{n.child}
}

func (n *TransformNode) SetScenegraph(sg *Scenegraph) {
	n.bind(sg, n)
	if n.child != nil {
		n.child.SetScenegraph(sg)
	}
}

func (n *TransformNode) Draw(ctx DrawContext, stack *MatrixStack) error {
	stack.Push(n.Matrix())
	defer stack.Pop()
	if n.child == nil {
		return nil
	}
	return n.child.Draw(ctx, stack)
}

func (n *TransformNode) Lights(stack *MatrixStack) []core.Light {
	stack.Push(n.Matrix())
	defer stack.Pop()
	out := n.transformedLights(stack)
	if n.child != nil {
		out = append(out, n.child.Lights(stack)...)
	}
	return out
}

func (n *TransformNode) Clone() Node {
	t := &TransformNode{
		nodeBase:  n.cloneBase(),
		local:     n.local,
		animation: n.animation,
	}
	if n.child != nil {
		t.child = n.child.Clone()
	}
	return t
}

func (n *TransformNode) SetMaterial(materials.Material) {}

func (n *TransformNode) SetTextureName(string) {}
