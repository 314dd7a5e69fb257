package sgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
)

// GroupNode owns an ordered list of children and applies no transform of
// its own.
type GroupNode struct {
	nodeBase
	children []Node
}

func NewGroupNode(name string, children ...Node) *GroupNode {
	g := &GroupNode{nodeBase: nodeBase{name: name}}
	g.children = append(g.children, children...)
	return g
}

func (n *GroupNode) Kind() Kind {
	return KindGroup
}

// AddChild appends child. If the group is already attached to a graph the
// child subtree is bound to it as well.
func (n *GroupNode) AddChild(child Node) error {
	n.children = append(n.children, child)
	if n.graph != nil {
		child.SetScenegraph(n.graph)
	}
	return nil
}

// RemoveChild removes child, reporting whether it was found. A removed
// subtree is unbound from the group's graph and dropped from its index.
func (n *GroupNode) RemoveChild(child Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			if n.graph != nil {
				n.graph.detach(c)
			}
			return true
		}
	}
	return false
}

func (n *GroupNode) Children() []Node {
	return append([]Node(nil), n.children...)
}

func (n *GroupNode) SetScenegraph(sg *Scenegraph) {
	n.bind(sg, n)
	for _, c := range n.children {
		c.SetScenegraph(sg)
	}
}

// Draw visits the children in order and stops at the first error.
func (n *GroupNode) Draw(ctx DrawContext, stack *MatrixStack) error {
	for _, c := range n.children {
		if err := c.Draw(ctx, stack); err != nil {
			return err
		}
	}
	return nil
}

func (n *GroupNode) Lights(stack *MatrixStack) []core.Light {
	out := n.transformedLights(stack)
	for _, c := range n.children {
		out = append(out, c.Lights(stack)...)
	}
	return out
}

func (n *GroupNode) Clone() Node {
	g := &GroupNode{nodeBase: n.cloneBase()}
	for _, c := range n.children {
		g.children = append(g.children, c.Clone())
	}
	return g
}

func (n *GroupNode) SetAnimationTransform(mgl32.Mat4) error {
	return notTransform(n.name)
}

func (n *GroupNode) AnimationTransform() (mgl32.Mat4, error) {
	return mgl32.Mat4{}, notTransform(n.name)
}

func (n *GroupNode) SetMaterial(materials.Material) {}

func (n *GroupNode) SetTextureName(string) {}
