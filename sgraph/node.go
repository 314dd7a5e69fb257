package sgraph

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"scenegraph/core"
	"scenegraph/materials"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	case KindTransform:
		return "transform"
	}
	return "unknown"
}

// Node is one element of the scene tree. LeafNode, GroupNode and
// TransformNode are the only implementations.
//
// Operations that only make sense on one kind either fail with an error
// wrapping ErrUnsupported (animation transforms, children on a leaf) or are
// no-ops (materials and textures on non-leaves).
type Node interface {
	Name() string
	SetName(name string)
	Kind() Kind

	// Scenegraph returns the graph the node was attached to, or nil.
	Scenegraph() *Scenegraph
	// SetScenegraph binds the node and its whole subtree to sg and
	// registers each node in the graph's node index.
	SetScenegraph(sg *Scenegraph)

	// Draw renders the subtree through ctx using the top of stack as the
	// cumulative transform. The stack has the same size on return.
	Draw(ctx DrawContext, stack *MatrixStack) error
	// Lights returns every light in the subtree transformed into the space
	// given by the top of stack. The stack has the same size on return.
	Lights(stack *MatrixStack) []core.Light

	AddLight(l core.Light)
	LocalLights() []core.Light

	AddChild(child Node) error
	Children() []Node

	// Clone returns a deep copy of the subtree, bound to no graph.
	Clone() Node

	SetAnimationTransform(m mgl32.Mat4) error
	AnimationTransform() (mgl32.Mat4, error)

	SetMaterial(m materials.Material)
	SetTextureName(name string)
}

// IsTransform reports whether n accepts animation transforms.
func IsTransform(n Node) bool {
	return n != nil && n.Kind() == KindTransform
}

// nodeBase holds the state every variant shares.
type nodeBase struct {
	name   string
	lights []core.Light
	// non-owning
	graph *Scenegraph
}

func (b *nodeBase) Name() string {
	return b.name
}

// SetName renames the node. Rename clones before attaching them when
// several copies of a subtree must be animated independently by name.
func (b *nodeBase) SetName(name string) {
	b.name = name
}

func (b *nodeBase) Scenegraph() *Scenegraph {
	return b.graph
}

func (b *nodeBase) AddLight(l core.Light) {
	b.lights = append(b.lights, l)
}

func (b *nodeBase) LocalLights() []core.Light {
	return append([]core.Light(nil), b.lights...)
}

func (b *nodeBase) bind(sg *Scenegraph, self Node) {
	b.graph = sg
	if sg == nil || b.name == "" {
		return
	}
	if prev, ok := sg.nodes[b.name]; ok && prev != self {
		slog.Warn("sgraph: node name already indexed, replacing", "node", b.name)
	}
	sg.AddNode(b.name, self)
}

// transformedLights maps the node's own lights by the top of stack.
func (b *nodeBase) transformedLights(stack *MatrixStack) []core.Light {
	if len(b.lights) == 0 {
		return nil
	}
	top := stack.Top()
	out := make([]core.Light, 0, len(b.lights))
	for _, l := range b.lights {
		out = append(out, l.Transform(top))
	}
	return out
}

// cloneBase copies name and lights; the graph reference is dropped.
func (b *nodeBase) cloneBase() nodeBase {
	nb := nodeBase{name: b.name}
	if len(b.lights) == 0 {
		return nb
	}
	if err := copier.CopyWithOption(&nb.lights, &b.lights, copier.Option{DeepCopy: true}); err != nil {
		slog.Error("sgraph: copying lights", "node", b.name, "err", err)
		nb.lights = append([]core.Light(nil), b.lights...)
	}
	return nb
}
