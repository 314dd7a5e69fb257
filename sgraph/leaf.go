package sgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
)

// LeafNode is the only node kind with geometry. It references a mesh by
// name so one registered mesh can be instanced by many leaves.
type LeafNode struct {
	nodeBase
	meshName    string
	material    materials.Material
	textureName string
}

// NewLeafNode creates a leaf instancing the named mesh. An empty mesh name
// makes a leaf that draws nothing.
func NewLeafNode(name, meshName string) *LeafNode {
	return &LeafNode{
		nodeBase: nodeBase{name: name},
		meshName: meshName,
		material: materials.Default(),
	}
}

func (n *LeafNode) Kind() Kind {
	return KindLeaf
}

func (n *LeafNode) MeshName() string {
	return n.meshName
}

func (n *LeafNode) SetMeshName(name string) {
	n.meshName = name
}

// SetMaterial stores a copy of m.
func (n *LeafNode) SetMaterial(m materials.Material) {
	n.material = m
}

func (n *LeafNode) Material() materials.Material {
	return n.material
}

func (n *LeafNode) SetTextureName(name string) {
	n.textureName = name
}

func (n *LeafNode) TextureName() string {
	return n.textureName
}

func (n *LeafNode) SetScenegraph(sg *Scenegraph) {
	n.bind(sg, n)
}

// Draw issues one draw request with the current top of stack.
func (n *LeafNode) Draw(ctx DrawContext, stack *MatrixStack) error {
	if n.meshName == "" {
		return nil
	}
	return ctx.DrawMesh(n.meshName, n.material, n.textureName, stack.Top())
}

func (n *LeafNode) Lights(stack *MatrixStack) []core.Light {
	return n.transformedLights(stack)
}

func (n *LeafNode) AddChild(Node) error {
	return noChildren(n.name)
}

func (n *LeafNode) Children() []Node {
	return nil
}

func (n *LeafNode) Clone() Node {
	return &LeafNode{
		nodeBase:    n.cloneBase(),
		meshName:    n.meshName,
		material:    n.material,
		textureName: n.textureName,
	}
}

func (n *LeafNode) SetAnimationTransform(mgl32.Mat4) error {
	return notTransform(n.name)
}

func (n *LeafNode) AnimationTransform() (mgl32.Mat4, error) {
	return mgl32.Mat4{}, notTransform(n.name)
}
