package sgraph

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
)

// AnimationFunc maps a time value to an animation transform.
type AnimationFunc func(t float32) mgl32.Mat4

// NamedNode is one entry of the node index.
type NamedNode struct {
	Name string
	Node Node
}

// Scenegraph owns the tree and the name-keyed registries its leaves
// resolve against, and mediates between the tree and a Renderer.
//
// A Scenegraph is not safe for concurrent use.
type Scenegraph struct {
	root       Node
	meshes     map[string]*core.PolygonMesh
	nodes      map[string]Node
	textures   map[string]string
	animations map[string]AnimationFunc
	// non-owning
	renderer Renderer
}

func New() *Scenegraph {
	return &Scenegraph{
		meshes:     make(map[string]*core.PolygonMesh),
		nodes:      make(map[string]Node),
		textures:   make(map[string]string),
		animations: make(map[string]AnimationFunc),
	}
}

// MakeScenegraph sets root and binds every node of the tree to sg, which
// also indexes each node by name. A replaced root is detached and index
// entries for nodes outside the new tree are dropped.
func (sg *Scenegraph) MakeScenegraph(root Node) {
	if old := sg.root; old != nil && old != root {
		sg.detach(old)
	}
	sg.root = root
	if root != nil {
		root.SetScenegraph(sg)
	}
	reachable := make(map[Node]bool)
	Walk(root, func(n Node) bool {
		reachable[n] = true
		return true
	})
	maps.DeleteFunc(sg.nodes, func(name string, n Node) bool {
		if reachable[n] {
			return false
		}
		slog.Debug("sgraph: dropping unreachable node", "node", name)
		return true
	})
}

// detach unbinds the subtree at n and removes its nodes from the index.
func (sg *Scenegraph) detach(n Node) {
	Walk(n, func(c Node) bool {
		if cur, ok := sg.nodes[c.Name()]; ok && cur == c {
			delete(sg.nodes, c.Name())
		}
		return true
	})
	n.SetScenegraph(nil)
}

func (sg *Scenegraph) Root() Node {
	return sg.root
}

// AddPolygonMesh registers mesh under name, replacing any previous entry.
func (sg *Scenegraph) AddPolygonMesh(name string, mesh *core.PolygonMesh) {
	sg.meshes[name] = mesh
}

// AddTexture registers the image path for name, replacing any previous
// entry.
func (sg *Scenegraph) AddTexture(name, path string) {
	sg.textures[name] = path
}

// AddNode indexes node under name, replacing any previous entry.
func (sg *Scenegraph) AddNode(name string, node Node) {
	sg.nodes[name] = node
}

// Node looks a node up by name.
func (sg *Scenegraph) Node(name string) (Node, bool) {
	n, ok := sg.nodes[name]
	return n, ok
}

// SetRenderer binds r and registers every mesh and texture known so far
// with it. Meshes added afterwards are not forwarded; finish registering
// before calling SetRenderer, or call it again.
func (sg *Scenegraph) SetRenderer(r Renderer) error {
	sg.renderer = r
	for _, name := range slices.Sorted(maps.Keys(sg.meshes)) {
		if err := r.AddMesh(name, sg.meshes[name]); err != nil {
			return fmt.Errorf("add mesh %q: %w", name, err)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(sg.textures)) {
		if err := r.AddTexture(name, sg.textures[name]); err != nil {
			return fmt.Errorf("add texture %q: %w", name, err)
		}
	}
	slog.Debug("sgraph: renderer attached", "meshes", len(sg.meshes), "textures", len(sg.textures))
	return nil
}

func (sg *Scenegraph) Renderer() Renderer {
	return sg.renderer
}

// Draw renders the tree through the renderer. It does nothing until both a
// root and a renderer are set.
func (sg *Scenegraph) Draw(stack *MatrixStack) error {
	if sg.root == nil || sg.renderer == nil {
		return nil
	}
	return sg.renderer.Draw(sg.root, stack)
}

// Lights collects every light of the tree in the space of the top of stack.
func (sg *Scenegraph) Lights(stack *MatrixStack) []core.Light {
	if sg.root == nil {
		return nil
	}
	return sg.root.Lights(stack)
}

// AddAnimation registers fn to drive the animation transform of the node
// named nodeName. A later registration for the same name replaces it.
func (sg *Scenegraph) AddAnimation(nodeName string, fn AnimationFunc) {
	sg.animations[nodeName] = fn
}

func (sg *Scenegraph) RemoveAnimation(nodeName string) {
	delete(sg.animations, nodeName)
}

// Animations returns the animated node names in sorted order.
func (sg *Scenegraph) Animations() []string {
	return slices.Sorted(maps.Keys(sg.animations))
}

// Animate evaluates every animation channel at t and injects the result
// into the target node. Channels whose node is absent from the index are
// skipped: the animated feature is simply not part of this tree. A channel
// targeting a node that is not a transform node is an error; the remaining
// channels are still applied and all such errors are returned joined.
func (sg *Scenegraph) Animate(t float32) error {
	var errs []error
	for _, name := range sg.Animations() {
		n, ok := sg.nodes[name]
		if !ok {
			slog.Debug("sgraph: animated node absent", "node", name)
			continue
		}
		if err := n.SetAnimationTransform(sg.animations[name](t)); err != nil {
			errs = append(errs, fmt.Errorf("animate: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PolygonMeshes returns a copy of the mesh registry.
func (sg *Scenegraph) PolygonMeshes() map[string]*core.PolygonMesh {
	return maps.Clone(sg.meshes)
}

// Textures returns a copy of the texture registry.
func (sg *Scenegraph) Textures() map[string]string {
	return maps.Clone(sg.textures)
}

// Nodes returns the node index sorted by name.
func (sg *Scenegraph) Nodes() []NamedNode {
	out := make([]NamedNode, 0, len(sg.nodes))
	for _, name := range slices.Sorted(maps.Keys(sg.nodes)) {
		out = append(out, NamedNode{Name: name, Node: sg.nodes[name]})
	}
	return out
}

// Dispose releases the renderer's resources. It returns ErrRendererUnset
// when no renderer was ever attached; callers may ignore that.
func (sg *Scenegraph) Dispose() error {
	if sg.renderer == nil {
		return ErrRendererUnset
	}
	return sg.renderer.Dispose()
}
