package assets

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/animation"
	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

// Mesh names registered by RegisterPrimitives.
const (
	MeshCube     = "cube"
	MeshSphere   = "sphere"
	MeshCylinder = "cylinder"
	MeshQuad     = "quad"
	MeshGrid     = "grid"
)

// RegisterPrimitives adds the unit primitives to sg under the Mesh* names.
func RegisterPrimitives(sg *sgraph.Scenegraph) {
	sg.AddPolygonMesh(MeshCube, Cube(1))
	sg.AddPolygonMesh(MeshSphere, Sphere(0.5, 24, 16))
	sg.AddPolygonMesh(MeshCylinder, Cylinder(0.5, 1, 24))
	sg.AddPolygonMesh(MeshQuad, Quad(1, 1))
}

// BuildHumanoid registers the primitives in sg and returns a humanoid
// built from them. The joints named in package animation are transform
// nodes, so animation.Humanoid drives the figure once the tree is attached.
//
// The arms hang from shoulder transforms; each hand joint rotates the
// whole arm about the shoulder and each forearm joint rotates the lower
// arm about the elbow.
func BuildHumanoid(sg *sgraph.Scenegraph) sgraph.Node {
	RegisterPrimitives(sg)

	skin := materials.Skin()
	shirt := materials.Blue()
	trousers := materials.Default().WithColor(core.Color{R: 0.2, G: 0.2, B: 0.25, A: 1})

	torso := part("torso", MeshCube, shirt, mgl32.Translate3D(0, 10, 0).Mul4(mgl32.Scale3D(10, 14, 5)))
	head := part("head", MeshSphere, skin, mgl32.Translate3D(0, 21, 0).Mul4(mgl32.Scale3D(7, 7, 7)))

	body := sgraph.NewGroupNode("body",
		torso,
		head,
		arm("left", -1, shirt, skin),
		arm("right", 1, shirt, skin),
		leg("leftleg", -2.5, trousers),
		leg("rightleg", 2.5, trousers),
	)

	lamp := core.NewLight()
	lamp.SetPosition(0, 40, 10)
	body.AddLight(lamp)

	return joint(animation.JointHumanoid, mgl32.Ident4(), body)
}

// arm builds a shoulder → hand → {upper arm, elbow → forearm} chain. side
// is -1 for the left arm and 1 for the right.
func arm(prefix string, side float32, sleeve, skin materials.Material) sgraph.Node {
	handJoint, forearmJoint := animation.JointLeftHand, animation.JointLeftForearm
	if side > 0 {
		handJoint, forearmJoint = animation.JointRightHand, animation.JointRightForearm
	}

	upper := part(prefix+"upperarm", MeshCube, sleeve, mgl32.Translate3D(side*4, 0, 0).Mul4(mgl32.Scale3D(8, 2.5, 2.5)))
	lower := part(prefix+"lowerarm", MeshCylinder, skin,
		mgl32.Translate3D(side*3.5, 0, 0).
			Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90))).
			Mul4(mgl32.Scale3D(2, 7, 2)))

	forearm := joint(forearmJoint, mgl32.Ident4(), lower)
	elbow := joint(prefix+"elbow", mgl32.Translate3D(side*8, 0, 0), forearm)
	hand := joint(handJoint, mgl32.Ident4(), sgraph.NewGroupNode(prefix+"arm", upper, elbow))
	return joint(prefix+"shoulder", mgl32.Translate3D(side*5, 16, 0), hand)
}

func leg(name string, x float32, mat materials.Material) sgraph.Node {
	return part(name, MeshCylinder, mat, mgl32.Translate3D(x, -3, 0).Mul4(mgl32.Scale3D(3, 12, 3)))
}

// part places a single leaf under its own transform.
func part(name, mesh string, mat materials.Material, local mgl32.Mat4) sgraph.Node {
	leaf := sgraph.NewLeafNode(name+"-geom", mesh)
	leaf.SetMaterial(mat)
	return joint(name, local, leaf)
}

func joint(name string, local mgl32.Mat4, child sgraph.Node) *sgraph.TransformNode {
	t := sgraph.NewTransformNode(name, local)
	t.SetChild(child)
	return t
}

// Ground returns a flat size × size slab whose top face sits at y.
func Ground(size, y float32) sgraph.Node {
	return part("ground", MeshCube, materials.Green(),
		mgl32.Translate3D(0, y-0.5, 0).Mul4(mgl32.Scale3D(size, 1, size)))
}

// SunDisc returns a glowing sphere of the given diameter placed distance
// units up +Y, where a light pointing down -Y shines from.
func SunDisc(distance, diameter float32) sgraph.Node {
	return part("sundisc", MeshSphere, materials.Emissive(1, 0.85, 0.55),
		mgl32.Translate3D(0, distance, 0).Mul4(mgl32.Scale3D(diameter, diameter, diameter)))
}

// GridNode registers a Grid mesh in sg and returns a node drawing it at
// height y.
func GridNode(sg *sgraph.Scenegraph, size float32, divisions int, y float32) sgraph.Node {
	sg.AddPolygonMesh(MeshGrid, Grid(size, divisions))
	return part("grid", MeshGrid, materials.Default(), mgl32.Translate3D(0, y, 0))
}
