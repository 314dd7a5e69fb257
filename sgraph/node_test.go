package sgraph_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/renderer"
	"scenegraph/sgraph"
)

// spyContext records the mesh name and matrix of every draw request.
type spyContext struct {
	calls []string
	tops  []mgl32.Mat4
	err   error
}

func (s *spyContext) DrawMesh(mesh string, _ materials.Material, _ string, m mgl32.Mat4) error {
	s.calls = append(s.calls, mesh)
	s.tops = append(s.tops, m)
	return s.err
}

func translate(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

func rotZ(deg float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(deg))
}

func mustAdd(t *testing.T, parent, child sgraph.Node) {
	t.Helper()
	require.NoError(t, parent.AddChild(child))
}

// buildTree returns a group with two transform branches and an empty group.
func buildTree(t *testing.T) sgraph.Node {
	root := sgraph.NewGroupNode("root")
	a := sgraph.NewTransformNode("a", translate(1, 0, 0))
	b := sgraph.NewTransformNode("b", rotZ(90))
	mustAdd(t, a, b)
	mustAdd(t, b, sgraph.NewLeafNode("leaf-ab", "cube"))

	c := sgraph.NewTransformNode("c", translate(0, 5, 0))
	g := sgraph.NewGroupNode("g", sgraph.NewLeafNode("leaf-c1", "cube"), sgraph.NewLeafNode("leaf-c2", "sphere"))
	mustAdd(t, c, g)

	mustAdd(t, root, a)
	mustAdd(t, root, c)
	mustAdd(t, root, sgraph.NewGroupNode("empty"))
	mustAdd(t, root, sgraph.NewTransformNode("dangling", translate(3, 3, 3)))
	return root
}

func TestStackBalance(t *testing.T) {
	trees := map[string]sgraph.Node{
		"leaf":        sgraph.NewLeafNode("l", "cube"),
		"empty group": sgraph.NewGroupNode("g"),
		"transform":   sgraph.NewTransformNode("t", translate(1, 2, 3)),
		"tree":        buildTree(t),
	}
	deep := sgraph.NewTransformNode("d0", translate(1, 0, 0))
	cur := deep
	for i := 0; i < 20; i++ {
		next := sgraph.NewTransformNode("dn", rotZ(10))
		mustAdd(t, cur, next)
		cur = next
	}
	mustAdd(t, cur, sgraph.NewLeafNode("tip", "cube"))
	trees["deep"] = deep

	for name, tree := range trees {
		stack := sgraph.NewMatrixStack(translate(0, 0, -10))
		stack.Push(rotZ(5))
		require.NoError(t, tree.Draw(&spyContext{}, stack), name)
		assert.Equal(t, 2, stack.Len(), "draw %s", name)
		tree.Lights(stack)
		assert.Equal(t, 2, stack.Len(), "lights %s", name)
	}
}

func TestStackBalanceOnError(t *testing.T) {
	tree := buildTree(t)
	stack := sgraph.NewMatrixStack(mgl32.Ident4())
	ctx := &spyContext{err: errors.New("boom")}
	err := tree.Draw(ctx, stack)
	require.Error(t, err)
	assert.Equal(t, 1, stack.Len())
	assert.Len(t, ctx.calls, 1, "traversal stops at the first failing draw")
}

func TestTransformComposition(t *testing.T) {
	initial := translate(0, 0, -10)
	a := rotZ(90)
	b := translate(2, 0, 0)

	ta := sgraph.NewTransformNode("A", a)
	tb := sgraph.NewTransformNode("B", b)
	mustAdd(t, ta, tb)
	mustAdd(t, tb, sgraph.NewLeafNode("leaf", "cube"))

	ctx := &spyContext{}
	require.NoError(t, ta.Draw(ctx, sgraph.NewMatrixStack(initial)))
	require.Len(t, ctx.tops, 1)

	want := initial.Mul4(a).Mul4(b)
	swapped := initial.Mul4(b).Mul4(a)
	assert.InDeltaSlice(t, want[:], ctx.tops[0][:], 1e-5)
	assert.NotEqual(t, swapped, ctx.tops[0])

	// the leaf's origin ends up at initial × A × (2,0,0)
	p := ctx.tops[0].Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec(t, mgl32.Vec4{0, 2, -10, 1}, p)
}

func TestAnimationTransformComposesAfterLocal(t *testing.T) {
	tn := sgraph.NewTransformNode("arm", translate(1, 0, 0))
	mustAdd(t, tn, sgraph.NewLeafNode("hand", "cube"))
	require.NoError(t, tn.SetAnimationTransform(rotZ(90)))

	ctx := &spyContext{}
	require.NoError(t, tn.Draw(ctx, sgraph.NewMatrixStack(mgl32.Ident4())))
	p := ctx.tops[0].Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec(t, mgl32.Vec4{0, 1, 0, 1}, p)
}

func TestSetAnimationTransformLastWriteWins(t *testing.T) {
	tn := sgraph.NewTransformNode("t", mgl32.Ident4())
	m, err := tn.AnimationTransform()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Ident4(), m)

	require.NoError(t, tn.SetAnimationTransform(translate(1, 0, 0)))
	require.NoError(t, tn.SetAnimationTransform(translate(0, 2, 0)))
	m, _ = tn.AnimationTransform()
	assert.Equal(t, translate(0, 2, 0), m)
}

func TestSiblingTransformsDoNotLeak(t *testing.T) {
	root := sgraph.NewGroupNode("root")
	left := sgraph.NewTransformNode("left", translate(-5, 0, 0))
	mustAdd(t, left, sgraph.NewLeafNode("l", "cube"))
	right := sgraph.NewTransformNode("right", translate(5, 0, 0))
	mustAdd(t, right, sgraph.NewLeafNode("r", "cube"))
	mustAdd(t, root, left)
	mustAdd(t, root, right)
	mustAdd(t, root, sgraph.NewLeafNode("center", "cube"))

	ctx := &spyContext{}
	require.NoError(t, root.Draw(ctx, sgraph.NewMatrixStack(mgl32.Ident4())))
	require.Equal(t, []string{"cube", "cube", "cube"}, ctx.calls)
	assert.Equal(t, translate(-5, 0, 0), ctx.tops[0])
	assert.Equal(t, translate(5, 0, 0), ctx.tops[1])
	assert.Equal(t, mgl32.Ident4(), ctx.tops[2])
}

func TestGroupLightIsolation(t *testing.T) {
	root := sgraph.NewGroupNode("root")
	moved := sgraph.NewTransformNode("moved", translate(0, 10, 0))
	group := sgraph.NewGroupNode("group")
	light := core.NewLight()
	light.SetPosition(1, 0, 0)
	group.AddLight(light)
	mustAdd(t, moved, group)

	sibling := sgraph.NewTransformNode("sibling", translate(100, 0, 0))
	mustAdd(t, sibling, sgraph.NewLeafNode("s", "cube"))
	mustAdd(t, group, sibling)

	mustAdd(t, root, moved)
	mustAdd(t, root, sgraph.NewTransformNode("other", translate(-50, 0, 0)))

	lights := root.Lights(sgraph.NewMatrixStack(translate(0, 0, -1)))
	require.Len(t, lights, 1)
	assert.Equal(t, mgl32.Vec4{1, 10, -1, 1}, lights[0].Position)

	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, group.LocalLights()[0].Position, "source light unchanged")
}

func TestLightsFromNestedNodes(t *testing.T) {
	tn := sgraph.NewTransformNode("t", translate(0, 2, 0))
	own := core.NewLight()
	tn.AddLight(own)

	leaf := sgraph.NewLeafNode("leaf", "cube")
	spot := core.NewLight()
	spot.SetSpotDirection(1, 0, 0)
	spot.SpotCutoff = 20
	leaf.AddLight(spot)
	mustAdd(t, tn, leaf)

	lights := tn.Lights(sgraph.NewMatrixStack(rotZ(90)))
	require.Len(t, lights, 2)
	want := rotZ(90).Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	for _, l := range lights {
		assertVec(t, want, l.Position)
	}
	assertVec(t, mgl32.Vec4{0, 1, 0, 0}, lights[1].SpotDirection)
	assert.Equal(t, float32(20), lights[1].SpotCutoff)
}

func TestEmptyGeometryLeafDrawsNothing(t *testing.T) {
	leaf := sgraph.NewLeafNode("marker", "")
	for _, base := range []mgl32.Mat4{mgl32.Ident4(), translate(1, 2, 3), rotZ(45)} {
		ctx := &spyContext{}
		stack := sgraph.NewMatrixStack(base)
		require.NoError(t, leaf.Draw(ctx, stack))
		assert.Empty(t, ctx.calls)
		assert.Equal(t, 1, stack.Len())
	}
}

func TestLeafDrawsWithCurrentTop(t *testing.T) {
	leaf := sgraph.NewLeafNode("box", "cube")
	leaf.SetTextureName("checker")
	r := renderer.NewRecorder()
	require.NoError(t, r.AddMesh("cube", core.NewPolygonMesh("cube", nil, nil)))
	require.NoError(t, r.AddTexture("checker", "checker.png"))

	stack := sgraph.NewMatrixStack(translate(1, 1, 1))
	require.NoError(t, leaf.Draw(r, stack))
	require.Len(t, r.Calls, 1)
	assert.Equal(t, "cube", r.Calls[0].Mesh)
	assert.Equal(t, "checker", r.Calls[0].Texture)
	assert.Equal(t, translate(1, 1, 1), r.Calls[0].Transform)
	assert.Equal(t, 1, stack.Len())
}

func TestMaterialIsCopiedOnSet(t *testing.T) {
	leaf := sgraph.NewLeafNode("box", "cube")
	mat := materials.Red()
	leaf.SetMaterial(mat)
	mat.Diffuse = core.ColorBlue
	assert.Equal(t, core.ColorRed, leaf.Material().Diffuse)
}

func TestKindSpecificOperations(t *testing.T) {
	leaf := sgraph.NewLeafNode("hand", "cube")
	group := sgraph.NewGroupNode("body")
	tn := sgraph.NewTransformNode("joint", mgl32.Ident4())

	for _, n := range []sgraph.Node{leaf, group} {
		err := n.SetAnimationTransform(mgl32.Ident4())
		require.Error(t, err)
		assert.ErrorIs(t, err, sgraph.ErrUnsupported)
		assert.Contains(t, err.Error(), n.Name()+" is not a transform node")

		_, err = n.AnimationTransform()
		assert.ErrorIs(t, err, sgraph.ErrUnsupported)
		assert.False(t, sgraph.IsTransform(n))
	}
	assert.True(t, sgraph.IsTransform(tn))
	assert.False(t, sgraph.IsTransform(nil))

	// materials and textures are ignored by non-leaves
	group.SetMaterial(materials.Red())
	group.SetTextureName("x")
	tn.SetMaterial(materials.Red())
	tn.SetTextureName("x")

	assert.ErrorIs(t, leaf.AddChild(sgraph.NewLeafNode("x", "cube")), sgraph.ErrUnsupported)
	require.NoError(t, tn.AddChild(leaf))
	assert.ErrorIs(t, tn.AddChild(group), sgraph.ErrHasChild)
	assert.Same(t, leaf, tn.Child())

	tn.SetChild(group)
	assert.Equal(t, []sgraph.Node{group}, tn.Children())
}

func TestCloneIndependence(t *testing.T) {
	arm := sgraph.NewTransformNode("arm", translate(1, 0, 0))
	require.NoError(t, arm.SetAnimationTransform(rotZ(30)))
	forearm := sgraph.NewGroupNode("forearm")
	l := core.NewLight()
	l.SetPosition(0, 1, 0)
	forearm.AddLight(l)
	hand := sgraph.NewLeafNode("hand", "cube")
	hand.SetMaterial(materials.Skin())
	hand.SetTextureName("skin")
	mustAdd(t, forearm, hand)
	mustAdd(t, arm, forearm)

	sg := sgraph.New()
	sg.MakeScenegraph(arm)

	clone := arm.Clone()
	assertSameShape(t, arm, clone)
	assert.Nil(t, clone.Scenegraph())
	assert.Same(t, sg, arm.Scenegraph())

	cloneArm := clone.(*sgraph.TransformNode)
	cloneForearm := cloneArm.Child().(*sgraph.GroupNode)
	cloneHand := cloneForearm.Children()[0].(*sgraph.LeafNode)

	anim, _ := cloneArm.AnimationTransform()
	assert.Equal(t, rotZ(30), anim)
	assert.Equal(t, materials.Skin(), cloneHand.Material())
	assert.Equal(t, "skin", cloneHand.TextureName())
	assert.Equal(t, forearm.LocalLights(), cloneForearm.LocalLights())

	// mutate the original
	require.NoError(t, arm.SetAnimationTransform(rotZ(-60)))
	hand.SetMaterial(materials.Metal())
	hand.SetTextureName("steel")
	forearm.AddLight(core.NewLight())

	anim, _ = cloneArm.AnimationTransform()
	assert.Equal(t, rotZ(30), anim)
	assert.Equal(t, materials.Skin(), cloneHand.Material())
	assert.Equal(t, "skin", cloneHand.TextureName())
	assert.Len(t, cloneForearm.LocalLights(), 1)

	// and the clone
	require.NoError(t, cloneArm.SetAnimationTransform(translate(9, 9, 9)))
	cloneHand.SetTextureName("wood")
	anim, _ = arm.AnimationTransform()
	assert.Equal(t, rotZ(-60), anim)
	assert.Equal(t, "steel", hand.TextureName())
}

func assertSameShape(t *testing.T, a, b sgraph.Node) {
	t.Helper()
	require.NotSame(t, a, b)
	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.Kind(), b.Kind())
	ac, bc := a.Children(), b.Children()
	require.Len(t, bc, len(ac))
	for i := range ac {
		assertSameShape(t, ac[i], bc[i])
	}
}

func TestWalkAndFind(t *testing.T) {
	tree := buildTree(t)
	var names []string
	sgraph.Walk(tree, func(n sgraph.Node) bool {
		names = append(names, n.Name())
		return n.Name() != "c"
	})
	assert.Equal(t, []string{"root", "a", "b", "leaf-ab", "c", "empty", "dangling"}, names)

	assert.Equal(t, "leaf-c2", sgraph.Find(tree, "leaf-c2").Name())
	assert.Nil(t, sgraph.Find(tree, "nope"))
	assert.Equal(t, 10, sgraph.Count(tree))
}

func assertVec(t *testing.T, want, got mgl32.Vec4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, "got %v", got)
}

func TestSetMeshName(t *testing.T) {
	leaf := sgraph.NewLeafNode("box", "cube")
	leaf.SetMeshName("sphere")
	assert.Equal(t, "sphere", leaf.MeshName())

	ctx := &spyContext{}
	require.NoError(t, leaf.Draw(ctx, sgraph.NewMatrixStack(mgl32.Ident4())))
	assert.Equal(t, []string{"sphere"}, ctx.calls)

	leaf.SetMeshName("")
	require.NoError(t, leaf.Draw(ctx, sgraph.NewMatrixStack(mgl32.Ident4())))
	assert.Len(t, ctx.calls, 1, "a leaf without a mesh draws nothing")
}
