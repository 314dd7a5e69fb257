package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

func triangle() *core.PolygonMesh {
	return core.NewPolygonMesh("tri", []core.Vertex{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
	}, []uint32{0, 1, 2})
}

func scene(t *testing.T) (*sgraph.Scenegraph, *sgraph.TransformNode) {
	t.Helper()
	sg := sgraph.New()
	sg.AddPolygonMesh("tri", triangle())
	sg.AddTexture("wood", "wood.png")

	spin := sgraph.NewTransformNode("spin", mgl32.Translate3D(0, 0, -5))
	leaf := sgraph.NewLeafNode("a", "tri")
	leaf.SetMaterial(materials.Red())
	leaf.SetTextureName("wood")
	spin.SetChild(sgraph.NewGroupNode("g", leaf, sgraph.NewLeafNode("b", "tri")))
	spin.AddLight(core.NewLight())
	sg.MakeScenegraph(spin)
	return sg, spin
}

func TestRecorderRecordsFrame(t *testing.T) {
	sg, _ := scene(t)
	rec := NewRecorder()
	require.NoError(t, sg.SetRenderer(rec))
	assert.Equal(t, []string{"tri"}, rec.Meshes())
	assert.Equal(t, map[string]string{"wood": "wood.png"}, rec.Textures())

	require.NoError(t, sg.Draw(sgraph.NewMatrixStack(mgl32.Ident4())))
	require.Len(t, rec.Calls, 2)
	assert.Equal(t, "wood", rec.Calls[0].Texture)
	assert.Equal(t, "Red", rec.Calls[0].Material.Name)
	assert.Equal(t, "", rec.Calls[1].Texture)
	assert.Equal(t, 2, rec.Triangles())

	require.Len(t, rec.Lights, 1)
	assert.Equal(t, mgl32.Vec4{0, 0, -5, 1}, rec.Lights[0].Position)

	// a second frame replaces the first
	require.NoError(t, sg.Draw(sgraph.NewMatrixStack(mgl32.Ident4())))
	assert.Len(t, rec.Calls, 2)
	assert.Equal(t, 2, rec.Frames)
}

func TestRecorderMissingResources(t *testing.T) {
	rec := NewRecorder()
	err := rec.DrawMesh("ghost", materials.Default(), "", mgl32.Ident4())
	assert.True(t, errors.Is(err, sgraph.ErrMeshNotFound))

	require.NoError(t, rec.AddMesh("tri", triangle()))
	err = rec.DrawMesh("tri", materials.Default(), "ghost", mgl32.Ident4())
	assert.True(t, errors.Is(err, sgraph.ErrTextureNotFound))

	assert.Error(t, rec.AddMesh("nil", nil))
	assert.False(t, rec.HasMesh("nil"))
}

func TestRecorderDispose(t *testing.T) {
	sg, _ := scene(t)
	rec := NewRecorder()
	require.NoError(t, sg.SetRenderer(rec))
	require.NoError(t, sg.Dispose())
	assert.True(t, rec.Disposed())
	assert.Empty(t, rec.Meshes())
}

type fixedView mgl32.Mat4

func (v fixedView) ViewMatrix() mgl32.Mat4 { return mgl32.Mat4(v) }

func TestEngineFrame(t *testing.T) {
	sg, spin := scene(t)
	sg.AddAnimation("spin", func(t float32) mgl32.Mat4 { return mgl32.Translate3D(t, 0, 0) })
	rec := NewRecorder()
	require.NoError(t, sg.SetRenderer(rec))

	e := NewEngine(sg, fixedView(mgl32.Translate3D(0, 1, 0)))
	require.NoError(t, e.Frame(2))
	assert.Equal(t, 1, e.Frames())
	assert.Equal(t, float32(2), e.AnimationTime())

	// view × animation × local
	origin := rec.Calls[0].Transform.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{2, 1, -5, 1}, origin)

	e.Paused = true
	require.NoError(t, e.Frame(7))
	m, err := spin.AnimationTransform()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Translate3D(2, 0, 0), m)
	assert.Equal(t, float32(2), e.AnimationTime())
	assert.Equal(t, 2, e.Frames())
}

func TestEngineWithoutCameraAndErrors(t *testing.T) {
	sg, _ := scene(t)
	sg.AddAnimation("g", func(float32) mgl32.Mat4 { return mgl32.Ident4() })
	e := NewEngine(sg, nil)
	err := e.Frame(0)
	assert.True(t, errors.Is(err, sgraph.ErrUnsupported))

	sg.RemoveAnimation("g")
	// a root without a renderer draws nothing and succeeds
	require.NoError(t, e.Frame(0))

	rec := NewRecorder()
	require.NoError(t, rec.AddMesh("tri", triangle()))
	sg.MakeScenegraph(sgraph.NewLeafNode("lonely", "tri"))
	require.NoError(t, sg.SetRenderer(rec))
	require.NoError(t, e.Frame(1))
	assert.Equal(t, mgl32.Ident4(), rec.Calls[0].Transform)
}
