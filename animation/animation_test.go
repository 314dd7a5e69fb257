package animation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph/sgraph"
)

func TestWaves(t *testing.T) {
	cases := []struct {
		wave  Wave
		phase float32
		want  float32
	}{
		{Triangle, 0, 0},
		{Triangle, 0.25, 1},
		{Triangle, 0.5, 0},
		{Triangle, 0.75, -1},
		{Triangle, 1.25, 1},
		{Triangle, -0.75, 1},
		{Sawtooth, 0, -1},
		{Sawtooth, 0.5, 0},
		{Sawtooth, 3.75, 0.5},
		{Square, 0.1, 1},
		{Square, 0.6, -1},
		{Sine, 0.25, 1},
		{Wave("nope"), 0.3, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, c.wave.Eval(c.phase), 1e-5, "%s(%v)", c.wave, c.phase)
	}

	_, err := ParseWave("zigzag")
	assert.Error(t, err)
	w, err := ParseWave("sine")
	require.NoError(t, err)
	assert.Equal(t, Sine, w)
}

func assertPose(t *testing.T, hand, elbow float32, got armPose, msg string) {
	t.Helper()
	assert.InDelta(t, mgl32.DegToRad(hand), got.hand, 1e-5, msg)
	assert.InDelta(t, mgl32.DegToRad(elbow), got.elbow, 1e-5, msg)
}

func TestArmAnglesMirror(t *testing.T) {
	left, right := armAngles(90)
	assertPose(t, 90, -18, left, "left 90")
	assertPose(t, -90, 18, right, "right 90")

	left, right = armAngles(270)
	assertPose(t, -270, 54, left, "left 270")
	assertPose(t, 270, -54, right, "right 270")

	left, right = armAngles(0)
	assertPose(t, 0, 0, left, "left 0")
	assertPose(t, 0, 0, right, "right 0")

	// periodic in 360
	l1, r1 := armAngles(45)
	l2, r2 := armAngles(45 + 720)
	assert.InDelta(t, l1.hand, l2.hand, 1e-5)
	assert.InDelta(t, l1.elbow, l2.elbow, 1e-5)
	assert.InDelta(t, r1.hand, r2.hand, 1e-5)
}

func TestArmAnglesHalfCycleAndNegativeTime(t *testing.T) {
	left, right := armAngles(180)
	assertPose(t, 180, 180, left, "left 180")
	assertPose(t, -180, 36, right, "right 180")

	// negative remainders move both arms together
	left, right = armAngles(-90)
	assertPose(t, -90, 18, left, "left -90")
	assertPose(t, -90, 18, right, "right -90")

	left, right = armAngles(-270)
	assertPose(t, -270, 54, left, "left -270")
	assertPose(t, -270, 54, right, "right -270")
}

func TestHumanoidArmsMirror(t *testing.T) {
	ch := Humanoid()
	left := ch[JointLeftHand](90).Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	right := ch[JointRightHand](90).Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, left.Y(), -right.Y(), 1e-5)
}

func TestHumanoidOrbit(t *testing.T) {
	m := Humanoid()[JointHumanoid](0)
	p := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	want := mgl32.HomogRotate3DZ(mgl32.DegToRad(20)).Mul4x1(mgl32.Vec4{30, 0, 30, 1})
	assert.InDeltaSlice(t, want[:], p[:], 1e-4)
}

func TestRegisterHumanoidOnPartialTree(t *testing.T) {
	sg := sgraph.New()
	hand := sgraph.NewTransformNode(JointLeftHand, mgl32.Ident4())
	require.NoError(t, hand.AddChild(sgraph.NewLeafNode("palm", "")))
	sg.MakeScenegraph(sgraph.NewGroupNode("root", hand))

	Register(sg, Humanoid())
	assert.Len(t, sg.Animations(), 5)
	require.NoError(t, sg.Animate(90))

	m, _ := hand.AnimationTransform()
	assertMat(t, mgl32.HomogRotate3DZ(mgl32.DegToRad(90)), m)
}

const clipYAML = `
name: bob
time_scale: 2
channels:
  - node: head
    tracks:
      - rotate: {axis: [0, 2, 0], degrees: 90}
        wave: triangle
        period: 4
  - node: body
    tracks:
      - translate: [0, 1, 0]
        wave: sawtooth
        period: 1
        phase: 0.5
      - scale: [1, 1, 1]
        wave: square
        period: 1
`

func TestParseClip(t *testing.T) {
	c, err := ParseClip([]byte(clipYAML))
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Name)
	require.Len(t, c.Channels, 2)

	funcs := c.AnimationFuncs()
	require.Len(t, funcs, 2)

	// time_scale 2: t=0.5 → phase 0.25 of the triangle → +90°
	head := funcs["head"](0.5)
	assertMat(t, mgl32.HomogRotate3DY(mgl32.DegToRad(90)), head)

	// t=0.1 → scaled 0.2: sawtooth(0.7) = 0.4, square(0.2) = 1
	body := funcs["body"](0.1)
	want := mgl32.Translate3D(0, 0.4, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	assertMat(t, want, body)
}

func TestParseClipDefaultsTimeScale(t *testing.T) {
	c, err := ParseClip([]byte("channels: []\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(1), c.TimeScale)
}

func TestClipValidation(t *testing.T) {
	bad := []string{
		"channels: [{tracks: []}]",
		"channels: [{node: a, tracks: [{wave: sine, period: 1}]}]",
		"channels: [{node: a, tracks: [{translate: [1,0,0], wave: zigzag, period: 1}]}]",
		"channels: [{node: a, tracks: [{translate: [1,0,0], wave: sine, period: 0}]}]",
		"channels: [{node: a, tracks: [{rotate: {axis: [0,0,0], degrees: 4}, wave: sine, period: 1}]}]",
		"channels: [{node: a, tracks: [{translate: [1,0,0], scale: [1,1,1], wave: sine, period: 1}]}]",
		"channels: {",
	}
	for _, src := range bad {
		_, err := ParseClip([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestLoadClipRegisters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob.yaml")
	require.NoError(t, os.WriteFile(path, []byte(clipYAML), 0644))

	c, err := LoadClip(path)
	require.NoError(t, err)

	sg := sgraph.New()
	head := sgraph.NewTransformNode("head", mgl32.Ident4())
	sg.MakeScenegraph(head)
	c.Register(sg)
	assert.Equal(t, []string{"body", "head"}, sg.Animations())
	require.NoError(t, sg.Animate(0.5))
	m, _ := head.AnimationTransform()
	assert.NotEqual(t, mgl32.Ident4(), m)

	_, err = LoadClip(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func assertMat(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, "got %v", got)
}
