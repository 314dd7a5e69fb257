package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewMatrixPutsTargetInFront(t *testing.T) {
	c := NewCamera(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	c.Position = mgl32.Vec3{0, 0, 10}
	c.LookAt(mgl32.Vec3{})

	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, -10, p.Z(), 1e-5)
}

func TestOrbitCameraKeepsDistance(t *testing.T) {
	target := mgl32.Vec3{1, 2, 3}
	c := NewOrbitCamera(target, 8, mgl32.DegToRad(45), 1)
	c.Orbit(1.2, 0.4)
	assert.InDelta(t, 8, c.Position.Sub(target).Len(), 1e-4)

	c.Orbit(0, 10)
	assert.Equal(t, float32(1.5), c.Pitch)

	c.Zoom(-100)
	assert.Equal(t, float32(0.1), c.Distance)
}

func TestUpdateAspectRatio(t *testing.T) {
	c := NewCamera(1, 1, 0.1, 100)
	c.UpdateAspectRatio(1920, 1080)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-5)
	c.UpdateAspectRatio(10, 0)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-5)
}
