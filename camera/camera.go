package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective look-at camera. Its view matrix is what callers
// put at the base of the transform stack before drawing a scene graph.
type Camera struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 5},
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// OrbitCamera circles a target on a sphere.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target mgl32.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:   *NewCamera(fov, aspectRatio, 0.1, 1000),
		Distance: distance,
		Pitch:    0.3,
	}
	c.Target = target
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = mgl32.Clamp(c.Pitch, -1.5, 1.5)

	cosPitch, sinPitch := math32.Cos(c.Pitch), math32.Sin(c.Pitch)
	cosYaw, sinYaw := math32.Cos(c.Yaw), math32.Sin(c.Yaw)

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}
	c.Position = c.Target.Add(offset)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}
