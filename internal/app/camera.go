package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/camera"
	"scenegraph/config"
)

// NewCamera builds the orbit camera described by cc.
func NewCamera(cc config.Camera, aspect float32) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera(mgl32.Vec3(cc.Target), cc.Distance, mgl32.DegToRad(cc.FOV), aspect)
	cam.NearPlane = cc.Near
	cam.FarPlane = cc.Far
	cam.Yaw = cc.Yaw
	cam.Pitch = cc.Pitch
	cam.UpdatePosition()
	return cam
}
