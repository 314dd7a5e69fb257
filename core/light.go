package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Light describes a light source's photometric properties and pose.
//
// Position is homogeneous: w = 1 for point and spot lights, w = 0 for
// directional lights (the xyz part is then the direction towards the light).
// SpotDirection always has w = 0. A SpotCutoff of 180 degrees or more means
// the light is not a spot light.
type Light struct {
	Ambient       mgl32.Vec3
	Diffuse       mgl32.Vec3
	Specular      mgl32.Vec3
	Position      mgl32.Vec4
	SpotDirection mgl32.Vec4
	SpotCutoff    float32 // degrees
}

// NewLight returns a white point light at the origin.
func NewLight() Light {
	return Light{
		Ambient:       mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:       mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:      mgl32.Vec3{1, 1, 1},
		Position:      mgl32.Vec4{0, 0, 0, 1},
		SpotDirection: mgl32.Vec4{0, 0, -1, 0},
		SpotCutoff:    180,
	}
}

// NewDirectionalLight returns a white light shining along dir.
func NewDirectionalLight(dir mgl32.Vec3) Light {
	l := NewLight()
	towards := dir.Normalize().Mul(-1)
	l.Position = towards.Vec4(0)
	return l
}

func (l *Light) SetPosition(x, y, z float32) {
	l.Position = mgl32.Vec4{x, y, z, 1}
}

func (l *Light) SetSpotDirection(x, y, z float32) {
	l.SpotDirection = mgl32.Vec4{x, y, z, 0}
}

func (l Light) IsSpot() bool {
	return l.SpotCutoff < 180
}

func (l Light) IsDirectional() bool {
	return l.Position.W() == 0
}

// Transform returns a copy of l with its position and spot direction
// mapped by m. The receiver is not modified.
func (l Light) Transform(m mgl32.Mat4) Light {
	out := l
	out.Position = m.Mul4x1(l.Position)
	out.SpotDirection = m.Mul4x1(l.SpotDirection)
	return out
}
