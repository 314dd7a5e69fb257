package animation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/sgraph"
)

// Joint names driven by Humanoid.
const (
	JointHumanoid     = "humanoid"
	JointLeftHand     = "lefthand"
	JointLeftForearm  = "leftforearm"
	JointRightHand    = "righthand"
	JointRightForearm = "rightforearm"
)

// Humanoid returns the arm-swing and orbit choreography of the demo
// humanoid. Time is in degrees of swing: the arms sweep through one cycle
// every 360 units, the forearms counter-rotate at a fifth of the arm
// angle, and the whole figure tilts 20° and circles the origin.
func Humanoid() map[string]sgraph.AnimationFunc {
	return map[string]sgraph.AnimationFunc{
		JointLeftHand: func(t float32) mgl32.Mat4 {
			left, _ := armAngles(t)
			return mgl32.HomogRotate3DZ(left.hand)
		},
		JointLeftForearm: func(t float32) mgl32.Mat4 {
			left, _ := armAngles(t)
			return mgl32.HomogRotate3DZ(left.elbow)
		},
		JointRightHand: func(t float32) mgl32.Mat4 {
			_, right := armAngles(t)
			return mgl32.HomogRotate3DZ(right.hand)
		},
		JointRightForearm: func(t float32) mgl32.Mat4 {
			_, right := armAngles(t)
			return mgl32.HomogRotate3DZ(right.elbow)
		},
		JointHumanoid: orbit,
	}
}

// armPose holds one arm's hand and forearm angles in radians.
type armPose struct {
	hand, elbow float32
}

// armAngles returns both arm poses at t. For t >= 0 the right arm mirrors
// the left, except at exactly half a cycle where the left forearm folds
// through 180°. For t < 0 the remainder stays negative and both arms take
// the same pose.
func armAngles(t float32) (left, right armPose) {
	w := math32.Mod(t, 360)
	hand, elbow := w, w
	switch {
	case w > 180:
		hand, elbow = -w, 0.2*w
	case w < 180:
		hand, elbow = w, -0.2*w
	}
	left = armPose{mgl32.DegToRad(hand), mgl32.DegToRad(elbow)}

	right = left
	switch {
	case hand <= -180:
		right = armPose{mgl32.DegToRad(w), mgl32.DegToRad(-0.2 * w)}
	case hand > 0:
		right = armPose{mgl32.DegToRad(-w), mgl32.DegToRad(0.2 * w)}
	}
	return left, right
}

func orbit(t float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(20)).
		Mul4(mgl32.HomogRotate3DY(0.002 * t)).
		Mul4(mgl32.Translate3D(30, 0, 30))
}

// Register adds every channel to sg, replacing channels with the same
// node name.
func Register(sg *sgraph.Scenegraph, channels map[string]sgraph.AnimationFunc) {
	for name, fn := range channels {
		sg.AddAnimation(name, fn)
	}
}
