// Package animation authors animation channels for a scene graph: periodic
// waves, the humanoid choreography and YAML clips. The scene graph itself
// only sees name → function channels.
package animation

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Wave is a periodic function of phase with period 1 and range [-1, 1].
type Wave string

const (
	Sine     Wave = "sine"
	Triangle Wave = "triangle"
	Sawtooth Wave = "sawtooth"
	Square   Wave = "square"
)

// Eval returns the wave value at phase. Unknown waves evaluate to 0.
func (w Wave) Eval(phase float32) float32 {
	f := frac(phase)
	switch w {
	case Sine:
		return math32.Sin(2 * math32.Pi * f)
	case Triangle:
		// 0 → 1 → 0 → -1 → 0
		switch {
		case f < 0.25:
			return 4 * f
		case f < 0.75:
			return 2 - 4*f
		default:
			return 4*f - 4
		}
	case Sawtooth:
		return 2*f - 1
	case Square:
		if f < 0.5 {
			return 1
		}
		return -1
	}
	return 0
}

func (w Wave) Valid() bool {
	switch w {
	case Sine, Triangle, Sawtooth, Square:
		return true
	}
	return false
}

func ParseWave(s string) (Wave, error) {
	w := Wave(s)
	if !w.Valid() {
		return "", fmt.Errorf("unknown wave %q", s)
	}
	return w, nil
}

func frac(x float32) float32 {
	return x - math32.Floor(x)
}
