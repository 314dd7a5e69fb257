package app

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/sgraph"
)

// skyKey is the clear colour at one phase of the day.
type skyKey struct {
	t   float32 // phase 0..1
	sky core.Color
}

// skyKeys is ordered by phase and wraps (0 == 1).
var skyKeys = []skyKey{
	{0.00, core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1}}, // noon
	{0.22, core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1}}, // golden hour
	{0.30, core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1}}, // dusk
	{0.50, core.Color{R: 0.04, G: 0.04, B: 0.08, A: 1}}, // midnight
	{0.70, core.Color{R: 0.40, G: 0.18, B: 0.24, A: 1}}, // pre-dawn
	{0.78, core.Color{R: 0.88, G: 0.45, B: 0.22, A: 1}}, // sunrise
}

// DayNight maps animation time to a phase of a day lasting Period time
// units. Phase 0 is noon, 0.25 sunset, 0.5 midnight and 0.75 sunrise.
type DayNight struct {
	Period float32
}

func NewDayNight(period float32) DayNight {
	if period <= 0 {
		period = 7200
	}
	return DayNight{Period: period}
}

func (dn DayNight) Phase(t float32) float32 {
	p := t / dn.Period
	return p - math32.Floor(p)
}

// SunChannel rotates the sun node once per day about the Z axis. The sun's
// light points straight down at phase 0.
func (dn DayNight) SunChannel() sgraph.AnimationFunc {
	return func(t float32) mgl32.Mat4 {
		return mgl32.HomogRotate3DZ(2 * math32.Pi * dn.Phase(t))
	}
}

// Sky returns the interpolated clear colour at time t.
func (dn DayNight) Sky(t float32) core.Color {
	p := dn.Phase(t)
	n := len(skyKeys)
	for i := range skyKeys {
		a, b := skyKeys[i], skyKeys[(i+1)%n]
		tb := b.t
		if i == n-1 {
			tb = 1
		}
		if p >= a.t && p < tb {
			return lerpColor(a.sky, b.sky, (p-a.t)/(tb-a.t))
		}
	}
	return skyKeys[0].sky
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

// Clock formats the phase at t as a 24 hour time of day.
func (dn DayNight) Clock(t float32) string {
	hours := math32.Mod(dn.Phase(t)*24+12, 24)
	h := int(hours)
	m := int((hours - float32(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}
