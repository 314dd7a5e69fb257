package animation

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"scenegraph/sgraph"
)

// Clip is a set of named channels authored in YAML:
//
//	name: wave
//	time_scale: 1
//	channels:
//	  - node: head
//	    tracks:
//	      - rotate: {axis: [0, 1, 0], degrees: 30}
//	        wave: sine
//	        period: 4
//	      - translate: [0, 0.25, 0]
//	        wave: triangle
//	        period: 2
//
// Each track scales its rotation angle, translation or scale offset by the
// wave value at t/period + phase. A channel's matrix is the product of its
// tracks in order.
type Clip struct {
	Name      string    `yaml:"name"`
	TimeScale float32   `yaml:"time_scale"`
	Channels  []Channel `yaml:"channels"`
}

type Channel struct {
	Node   string  `yaml:"node"`
	Tracks []Track `yaml:"tracks"`
}

type Track struct {
	Rotate    *Rotation  `yaml:"rotate,omitempty"`
	Translate *[3]float32 `yaml:"translate,omitempty"`
	Scale     *[3]float32 `yaml:"scale,omitempty"`

	Wave   Wave    `yaml:"wave"`
	Period float32 `yaml:"period"`
	Phase  float32 `yaml:"phase"`
}

type Rotation struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

// LoadClip reads and validates a clip file.
func LoadClip(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clip %q: %w", path, err)
	}
	c, err := ParseClip(data)
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", path, err)
	}
	return c, nil
}

func ParseClip(data []byte) (*Clip, error) {
	var c Clip
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse clip: %w", err)
	}
	if c.TimeScale == 0 {
		c.TimeScale = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Clip) Validate() error {
	var errs []error
	for i, ch := range c.Channels {
		if ch.Node == "" {
			errs = append(errs, fmt.Errorf("channel %d: missing node", i))
		}
		for j, tr := range ch.Tracks {
			if err := tr.validate(); err != nil {
				errs = append(errs, fmt.Errorf("channel %d (%s) track %d: %w", i, ch.Node, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (tr Track) validate() error {
	kinds := 0
	if tr.Rotate != nil {
		kinds++
		axis := mgl32.Vec3(tr.Rotate.Axis)
		if axis.Len() == 0 {
			return errors.New("rotation axis is zero")
		}
	}
	if tr.Translate != nil {
		kinds++
	}
	if tr.Scale != nil {
		kinds++
	}
	if kinds != 1 {
		return errors.New("exactly one of rotate, translate or scale is required")
	}
	if !tr.Wave.Valid() {
		return fmt.Errorf("unknown wave %q", tr.Wave)
	}
	if tr.Period <= 0 {
		return errors.New("period must be positive")
	}
	return nil
}

// Eval returns the track matrix at time t.
func (tr Track) Eval(t float32) mgl32.Mat4 {
	v := tr.Wave.Eval(t/tr.Period + tr.Phase)
	switch {
	case tr.Rotate != nil:
		axis := mgl32.Vec3(tr.Rotate.Axis).Normalize()
		return mgl32.HomogRotate3D(mgl32.DegToRad(tr.Rotate.Degrees*v), axis)
	case tr.Translate != nil:
		off := mgl32.Vec3(*tr.Translate).Mul(v)
		return mgl32.Translate3D(off.X(), off.Y(), off.Z())
	case tr.Scale != nil:
		s := mgl32.Vec3(*tr.Scale).Mul(v)
		return mgl32.Scale3D(1+s.X(), 1+s.Y(), 1+s.Z())
	}
	return mgl32.Ident4()
}

// Eval returns the channel matrix at time t.
func (ch Channel) Eval(t float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, tr := range ch.Tracks {
		m = m.Mul4(tr.Eval(t))
	}
	return m
}

// AnimationFuncs converts the clip to scene graph channels. Two channels
// for the same node are composed in file order.
func (c *Clip) AnimationFuncs() map[string]sgraph.AnimationFunc {
	byNode := make(map[string][]Channel)
	for _, ch := range c.Channels {
		byNode[ch.Node] = append(byNode[ch.Node], ch)
	}
	scale := c.TimeScale
	out := make(map[string]sgraph.AnimationFunc, len(byNode))
	for node, chans := range byNode {
		out[node] = func(t float32) mgl32.Mat4 {
			m := mgl32.Ident4()
			for _, ch := range chans {
				m = m.Mul4(ch.Eval(t * scale))
			}
			return m
		}
	}
	return out
}

// Register adds the clip's channels to sg.
func (c *Clip) Register(sg *sgraph.Scenegraph) {
	Register(sg, c.AnimationFuncs())
}
