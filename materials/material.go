package materials

import (
	"scenegraph/core"
)

// Material describes the Phong surface properties of a leaf. It is a plain
// value: assigning it copies it, so a leaf never shares its material with
// the caller that set it.
type Material struct {
	Name string

	Ambient  core.Color
	Diffuse  core.Color
	Specular core.Color
	Emission core.Color

	Shininess float32

	// Ray-tracing style coefficients. The real-time backend ignores them
	// but they are carried so scenes round-trip unchanged.
	Absorption      float32
	Reflection      float32
	Transparency    float32
	RefractiveIndex float32
}

// Uniform is the GPU-side representation of material properties.
// Must be aligned to std140 layout rules.
type Uniform struct {
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Emission  [4]float32
	Shininess float32
	_pad      [3]float32
}

// New creates a material with default values.
func New(name string) Material {
	return Material{
		Name:            name,
		Ambient:         core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		Diffuse:         core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
		Specular:        core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Emission:        core.Color{A: 1},
		Shininess:       32,
		Absorption:      1,
		RefractiveIndex: 1,
	}
}

// ToUniform converts the material to its GPU representation.
func (m Material) ToUniform() Uniform {
	return Uniform{
		Ambient:   m.Ambient.Vec4(),
		Diffuse:   m.Diffuse.Vec4(),
		Specular:  m.Specular.Vec4(),
		Emission:  m.Emission.Vec4(),
		Shininess: m.Shininess,
	}
}

// WithColor returns m with ambient and diffuse derived from c.
func (m Material) WithColor(c core.Color) Material {
	m.Diffuse = c
	m.Ambient = core.Color{R: c.R * 0.25, G: c.G * 0.25, B: c.B * 0.25, A: c.A}
	return m
}

// Named looks up a preset by lowercase name.
func Named(name string) (Material, bool) {
	switch name {
	case "default":
		return Default(), true
	case "red":
		return Red(), true
	case "green":
		return Green(), true
	case "blue":
		return Blue(), true
	case "metal":
		return Metal(), true
	case "skin":
		return Skin(), true
	}
	return Material{}, false
}

// --- Default Material Library ---

func Default() Material {
	return New("Default")
}

func Red() Material {
	return New("Red").WithColor(core.ColorRed)
}

func Green() Material {
	return New("Green").WithColor(core.ColorGreen)
}

func Blue() Material {
	return New("Blue").WithColor(core.ColorBlue)
}

// Metal creates a shiny, mostly reflective material.
func Metal() Material {
	m := New("Metal").WithColor(core.Color{R: 0.9, G: 0.9, B: 0.9, A: 1})
	m.Specular = core.ColorWhite
	m.Shininess = 128
	m.Reflection = 0.8
	m.Absorption = 0.2
	return m
}

func Skin() Material {
	m := New("Skin").WithColor(core.Color{R: 0.86, G: 0.67, B: 0.53, A: 1})
	m.Specular = core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
	m.Shininess = 8
	return m
}

// Emissive creates a self-illuminating material.
func Emissive(r, g, b float32) Material {
	m := New("Emissive").WithColor(core.Color{R: r, G: g, B: b, A: 1})
	m.Emission = core.Color{R: r, G: g, B: b, A: 1}
	return m
}
