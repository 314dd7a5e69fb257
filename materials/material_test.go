package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scenegraph/core"
)

func TestMaterialIsValue(t *testing.T) {
	a := Red()
	b := a
	b.Diffuse = core.ColorBlue
	assert.Equal(t, core.ColorRed, a.Diffuse)
}

func TestNamedPresets(t *testing.T) {
	for _, name := range []string{"default", "red", "green", "blue", "metal", "skin"} {
		m, ok := Named(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, m.Name)
	}
	_, ok := Named("plaid")
	assert.False(t, ok)
}

func TestToUniform(t *testing.T) {
	u := Metal().ToUniform()
	assert.Equal(t, [4]float32{1, 1, 1, 1}, u.Specular)
	assert.Equal(t, float32(128), u.Shininess)
}
