package assets

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
)

var primitiveColor = core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}

// cubeFaces lists each face as normal, u axis, v axis.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

// Cube returns an axis-aligned cube of edge size centred on the origin, with
// four vertices per face so each face gets a flat normal.
func Cube(size float32) *core.PolygonMesh {
	s := size / 2
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range corners {
			p := n.Add(u.Mul(c.X())).Add(v.Mul(c.Y())).Mul(s)
			vertices = append(vertices, core.Vertex{
				Position: p,
				Normal:   n,
				UV:       mgl32.Vec2{(c.X() + 1) / 2, (c.Y() + 1) / 2},
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return core.NewPolygonMesh("cube", vertices, indices)
}

// Sphere generates a UV sphere.
func Sphere(radius float32, segments, rings int) *core.PolygonMesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    primitiveColor,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return core.NewPolygonMesh("sphere", vertices, indices)
}

// Cylinder generates a capped cylinder along Y, centred on the origin.
func Cylinder(radius, height float32, segments int) *core.PolygonMesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []core.Vertex
	var indices []uint32
	half := height / 2

	for i := 0; i <= segments; i++ {
		sinT, cosT := math32.Sincos(float32(i) * 2 * math32.Pi / float32(segments))
		normal := mgl32.Vec3{cosT, 0, sinT}
		u := float32(i) / float32(segments)

		vertices = append(vertices,
			core.Vertex{Position: mgl32.Vec3{cosT * radius, -half, sinT * radius}, Normal: normal, UV: mgl32.Vec2{u, 0}, Color: primitiveColor},
			core.Vertex{Position: mgl32.Vec3{cosT * radius, half, sinT * radius}, Normal: normal, UV: mgl32.Vec2{u, 1}, Color: primitiveColor},
		)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base+2, base+1, base+3)
	}

	vertices, indices = appendCap(vertices, indices, radius, half, segments)
	vertices, indices = appendCap(vertices, indices, radius, -half, segments)

	return core.NewPolygonMesh("cylinder", vertices, indices)
}

// appendCap adds a triangle fan closing the cylinder at height y. The
// winding flips for the bottom cap so both face outwards.
func appendCap(vertices []core.Vertex, indices []uint32, radius, y float32, segments int) ([]core.Vertex, []uint32) {
	normal := mgl32.Vec3{0, 1, 0}
	if y < 0 {
		normal = mgl32.Vec3{0, -1, 0}
	}
	center := uint32(len(vertices))
	vertices = append(vertices, core.Vertex{
		Position: mgl32.Vec3{0, y, 0},
		Normal:   normal,
		UV:       mgl32.Vec2{0.5, 0.5},
		Color:    primitiveColor,
	})
	for i := 0; i <= segments; i++ {
		sinT, cosT := math32.Sincos(float32(i) * 2 * math32.Pi / float32(segments))
		vertices = append(vertices, core.Vertex{
			Position: mgl32.Vec3{cosT * radius, y, sinT * radius},
			Normal:   normal,
			UV:       mgl32.Vec2{cosT*0.5 + 0.5, sinT*0.5 + 0.5},
			Color:    primitiveColor,
		})
	}
	for i := 0; i < segments; i++ {
		a, b := center+1+uint32(i), center+2+uint32(i)
		if y < 0 {
			indices = append(indices, center, a, b)
		} else {
			indices = append(indices, center, b, a)
		}
	}
	return vertices, indices
}

// Quad returns a width × height rectangle in the XY plane facing +Z.
func Quad(width, height float32) *core.PolygonMesh {
	w, h := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-w, -h, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, -h, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, h, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{-w, h, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
	}
	return core.NewPolygonMesh("quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

var (
	gridColor  = core.Color{R: 0.35, G: 0.35, B: 0.35, A: 1}
	gridXColor = core.Color{R: 0.8, G: 0.15, B: 0.15, A: 1}
	gridZColor = core.Color{R: 0.15, G: 0.35, B: 0.9, A: 1}
)

// Grid returns a line mesh on the XZ plane spanning size, with divisions
// cells per side. The lines through the origin are coloured red along X
// and blue along Z when divisions is even.
func Grid(size float32, divisions int) *core.PolygonMesh {
	divisions = max(divisions, 1)
	half := size / 2
	step := size / float32(divisions)
	up := mgl32.Vec3{0, 1, 0}

	var vertices []core.Vertex
	var indices []uint32
	line := func(a, b mgl32.Vec3, c core.Color) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: up, Color: c},
			core.Vertex{Position: b, Normal: up, Color: c},
		)
		indices = append(indices, base, base+1)
	}

	centre := divisions%2 == 0
	for i := 0; i <= divisions; i++ {
		d := -half + float32(i)*step
		along, across := gridColor, gridColor
		if centre && i == divisions/2 {
			along, across = gridZColor, gridXColor
		}
		line(mgl32.Vec3{d, 0, -half}, mgl32.Vec3{d, 0, half}, along)
		line(mgl32.Vec3{-half, 0, d}, mgl32.Vec3{half, 0, d}, across)
	}

	m := core.NewPolygonMesh("grid", vertices, indices)
	m.Primitive = core.Lines
	return m
}
