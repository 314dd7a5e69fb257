package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Primitive controls how the renderer assembles the index list.
type Primitive int

const (
	Triangles Primitive = iota // default
	Lines                      // pairs of indices form line segments
	Points
)

func (p Primitive) String() string {
	switch p {
	case Lines:
		return "lines"
	case Points:
		return "points"
	default:
		return "triangles"
	}
}

// PolygonMesh holds CPU-side vertex/index data. A mesh is registered once
// in a scene graph under a name and instanced by any number of leaves.
type PolygonMesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive

	// Local-space bounds, valid when HasBounds is set.
	Min, Max  mgl32.Vec3
	HasBounds bool
}

// NewPolygonMesh builds a mesh and pre-computes its local-space bounds.
func NewPolygonMesh(name string, vertices []Vertex, indices []uint32) *PolygonMesh {
	m := &PolygonMesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		m.Min, m.Max = bounds(vertices)
		m.HasBounds = true
	}
	return m
}

// TriangleCount returns the number of triangles drawn for this mesh, or 0
// for line and point meshes.
func (m *PolygonMesh) TriangleCount() int {
	if m.Primitive != Triangles {
		return 0
	}
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

func bounds(vertices []Vertex) (mgl32.Vec3, mgl32.Vec3) {
	min := vertices[0].Position
	max := vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}
