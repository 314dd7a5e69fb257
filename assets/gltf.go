package assets

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

// gltfPrim is one converted mesh primitive.
type gltfPrim struct {
	mesh     string
	material materials.Material
	texture  string
}

// LoadGLTF opens a .glb or .gltf file and converts its default scene into
// a subtree of sg. Every glTF node becomes a transform node carrying the
// node's TRS (or matrix); its primitives and child nodes hang below it,
// grouped when there is more than one. Meshes are registered as
// "<file>/<mesh>/p<n>". Only externally referenced images are registered
// as textures. PBR metallic-roughness is approximated to Phong.
func LoadGLTF(path string, sg *sgraph.Scenegraph) (sgraph.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// 1. textures
	texNames := make([]string, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		img := doc.Images[*gt.Source]
		if img.BufferView != nil || img.URI == "" || img.IsEmbeddedResource() {
			slog.Warn("gltf: embedded image skipped", "path", path, "image", *gt.Source)
			continue
		}
		name := fmt.Sprintf("%s/tex%d", base, i)
		sg.AddTexture(name, filepath.Join(dir, filepath.FromSlash(img.URI)))
		texNames[i] = name
	}

	// 2. materials
	mats := make([]gltfPrim, len(doc.Materials))
	for i, gm := range doc.Materials {
		mats[i] = convertMaterial(gm, texNames)
	}

	// 3. mesh primitives
	meshPrims := make([][]gltfPrim, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		meshName := gm.Name
		if meshName == "" {
			meshName = fmt.Sprintf("mesh%d", mi)
		}
		for pi, prim := range gm.Primitives {
			name := fmt.Sprintf("%s/%s/p%d", base, meshName, pi)
			m, err := loadGLTFPrimitive(doc, name, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			sg.AddPolygonMesh(name, m)

			p := gltfPrim{mesh: name, material: materials.Default()}
			if prim.Material != nil && *prim.Material < len(mats) {
				p.material = mats[*prim.Material].material
				p.texture = mats[*prim.Material].texture
			}
			meshPrims[mi] = append(meshPrims[mi], p)
		}
	}

	// 4. nodes, resolved recursively from the roots
	var build func(i int, depth int) (sgraph.Node, error)
	build = func(i int, depth int) (sgraph.Node, error) {
		if depth > len(doc.Nodes) {
			return nil, fmt.Errorf("gltf %q: node hierarchy has a cycle", path)
		}
		gn := doc.Nodes[i]
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node%d", i)
		}

		var children []sgraph.Node
		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			for pi, p := range meshPrims[*gn.Mesh] {
				leaf := sgraph.NewLeafNode(fmt.Sprintf("%s/p%d", name, pi), p.mesh)
				leaf.SetMaterial(p.material)
				leaf.SetTextureName(p.texture)
				children = append(children, leaf)
			}
		}
		for _, ci := range gn.Children {
			if ci >= len(doc.Nodes) {
				continue
			}
			c, err := build(ci, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}

		t := sgraph.NewTransformNode(name, nodeMatrix(gn))
		switch len(children) {
		case 0:
		case 1:
			t.SetChild(children[0])
		default:
			t.SetChild(sgraph.NewGroupNode(name+"/group", children...))
		}
		return t, nil
	}

	root := sgraph.NewGroupNode(base)
	for _, ri := range rootNodes(doc) {
		n, err := build(ri, 0)
		if err != nil {
			return nil, err
		}
		if err := root.AddChild(n); err != nil {
			return nil, err
		}
	}
	slog.Debug("gltf loaded", "path", path, "nodes", len(doc.Nodes), "meshes", len(doc.Meshes))
	return root, nil
}

// rootNodes returns the default scene's nodes, or every parentless node
// when the document has no default scene.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeMatrix returns the node's explicit matrix if set, otherwise T × R × S.
func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	if m := gn.MatrixOrDefault(); m != identity16 {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	s := gn.ScaleOrDefault()
	tr := core.Transform{
		Position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
	return tr.Matrix()
}

func convertMaterial(gm *gltf.Material, texNames []string) gltfPrim {
	mat := materials.New(gm.Name)
	var tex string

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat = mat.WithColor(core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])})
		mat.Transparency = 1 - float32(cf[3])
		if pbr.BaseColorTexture != nil {
			if idx := pbr.BaseColorTexture.Index; idx < len(texNames) {
				tex = texNames[idx]
			}
		}
		// roughness → shininess, metallic → specular intensity
		roughness := float32(pbr.RoughnessFactorOrDefault())
		metallic := float32(pbr.MetallicFactorOrDefault())
		mat.Shininess = (1-roughness)*(1-roughness)*128 + 1
		s := metallic * 0.7
		mat.Specular = core.Color{R: s, G: s, B: s, A: 1}
		mat.Reflection = metallic
	}
	e := gm.EmissiveFactor
	mat.Emission = core.Color{R: float32(e[0]), G: float32(e[1]), B: float32(e[2]), A: 1}
	return gltfPrim{material: mat, texture: tex}
}

// loadGLTFPrimitive converts one glTF mesh primitive into a polygon mesh.
// Strips, loops and fans are expanded into plain line or triangle lists.
func loadGLTFPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*core.PolygonMesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acc, err = accessor(doc, idx); err == nil {
			normals, err = modeler.ReadNormal(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acc, err = accessor(doc, idx); err == nil {
			uvs, err = modeler.ReadTextureCoord(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3(p),
			Normal:   mgl32.Vec3{0, 1, 0},
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image
			v.UV = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err == nil {
			indices, err = modeler.ReadIndices(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		for _, ix := range indices {
			if int(ix) >= len(verts) {
				return nil, fmt.Errorf("indices: vertex %d out of range (have %d)", ix, len(verts))
			}
		}
	}

	primitive := core.Triangles
	switch prim.Mode {
	case gltf.PrimitiveLines, gltf.PrimitiveLineLoop, gltf.PrimitiveLineStrip:
		primitive = core.Lines
	case gltf.PrimitivePoints:
		primitive = core.Points
	}
	switch prim.Mode {
	case gltf.PrimitiveLineLoop, gltf.PrimitiveLineStrip, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		if indices == nil {
			indices = sequence(len(verts))
		}
		indices = expandIndices(prim.Mode, indices)
	}

	m := core.NewPolygonMesh(name, verts, indices)
	m.Primitive = primitive
	if len(normals) == 0 && m.Primitive == core.Triangles {
		if indices == nil {
			indices = sequence(len(verts))
		}
		generateNormals(m.Vertices, indices, nil)
	}
	return m, nil
}

// accessor returns doc.Accessors[idx] or an error when idx is out of range.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (have %d)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func sequence(n int) []uint32 {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// expandIndices turns strip, loop and fan index lists into line or
// triangle lists. Odd strip triangles swap their first two corners to keep
// the winding.
func expandIndices(mode gltf.PrimitiveMode, idx []uint32) []uint32 {
	var out []uint32
	switch mode {
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 1; i < len(idx); i++ {
			out = append(out, idx[i-1], idx[i])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			out = append(out, idx[len(idx)-1], idx[0])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(idx); i++ {
			if i%2 == 1 {
				out = append(out, idx[i-1], idx[i-2], idx[i])
			} else {
				out = append(out, idx[i-2], idx[i-1], idx[i])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(idx); i++ {
			out = append(out, idx[0], idx[i-1], idx[i])
		}
	default:
		return idx
	}
	return out
}
