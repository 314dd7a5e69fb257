package assets

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	v [3]faceVertex
}

// faceVertex holds 0-based position / UV / normal indices, -1 when absent.
type faceVertex struct {
	v, vt, vn int
}

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

// objData is the parsed content of one .obj stream.
type objData struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	objects   []objObject
	mtllibs   []string
}

// mtlEntry is one newmtl block: a material plus its optional diffuse map.
type mtlEntry struct {
	material materials.Material
	texture  string
}

// LoadOBJ parses a Wavefront .obj file into sg. Each object or group
// becomes a mesh registered as "<file>/<object>" and a leaf under the
// returned group node. Materials come from any referenced mtllib; a
// diffuse map is registered as a texture named after the material.
func LoadOBJ(path string, sg *sgraph.Scenegraph) (sgraph.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	data, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	if len(data.objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	dir := filepath.Dir(path)
	mtl := map[string]mtlEntry{}
	for _, lib := range data.mtllibs {
		loaded, err := loadMTL(filepath.Join(dir, lib))
		if err != nil {
			slog.Warn("obj: skipping material library", "obj", path, "mtllib", lib, "err", err)
			continue
		}
		for k, v := range loaded {
			mtl[k] = v
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	group := sgraph.NewGroupNode(base)
	for _, obj := range data.objects {
		meshName := base + "/" + obj.name
		sg.AddPolygonMesh(meshName, data.buildMesh(meshName, obj.faces))

		leaf := sgraph.NewLeafNode(meshName, meshName)
		if entry, ok := mtl[obj.matName]; ok {
			leaf.SetMaterial(entry.material)
			if entry.texture != "" {
				texName := base + "/" + obj.matName
				sg.AddTexture(texName, filepath.Join(dir, entry.texture))
				leaf.SetTextureName(texName)
			}
		}
		if err := group.AddChild(leaf); err != nil {
			return nil, err
		}
	}
	slog.Debug("obj loaded", "path", path, "objects", len(data.objects), "materials", len(mtl))
	return group, nil
}

func parseOBJ(r io.Reader) (*objData, error) {
	data := &objData{}
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if fields[0] == "v" {
				data.positions = append(data.positions, v)
			} else {
				data.normals = append(data.normals, v)
			}

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: vt needs two components", line)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texture coordinate", line)
			}
			data.uvs = append(data.uvs, mgl32.Vec2{float32(u), float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				data.objects = append(data.objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			data.mtllibs = append(data.mtllibs, fields[1:]...)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least three vertices", line)
			}
			var fverts []faceVertex
			for _, tok := range fields[1:] {
				fv, err := data.parseFaceVertex(tok)
				if err != nil {
					return nil, fmt.Errorf("line %d: face vertex %q: %w", line, tok, err)
				}
				fverts = append(fverts, fv)
			}
			// fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(fverts); i++ {
				cur.faces = append(cur.faces, objFace{v: [3]faceVertex{fverts[0], fverts[i], fverts[i+1]}})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(cur.faces) > 0 {
		data.objects = append(data.objects, *cur)
	}
	return data, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected three components, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices
// are 1-based; negative indices count back from the current pool end.
// An index that is zero, malformed or outside its pool is an error.
func (d *objData) parseFaceVertex(tok string) (faceVertex, error) {
	resolve := func(s, what string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return -1, fmt.Errorf("bad %s index %q", what, s)
		}
		idx := i - 1
		if i < 0 {
			idx = n + i
		}
		if i == 0 || idx < 0 || idx >= n {
			return -1, fmt.Errorf("%s index %d out of range (have %d)", what, i, n)
		}
		return idx, nil
	}
	parts := strings.Split(tok, "/")
	if parts[0] == "" {
		return faceVertex{}, fmt.Errorf("missing position index")
	}
	fv := faceVertex{v: -1, vt: -1, vn: -1}
	var err error
	if fv.v, err = resolve(parts[0], "position", len(d.positions)); err != nil {
		return fv, err
	}
	if len(parts) > 1 {
		if fv.vt, err = resolve(parts[1], "texture", len(d.uvs)); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 {
		if fv.vn, err = resolve(parts[2], "normal", len(d.normals)); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

// buildMesh converts face data into a mesh with deduplicated vertices.
// Face indices were range checked while parsing.
func (d *objData) buildMesh(name string, faces []objFace) *core.PolygonMesh {
	index := map[faceVertex]uint32{}
	var vertices []core.Vertex
	var indices []uint32
	var missing []bool
	anyMissing := false

	for _, face := range faces {
		for _, k := range face.v {
			if idx, ok := index[k]; ok {
				indices = append(indices, idx)
				continue
			}
			v := core.Vertex{
				Position: d.positions[k.v],
				Normal:   mgl32.Vec3{0, 1, 0},
				Color:    core.ColorWhite,
			}
			if k.vn >= 0 {
				v.Normal = d.normals[k.vn]
			}
			if k.vt >= 0 {
				v.UV = d.uvs[k.vt]
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			missing = append(missing, k.vn < 0)
			anyMissing = anyMissing || k.vn < 0
			index[k] = idx
			indices = append(indices, idx)
		}
	}

	if anyMissing {
		generateNormals(vertices, indices, missing)
	}
	return core.NewPolygonMesh(name, vertices, indices)
}

// generateNormals writes area-weighted smooth normals to the vertices
// flagged in missing, or to every vertex when missing is nil.
func generateNormals(vertices []core.Vertex, indices []uint32, missing []bool) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if missing != nil && !missing[i] {
			continue
		}
		if accum[i].Len() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}

func loadMTL(path string) (map[string]mtlEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string]mtlEntry{}
	var cur *mtlEntry
	var curName string
	flush := func() {
		if cur != nil {
			out[curName] = *cur
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "newmtl" {
			flush()
			curName = strings.Join(fields[1:], " ")
			cur = &mtlEntry{material: materials.New(curName)}
			continue
		}
		if cur == nil {
			continue
		}

		m := &cur.material
		switch fields[0] {
		case "Ka", "Kd", "Ks", "Ke":
			c, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("mtl %q %s: %w", curName, fields[0], err)
			}
			col := core.Color{R: c[0], G: c[1], B: c[2], A: 1}
			switch fields[0] {
			case "Ka":
				m.Ambient = col
			case "Kd":
				m.Diffuse = col
			case "Ks":
				m.Specular = col
			case "Ke":
				m.Emission = col
			}
		case "Ns", "Ni", "d", "Tr":
			if len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return nil, fmt.Errorf("mtl %q %s: %w", curName, fields[0], err)
			}
			x := float32(v)
			switch fields[0] {
			case "Ns":
				m.Shininess = math32.Max(1, x)
			case "Ni":
				m.RefractiveIndex = x
			case "d":
				m.Transparency = 1 - x
			case "Tr":
				m.Transparency = x
			}
		case "map_Kd":
			if len(fields) > 1 {
				cur.texture = fields[len(fields)-1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}
