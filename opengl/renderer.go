// Package opengl implements the scene graph renderer boundary on an
// OpenGL 4.1 core context.
package opengl

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"unsafe"

	"github.com/anthonynsimon/bild/transform"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/assets"
	"scenegraph/core"
	"scenegraph/materials"
	"scenegraph/sgraph"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	VertexCount int32
	HasIndices  bool
	Mode        uint32
	Triangles   int
}

type materialLocs struct {
	ambient, diffuse, specular, emission, shininess int32
}

type lightLocs struct {
	ambient, diffuse, specular, position, spotDirection, spotCutoff int32
}

var _ sgraph.Renderer = (*Renderer)(nil)

// Renderer draws scene graph leaves with a single Phong program. Meshes
// and textures are uploaded when they are registered; DrawMesh only binds
// and draws.
//
// All methods must be called on the goroutine owning the GL context.
type Renderer struct {
	program uint32

	projectionLoc, modelviewLoc, normalLoc int32
	numLightsLoc, texturedLoc, imageLoc    int32
	material                               materialLocs
	lights                                 [MaxLights]lightLocs

	projection mgl32.Mat4
	meshes     map[string]*GPUMesh
	textures   map[string]uint32

	// per-frame stats, reset by Draw
	DrawCalls int
	Triangles int
}

// NewRenderer initialises OpenGL and compiles the shader program.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	slog.Info("opengl: context ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)

	r := &Renderer{
		program:       prog,
		projectionLoc: uniform(prog, "projection"),
		modelviewLoc:  uniform(prog, "modelview"),
		normalLoc:     uniform(prog, "normalmatrix"),
		numLightsLoc:  uniform(prog, "numLights"),
		texturedLoc:   uniform(prog, "textured"),
		imageLoc:      uniform(prog, "image"),
		material: materialLocs{
			ambient:   uniform(prog, "material.ambient"),
			diffuse:   uniform(prog, "material.diffuse"),
			specular:  uniform(prog, "material.specular"),
			emission:  uniform(prog, "material.emission"),
			shininess: uniform(prog, "material.shininess"),
		},
		projection: mgl32.Ident4(),
		meshes:     make(map[string]*GPUMesh),
		textures:   make(map[string]uint32),
	}
	for i := range r.lights {
		p := fmt.Sprintf("light[%d].", i)
		r.lights[i] = lightLocs{
			ambient:       uniform(prog, p+"ambient"),
			diffuse:       uniform(prog, p+"diffuse"),
			specular:      uniform(prog, p+"specular"),
			position:      uniform(prog, p+"position"),
			spotDirection: uniform(prog, p+"spotDirection"),
			spotCutoff:    uniform(prog, p+"spotCutoff"),
		}
	}
	return r, nil
}

// SetProjection sets the projection applied after the model-view matrix.
func (r *Renderer) SetProjection(m mgl32.Mat4) {
	r.projection = m
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer with the given colour.
func (r *Renderer) BeginFrame(sky core.Color) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// AddMesh uploads mesh under name, replacing a previous upload.
func (r *Renderer) AddMesh(name string, mesh *core.PolygonMesh) error {
	if mesh == nil {
		return fmt.Errorf("mesh %q is nil", name)
	}
	if len(mesh.Vertices) == 0 {
		return fmt.Errorf("mesh %q has no vertices", name)
	}
	r.releaseMesh(name)
	r.meshes[name] = upload(mesh)
	return nil
}

// AddTexture decodes the image at path and uploads it under name. Rows
// are flipped so that v=0 samples the bottom of the image.
func (r *Renderer) AddTexture(name, path string) error {
	decoded, err := assets.LoadImage(path)
	if err != nil {
		return err
	}
	img := transform.FlipV(decoded)
	if len(img.Pix) == 0 {
		return fmt.Errorf("texture %q has no pixel data", name)
	}
	r.releaseTexture(name)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(img.Rect.Dx()),
		int32(img.Rect.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&img.Pix[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures[name] = id
	slog.Debug("opengl: texture uploaded", "name", name, "path", path, "size", img.Rect.Size())
	return nil
}

// Draw collects the tree's lights in the space of the stack base, loads
// them into the program and then draws the tree.
func (r *Renderer) Draw(root sgraph.Node, stack *sgraph.MatrixStack) error {
	r.DrawCalls, r.Triangles = 0, 0

	lights := root.Lights(stack)
	if len(lights) > MaxLights {
		slog.Debug("opengl: too many lights, extra ignored", "lights", len(lights), "max", MaxLights)
		lights = lights[:MaxLights]
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.projectionLoc, 1, false, &r.projection[0])
	gl.Uniform1i(r.numLightsLoc, int32(len(lights)))
	for i, l := range lights {
		r.setLight(r.lights[i], l)
	}
	return root.Draw(r, stack)
}

func (r *Renderer) setLight(loc lightLocs, l core.Light) {
	gl.Uniform3fv(loc.ambient, 1, &l.Ambient[0])
	gl.Uniform3fv(loc.diffuse, 1, &l.Diffuse[0])
	gl.Uniform3fv(loc.specular, 1, &l.Specular[0])
	gl.Uniform4fv(loc.position, 1, &l.Position[0])
	gl.Uniform3fv(loc.spotDirection, 1, &l.SpotDirection[0])
	gl.Uniform1f(loc.spotCutoff, l.SpotCutoff)
}

// DrawMesh draws the named mesh with modelview as the model-view matrix.
func (r *Renderer) DrawMesh(meshName string, mat materials.Material, textureName string, modelview mgl32.Mat4) error {
	gpu, ok := r.meshes[meshName]
	if !ok {
		return fmt.Errorf("draw %q: %w", meshName, sgraph.ErrMeshNotFound)
	}
	var tex uint32
	if textureName != "" {
		if tex, ok = r.textures[textureName]; !ok {
			return fmt.Errorf("draw %q with texture %q: %w", meshName, textureName, sgraph.ErrTextureNotFound)
		}
	}

	normal := modelview.Mat3().Inv().Transpose()
	gl.UniformMatrix4fv(r.modelviewLoc, 1, false, &modelview[0])
	gl.UniformMatrix3fv(r.normalLoc, 1, false, &normal[0])

	u := mat.ToUniform()
	gl.Uniform3fv(r.material.ambient, 1, &u.Ambient[0])
	gl.Uniform3fv(r.material.diffuse, 1, &u.Diffuse[0])
	gl.Uniform3fv(r.material.specular, 1, &u.Specular[0])
	gl.Uniform3fv(r.material.emission, 1, &u.Emission[0])
	gl.Uniform1f(r.material.shininess, u.Shininess)

	if tex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform1i(r.imageLoc, 0)
		gl.Uniform1i(r.texturedLoc, 1)
	} else {
		gl.Uniform1i(r.texturedLoc, 0)
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gpu.Mode, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gpu.Mode, 0, gpu.VertexCount)
	}
	gl.BindVertexArray(0)

	r.DrawCalls++
	r.Triangles += gpu.Triangles
	return nil
}

// Dispose frees every uploaded mesh and texture and the shader program.
func (r *Renderer) Dispose() error {
	for _, name := range slices.Collect(maps.Keys(r.meshes)) {
		r.releaseMesh(name)
	}
	for _, name := range slices.Collect(maps.Keys(r.textures)) {
		r.releaseTexture(name)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	return nil
}

func (r *Renderer) releaseMesh(name string) {
	gpu, ok := r.meshes[name]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.HasIndices {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(r.meshes, name)
}

func (r *Renderer) releaseTexture(name string) {
	if id, ok := r.textures[name]; ok {
		gl.DeleteTextures(1, &id)
		delete(r.textures, name)
	}
}

func glMode(p core.Primitive) uint32 {
	switch p {
	case core.Lines:
		return gl.LINES
	case core.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

// upload copies vertex and index data into new buffer objects.
func upload(mesh *core.PolygonMesh) *GPUMesh {
	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: int32(len(mesh.Vertices)),
		HasIndices:  len(mesh.Indices) > 0,
		Mode:        glMode(mesh.Primitive),
		Triangles:   mesh.TriangleCount(),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
	}
	for loc, a := range attribs {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return gpu
}
