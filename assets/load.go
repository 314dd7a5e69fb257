package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"scenegraph/sgraph"
)

// Load imports a model file into sg, choosing the loader by extension.
func Load(path string, sg *sgraph.Scenegraph) (sgraph.Node, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path, sg)
	case ".gltf", ".glb":
		return LoadGLTF(path, sg)
	default:
		return nil, fmt.Errorf("load %q: unsupported model format %q", path, ext)
	}
}
