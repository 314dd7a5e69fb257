// Package app assembles the scene graph shared by the demo and sgdump from
// the scene section of the configuration.
package app

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"scenegraph/animation"
	"scenegraph/assets"
	"scenegraph/config"
	"scenegraph/core"
	"scenegraph/sgraph"
)

const (
	NodeWorld = "world"
	NodeSun   = "sun"
	NodeModel = "model"
)

// sunDistance keeps the disc inside the default far plane.
const sunDistance = 300

// BuildScene creates a scene graph holding a sun with its visible disc, and
// optionally a ground slab, a line grid, the animated humanoid, a model file
// and an animation clip. Time for the animations is in the humanoid's units:
// degrees of arm swing.
func BuildScene(sc config.Scene) (*sgraph.Scenegraph, error) {
	sg := sgraph.New()
	assets.RegisterPrimitives(sg)
	world := sgraph.NewGroupNode(NodeWorld)

	sun := sgraph.NewTransformNode(NodeSun, mgl32.Ident4())
	light := core.NewDirectionalLight(mgl32.Vec3{0, -1, 0})
	light.Ambient = mgl32.Vec3{0.15, 0.15, 0.18}
	sun.AddLight(light)
	sun.SetChild(assets.SunDisc(sunDistance, 20))
	mustAdd(world, sun)
	sg.AddAnimation(NodeSun, NewDayNight(0).SunChannel())

	if sc.Ground {
		mustAdd(world, assets.Ground(400, -9))
	}
	if sc.Grid {
		mustAdd(world, assets.GridNode(sg, 400, 40, -8.95))
	}
	if sc.Humanoid {
		mustAdd(world, assets.BuildHumanoid(sg))
		animation.Register(sg, animation.Humanoid())
	}
	if sc.Model != "" {
		model, err := assets.Load(sc.Model, sg)
		if err != nil {
			return nil, err
		}
		holder := sgraph.NewTransformNode(NodeModel, mgl32.Ident4())
		holder.SetChild(model)
		mustAdd(world, holder)
	}

	sg.MakeScenegraph(world)

	if sc.Clip != "" {
		clip, err := animation.LoadClip(sc.Clip)
		if err != nil {
			return nil, err
		}
		clip.Register(sg)
		slog.Info("app: clip loaded", "clip", clip.Name, "channels", len(clip.Channels))
	}

	slog.Debug("app: scene built",
		"nodes", len(sg.Nodes()),
		"meshes", len(sg.PolygonMeshes()),
		"animations", len(sg.Animations()))
	return sg, nil
}

// mustAdd adds to a group node, whose AddChild never fails.
func mustAdd(g *sgraph.GroupNode, n sgraph.Node) {
	if err := g.AddChild(n); err != nil {
		panic(fmt.Sprintf("app: add %s to group: %v", n.Name(), err))
	}
}
