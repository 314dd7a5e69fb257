// Command demo opens a window and renders the configured scene graph: the
// waving humanoid on a ground slab under a moving sun, plus an optional
// model file and animation clip.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"scenegraph/animation"
	"scenegraph/config"
	"scenegraph/internal/app"
	"scenegraph/opengl"
	"scenegraph/platform"
	"scenegraph/renderer"
)

const (
	orbitSpeed = 1.2 // radians per second
	zoomSpeed  = 60  // units per second
)

func main() {
	path := flag.String("config", config.DefaultFilename, "YAML configuration file")
	model := flag.String("model", "", "model file to add to the scene (.obj, .gltf, .glb)")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *model != "" {
		cfg.Scene.Model = *model
	}
	slog.SetDefault(cfg.Logger())

	if err := run(cfg); err != nil {
		slog.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

// keyLatch reports a key once per press.
type keyLatch struct {
	down map[int]bool
}

func (k *keyLatch) pressed(w *platform.Window, key int) bool {
	now := w.IsKeyPressed(key)
	was := k.down[key]
	k.down[key] = now
	return now && !was
}

func run(cfg config.Config) error {
	window, err := platform.NewWindow(cfg.WindowConfig())
	if err != nil {
		return err
	}
	defer window.Destroy()

	gpu, err := opengl.NewRenderer()
	if err != nil {
		return err
	}

	sg, err := app.BuildScene(cfg.Scene)
	if err != nil {
		return err
	}
	defer func() {
		if err := sg.Dispose(); err != nil {
			slog.Warn("demo: dispose", "err", err)
		}
	}()
	if err := sg.SetRenderer(gpu); err != nil {
		return err
	}

	width, height := window.GetFramebufferSize()
	cam := app.NewCamera(cfg.Camera, float32(width)/float32(max(height, 1)))
	engine := renderer.NewEngine(sg, cam)
	dayNight := app.NewDayNight(0)

	slog.Info("demo: controls",
		"orbit", "left/right",
		"zoom", "up/down",
		"pause", "P",
		"reset", "R",
		"wireframe", "Z",
		"quit", "Esc")

	var reloads <-chan *animation.Clip
	if cfg.Scene.Clip != "" {
		watcher, err := app.WatchClip(cfg.Scene.Clip)
		if err != nil {
			slog.Warn("demo: clip hot reload disabled", "err", err)
		} else {
			defer watcher.Close()
			reloads = watcher.Reloaded()
		}
	}

	keys := keyLatch{down: make(map[int]bool)}
	wireframe := false
	status := &statusLine{}

	var t float32
	frames := 0
	last := window.Time()
	statsAt := last

	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(platform.KeyEscape) {
			break
		}
		select {
		case clip := <-reloads:
			clip.Register(sg)
		default:
		}
		if keys.pressed(window, platform.KeyP) {
			engine.Paused = !engine.Paused
			slog.Info("demo: animation", "paused", engine.Paused)
		}
		if keys.pressed(window, platform.KeyR) {
			t = 0
			cam = app.NewCamera(cfg.Camera, cam.AspectRatio)
			engine.Camera = cam
		}
		if keys.pressed(window, platform.KeyZ) {
			wireframe = !wireframe
			gpu.SetWireframe(wireframe)
		}
		if window.IsKeyPressed(platform.KeyLeft) {
			cam.Orbit(-orbitSpeed*dt, 0)
		}
		if window.IsKeyPressed(platform.KeyRight) {
			cam.Orbit(orbitSpeed*dt, 0)
		}
		if window.IsKeyPressed(platform.KeyUp) {
			cam.Zoom(-zoomSpeed * dt)
		}
		if window.IsKeyPressed(platform.KeyDown) {
			cam.Zoom(zoomSpeed * dt)
		}

		if !engine.Paused {
			t += dt * cfg.Scene.TimeScale
		}

		width, height = window.GetFramebufferSize()
		gpu.SetViewport(width, height)
		cam.UpdateAspectRatio(float32(width), float32(height))
		gpu.SetProjection(cam.ProjectionMatrix())
		gpu.BeginFrame(dayNight.Sky(engine.AnimationTime()))

		if err := engine.Frame(t); err != nil {
			return err
		}
		window.SwapBuffers()
		frames++

		if elapsed := now - statsAt; elapsed >= 1 {
			fps := float64(frames) / elapsed
			slog.Info("demo: stats",
				"fps", fmt.Sprintf("%.1f", fps),
				"draws", gpu.DrawCalls,
				"triangles", gpu.Triangles,
				"t", engine.AnimationTime())

			status.Clear()
			status.Add("%s", cfg.Window.Title)
			status.Add("FPS %.0f", fps)
			status.Add("%s", dayNight.Clock(engine.AnimationTime()))
			status.Add("%d draws %d tris", gpu.DrawCalls, gpu.Triangles)
			if engine.Paused {
				status.Add("paused")
			}
			if wireframe {
				status.Add("wire")
			}
			window.SetTitle(status.String())

			frames = 0
			statsAt = now
		}
	}
	return nil
}
