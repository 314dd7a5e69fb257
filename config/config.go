// Package config loads the YAML settings shared by the demo and sgdump.
//
//	log_level: debug
//	window: {width: 1280, height: 720, title: Scene Graph, vsync: true}
//	camera: {fov: 60, near: 0.1, far: 500, distance: 120, yaw: 0.5, pitch: 0.3, target: [0, 10, 0]}
//	scene:
//	  humanoid: true
//	  ground: true
//	  model: assets/robot.glb
//	  clip: clips/wave.yaml
//
// Every field is optional; missing ones keep the Default value. Files
// ending in .toml are read as TOML with the same keys.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scenegraph/core"
)

const DefaultFilename = "scenegraph.yml"

type Config struct {
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Window   Window `yaml:"window" toml:"window"`
	Camera   Camera `yaml:"camera" toml:"camera"`
	Scene    Scene  `yaml:"scene" toml:"scene"`
}

type Window struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Title      string `yaml:"title" toml:"title"`
	Resizable  bool   `yaml:"resizable" toml:"resizable"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
}

// Camera configures the orbit camera. FOV is in degrees.
type Camera struct {
	FOV      float32    `yaml:"fov" toml:"fov"`
	Near     float32    `yaml:"near" toml:"near"`
	Far      float32    `yaml:"far" toml:"far"`
	Distance float32    `yaml:"distance" toml:"distance"`
	Yaw      float32    `yaml:"yaw" toml:"yaw"`
	Pitch    float32    `yaml:"pitch" toml:"pitch"`
	Target   [3]float32 `yaml:"target" toml:"target"`
}

// Scene selects what goes into the graph. Model is a .glb, .gltf or .obj
// file; Clip is an animation clip.
type Scene struct {
	Humanoid bool   `yaml:"humanoid" toml:"humanoid"`
	Ground   bool   `yaml:"ground" toml:"ground"`
	Grid     bool   `yaml:"grid" toml:"grid"`
	Model    string `yaml:"model" toml:"model"`
	Clip     string `yaml:"clip" toml:"clip"`
	// TimeScale multiplies wall-clock seconds into animation time.
	TimeScale float32 `yaml:"time_scale" toml:"time_scale"`
}

func Default() Config {
	w := core.DefaultWindowConfig()
	return Config{
		LogLevel: "info",
		Window: Window{
			Width:     w.Width,
			Height:    w.Height,
			Title:     w.Title,
			Resizable: w.Resizable,
			VSync:     w.VSync,
		},
		Camera: Camera{
			FOV:      60,
			Near:     0.1,
			Far:      500,
			Distance: 120,
			Yaw:      0.5,
			Pitch:    0.3,
			Target:   [3]float32{0, 10, 0},
		},
		Scene: Scene{
			Humanoid:  true,
			Ground:    true,
			TimeScale: 60,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// a file that exists but does not parse or validate is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("config: file not found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}
	if err := unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v out of range (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes near=%v far=%v invalid", c.Camera.Near, c.Camera.Far))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WindowConfig converts the window section for platform.NewWindow.
func (c Config) WindowConfig() core.WindowConfig {
	return core.WindowConfig{
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		Title:      c.Window.Title,
		Resizable:  c.Window.Resizable,
		VSync:      c.Window.VSync,
		Fullscreen: c.Window.Fullscreen,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels. The empty
// string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger builds the text logger both executables install as the default.
func (c Config) Logger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
