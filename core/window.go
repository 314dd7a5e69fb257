package core

// WindowConfig describes the window the demo opens. The window itself
// lives in package platform so that this package stays free of cgo.
type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Scene Graph",
		Resizable: true,
		VSync:     true,
	}
}
