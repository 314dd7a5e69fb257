package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"scenegraph/animation"
)

// ClipWatcher reloads an animation clip each time its file changes. The
// directory is watched rather than the file so editors that save by
// renaming a temporary file are seen too.
type ClipWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	clips   chan *animation.Clip
	done    chan struct{}
}

func WatchClip(path string) (*ClipWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch clip %q: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch clip %q: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch clip %q: %w", path, err)
	}
	cw := &ClipWatcher{
		path:    abs,
		watcher: w,
		clips:   make(chan *animation.Clip, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

// Reloaded delivers the latest successfully parsed clip. Clips that were
// not taken before the next change are replaced.
func (cw *ClipWatcher) Reloaded() <-chan *animation.Clip {
	return cw.clips
}

func (cw *ClipWatcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}

func (cw *ClipWatcher) loop() {
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			clip, err := animation.LoadClip(cw.path)
			if err != nil {
				slog.Warn("app: clip reload failed", "path", cw.path, "err", err)
				continue
			}
			cw.publish(clip)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("app: clip watcher", "err", err)
		}
	}
}

func (cw *ClipWatcher) publish(clip *animation.Clip) {
	select {
	case <-cw.clips:
	default:
	}
	select {
	case cw.clips <- clip:
	default:
	}
	slog.Info("app: clip reloaded", "clip", clip.Name, "channels", len(clip.Channels))
}
