package scene

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Update is a scene reloaded by [Watch], or the error that prevented it.
type Update struct {
	Scene *Scene
	Err   error
}

// settle is how long Watch waits after the last change before reloading.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// Watch reloads filename whenever it changes and sends the result on the
// returned channel until ctx is done. The directory is watched rather than
// the file so that editors replacing the file by rename are followed.
func Watch(ctx context.Context, filename string, logger *slog.Logger) (<-chan Update, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	updates := make(chan Update, 1)
	go func() {
		defer close(updates)
		defer watcher.Close()

		timer := time.NewTimer(settle)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					logger.Debug("scene changed", "file", abs, "op", event.Op.String())
					timer.Reset(settle)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("scene watcher", "file", abs, "err", err)
			case <-timer.C:
				sc, err := Open(abs)
				select {
				case updates <- Update{Scene: sc, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return updates, nil
}
