// Package watch reports changes to a single file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/halo/internal/logging"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 50 * time.Millisecond

// File watches one file. The parent directory is watched so that editors
// replacing the file by rename are still seen.
type File struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewFile starts watching path.
func NewFile(path string, debounce time.Duration) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}
	return &File{path: abs, debounce: debounce, watcher: w}, nil
}

// Path returns the absolute path being watched.
func (f *File) Path() string {
	return f.path
}

// Run calls onChange after the file was written or recreated, until ctx is
// done or Close is called. Bursts of events within the debounce interval
// produce one call.
func (f *File) Run(ctx context.Context, onChange func()) error {
	var (
		timer  *time.Timer
		fire   <-chan time.Time
		events = f.watcher.Events
		errs   = f.watcher.Errors
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if f.debounce <= 0 {
				onChange()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logging.Logger().Warn("file watch error", "path", f.path, "err", err)
		}
	}
}

// Close stops watching.
func (f *File) Close() error {
	return f.watcher.Close()
}
