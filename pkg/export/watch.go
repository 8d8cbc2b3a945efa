package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when the input file changes, for live reload. It watches
// the parent directory rather than the file itself: most editors replace the
// file on save, and a watch on the old inode would go silent after the first
// write.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	// debounce rapid file changes
	lastEvent time.Time
	debounce  time.Duration

	events chan struct{}
}

// WatchFile starts watching path and returns the watcher. A zero debounce
// defaults to 200ms.
func WatchFile(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		ctx:      ctx,
		cancel:   cancel,
		debounce: debounce,
		events:   make(chan struct{}, 1),
	}
	go w.watchLoop()
	return w, nil
}

// Events delivers one signal per (debounced) change to the watched file.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Stop shuts down the watcher and closes the events channel.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	defer close(w.events)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only the watched file, and only mutations (not chmod, etc)
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid changes
			now := time.Now()
			if now.Sub(w.lastEvent) < w.debounce {
				continue
			}
			w.lastEvent = now

			select {
			case w.events <- struct{}{}:
			default:
				// A reload is already pending, coalesce
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Errors don't stop the watcher
		}
	}
}
