// Package watcher reloads the default bone model when the file on disk
// changes.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ModelWatcher watches a single model file and invokes a callback after
// changes settle. Editors and exporters often produce several write
// events per save; the debounce window collapses them into one reload.
type ModelWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	callback func(string)
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New starts watching path. The callback receives the absolute path of
// the changed file once per settled change.
func New(path string, debounce time.Duration, callback func(string)) (*ModelWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory rather than the file itself: atomic saves
	// replace the inode and would silently drop a file-level watch.
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	mw := &ModelWatcher{
		watcher:  fsw,
		path:     absPath,
		callback: callback,
		debounce: debounce,
	}
	go mw.run()
	return mw, nil
}

func (mw *ModelWatcher) run() {
	for {
		select {
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != mw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				mw.schedule()
			}

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("model watcher error: %v", err)
		}
	}
}

func (mw *ModelWatcher) schedule() {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.timer != nil {
		mw.timer.Stop()
	}
	mw.timer = time.AfterFunc(mw.debounce, func() {
		mw.callback(mw.path)
	})
}

// Close stops the watcher.
func (mw *ModelWatcher) Close() error {
	return mw.watcher.Close()
}
