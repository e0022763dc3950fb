package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ManifestWatcher reloads the worker manifest when the file changes and
// hands the fresh worker set to a callback. Editors that replace files
// on save are handled by watching the parent directory.
type ManifestWatcher struct {
	path     string
	onReload func([]ManifestEntry)

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchManifest starts watching the manifest at path. onReload is
// called from the watcher goroutine with each successfully parsed
// worker set; parse failures are logged and the previous set stays in
// effect.
func WatchManifest(path string, onReload func([]ManifestEntry)) (*ManifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("manifest watcher: %w", err)
	}

	// Watch the directory so file replacement (rename + create) is seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("manifest watcher: %w", err)
	}

	mw := &ManifestWatcher{
		path:     path,
		onReload: onReload,
		watcher:  watcher,
		done:     make(chan struct{}),
	}
	go mw.watch()

	return mw, nil
}

// watch monitors the manifest file for writes and replacements.
func (mw *ManifestWatcher) watch() {
	for {
		select {
		case <-mw.done:
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(mw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			entries, err := LoadManifest(mw.path)
			if err != nil {
				log.Printf("[config] manifest reload failed, keeping previous workers: %v", err)
				continue
			}
			mw.onReload(entries)
		case <-mw.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Close stops the watcher.
func (mw *ManifestWatcher) Close() {
	close(mw.done)
	mw.watcher.Close()
}
