// Package watch reports changes to A2L files in the workspace.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
)

// Debounce is how long a path must stay quiet before its change is reported.
// Editors and the atomic writer both produce bursts of events per save.
const Debounce = 200 * time.Millisecond

type Kind string

const (
	Created Kind = "created"
	Updated Kind = "updated"
	Deleted Kind = "deleted"
)

// Change is one settled file change. Checksum is empty for deletions.
type Change struct {
	Kind     Kind   `json:"kind"`
	Path     string `json:"path"`
	Checksum string `json:"checksum,omitempty"`
}

// Callback receives settled changes on the watcher goroutine.
type Callback func(Change)

// Watch starts an fsnotify watcher on the workspace root and reports changes
// to .a2l files until ctx is cancelled. Directories created at runtime are
// watched too, and A2L files already inside them are reported as created.
func Watch(ctx context.Context, store storage.Provider, root string, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]Kind)
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(rel string, kind Kind) {
		// A create followed by writes is still a create.
		if prev, ok := pending[rel]; ok && prev == Created && kind == Updated {
			kind = Created
		}
		pending[rel] = kind
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			flush(store, pending, logger, cb)
			pending = make(map[string]Kind)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					for _, rel := range filesIn(root, absPath) {
						schedule(rel, Created)
					}
					continue
				}
			}

			if !isA2L(absPath) {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				schedule(rel, Created)
			case ev.Op&fsnotify.Write != 0:
				schedule(rel, Updated)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path only; the new path arrives
				// as its own Create.
				schedule(rel, Deleted)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// flush reads every pending path and reports it. A path that vanished
// before the read is reported as deleted.
func flush(store storage.Provider, pending map[string]Kind, logger *slog.Logger, cb Callback) {
	for rel, kind := range pending {
		change := Change{Kind: kind, Path: rel}
		if kind != Deleted {
			data, err := store.Read(rel)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				change.Kind = Deleted
			case err != nil:
				logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
				continue
			default:
				change.Checksum = storage.Checksum(data)
			}
		}
		logger.Debug("watcher: change", slog.String("path", rel), slog.String("kind", string(change.Kind)))
		if cb != nil {
			cb(change)
		}
	}
}

func isA2L(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".a2l")
}

// filesIn lists A2L files below dir relative to root.
func filesIn(root, dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isA2L(path) {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	return out
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
