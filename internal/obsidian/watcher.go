package obsidian

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long the vault must stay quiet before the callback runs.
const WatchDebounce = 300 * time.Millisecond

// Watch calls fn whenever Markdown files under root change, until ctx is cancelled.
//
// Bursts of events collapse into one call. Directories created while watching are
// added to the watch list. An error from fn is logged and watching continues.
func Watch(ctx context.Context, root string, logger *log.Logger, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watching vault", "root", root)

	timer := time.NewTimer(WatchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching vault", "root", root)
			return nil

		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Error("vault change handler failed", "error", err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("failed to watch new directory", "path", ev.Name, "error", addErr)
					}
					timer.Reset(WatchDebounce)
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, NoteExt) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debug("vault changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(WatchDebounce)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", watchErr)
		}
	}
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
