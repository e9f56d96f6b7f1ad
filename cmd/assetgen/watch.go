package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Skryldev/asset-generator/core"
)

const debounceDelay = 500 * time.Millisecond

// watch regenerates whenever a source file under the assets directory is
// created, written or renamed.  Bursts of events collapse into one run.
func watch(ctx context.Context, assetsDir string, logger core.Logger, regenerate func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range []string{assetsDir, filepath.Join(assetsDir, string(core.PlatformAndroid))} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		logger.Info("watch.folder", "dir", dir)
	}

	var timer *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSource(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("watch.event", "file", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})

		case <-runs:
			if err := regenerate(ctx); err != nil {
				logger.Error("watch.regenerate", "error", err.Error())
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch.error", "error", err.Error())
		}
	}
}
