package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zhufucdev/control-sync/internal/debounce"
)

// watchDebounceDelay coalesces the burst of filesystem events an editor
// produces per save into a single reload.
const watchDebounceDelay = 500 * time.Millisecond

// Watch observes the settings file at path and invokes onChange once per
// settled burst of writes. Editors typically replace the file, so the
// parent directory is watched and events are filtered by name. Blocks
// until the context is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger.Info("config watcher started", slog.String("file", path))

	debouncer := debounce.New()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			go func() {
				_, ran := debounce.Do(ctx, debouncer, "config-reload", watchDebounceDelay, func() struct{} {
					logger.Info("configuration changed", slog.String("file", path))
					onChange()

					return struct{}{}
				})
				if !ran {
					logger.Debug("config reload superseded")
				}
			}()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("config watcher error", slog.String("error", err.Error()))
		}
	}
}
