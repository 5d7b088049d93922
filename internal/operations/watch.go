package operations

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/petergi/cup-validator-cli/internal/logging"
)

// WatchConfig configures Watch.
type WatchConfig struct {
	Dir        string
	Recursive  bool
	Debounce   time.Duration
	Extensions []string // defaults to .xml
	Logger     *slog.Logger
}

// Watch calls onChange whenever matching files under cfg.Dir are created,
// written, renamed or removed, once per quiet period of cfg.Debounce. It
// blocks until ctx is done. An onChange error is logged and watching continues.
func Watch(ctx context.Context, cfg WatchConfig, onChange func(context.Context) error) error {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchDirs(watcher, cfg.Dir, cfg.Recursive); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
	}
	cfg.Logger.Info("watching for changes", "dir", cfg.Dir, "debounce", cfg.Debounce)

	return watchLoop(ctx, cfg, watcher.Events, watcher.Errors, func(path string) {
		if !cfg.Recursive {
			return
		}
		if err := addWatchDirs(watcher, path, true); err != nil {
			cfg.Logger.Warn("could not watch new directory", logging.File(path), logging.Error(err))
		}
	}, onChange)
}

// watchLoop debounces events and runs onChange on the loop goroutine, so
// runs never overlap.
func watchLoop(
	ctx context.Context,
	cfg WatchConfig,
	events <-chan fsnotify.Event,
	errs <-chan error,
	onNewDir func(string),
	onChange func(context.Context) error,
) error {
	timer := time.NewTimer(cfg.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) && onNewDir != nil {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					onNewDir(event.Name)
					continue
				}
			}
			if !relevantEvent(event, cfg.Extensions) {
				continue
			}
			cfg.Logger.Debug("file event", logging.File(event.Name), "op", event.Op.String())

			// Reset discards any expiry not yet received.
			timer.Reset(cfg.Debounce)

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				cfg.Logger.Error("re-validation failed", logging.Error(err))
			}

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			cfg.Logger.Error("watcher error", logging.Error(err))
		}
	}
}

func relevantEvent(event fsnotify.Event, extensions []string) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return matchesExtension(extensions, event.Name)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, recursive bool) error {
	if !recursive {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
