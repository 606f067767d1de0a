// Package watch triggers full pipeline re-runs when the upstream
// conversion tool regenerates the input artifact.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/checksum"
)

// RebuildFunc runs a full pipeline pass over the artifact.
type RebuildFunc func(ctx context.Context) error

// Run watches the directory containing the input artifact and invokes
// rebuild whenever the artifact is (re)created or written. Events are
// debounced — editors and converters fire several per save — and a
// checksum comparison drops no-op rewrites. Run blocks until ctx is
// cancelled.
func Run(ctx context.Context, artifact string, logger *slog.Logger, rebuild RebuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(artifact)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("artifact", artifact))

	// The artifact is deleted after every successful build, so the last
	// checksum only dedupes double-fires within one regeneration.
	var lastSum string

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	scheduleRebuild := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			debounce = nil
			debounceCh = nil

			if _, statErr := os.Stat(artifact); statErr != nil {
				continue
			}
			sum, sumErr := checksum.SumFile(artifact)
			if sumErr != nil {
				logger.Warn("watcher: checksum failed", slog.String("error", sumErr.Error()))
				continue
			}
			if sum == lastSum {
				logger.Debug("watcher: artifact unchanged, skipping rebuild")
				continue
			}
			lastSum = sum

			logger.Info("watcher: artifact regenerated, rebuilding")
			if buildErr := rebuild(ctx); buildErr != nil {
				logger.Error("watcher: rebuild failed", slog.String("error", buildErr.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != artifact {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				scheduleRebuild()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
