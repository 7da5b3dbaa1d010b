package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// StartJanitor schedules a periodic sweep of the upload directory.
// The analyze handler deletes its own temp file per request; the janitor
// catches whatever a crash or kill left behind.
func StartJanitor(dir string, retention time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New()
	_, err := c.AddFunc("@every 30m", func() {
		removed, err := sweepUploads(dir, time.Now().Add(-retention))
		if err != nil {
			logger.Error("janitor.sweep.failed", "dir", dir, "error", err)
			return
		}
		if removed > 0 {
			logger.Info("janitor.sweep.ok", "dir", dir, "removed", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// sweepUploads removes regular files under dir modified before cutoff.
// Non-recursive: uploads land directly in dir.
func sweepUploads(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
