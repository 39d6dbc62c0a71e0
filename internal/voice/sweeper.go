package voice

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SweepTempFiles removes .ogg files in dir older than maxAge. A crash between
// download and cleanup strands temp audio files; the delete-files-then-rows
// sequences are not atomic, so this runs on a schedule as the recovery path.
func SweepTempFiles(dir string, maxAge time.Duration, logger *zap.SugaredLogger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warnw("temp sweep: failed to read dir", "dir", dir, "error", err)
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ogg") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warnw("temp sweep: failed to remove file", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Infow("temp sweep removed stale audio files", "dir", dir, "count", removed)
	}
}
