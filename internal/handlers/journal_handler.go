package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	getentrymodels "io.winapps.therapyjournal/internal/models/get_entry"
	"io.winapps.therapyjournal/internal/store"
)

const entryCacheTTL = 24 * time.Hour

// JournalHandler serves the journal CRUD and listing API.
type JournalHandler struct {
	store      store.Store
	redis      *redis.Client
	logger     *zap.SugaredLogger
	uploadsDir string
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(st store.Store, redisClient *redis.Client, logger *zap.SugaredLogger, uploadsDir string) *JournalHandler {
	return &JournalHandler{
		store:      st,
		redis:      redisClient,
		logger:     logger,
		uploadsDir: uploadsDir,
	}
}

func entryCacheKey(id string) string {
	return "entry:" + id
}

// cachedEntry returns the cached entry response, or nil on miss.
func (h *JournalHandler) cachedEntry(ctx context.Context, id string) *getentrymodels.GetEntryResponse {
	if h.redis == nil {
		return nil
	}
	raw, err := h.redis.Get(ctx, entryCacheKey(id)).Result()
	if err != nil || raw == "" {
		return nil
	}
	var resp getentrymodels.GetEntryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

// cacheEntry stores the entry response; failures only get logged since the
// database already holds the truth.
func (h *JournalHandler) cacheEntry(ctx context.Context, resp *getentrymodels.GetEntryResponse) {
	if h.redis == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, entryCacheKey(resp.Entry.ID), raw, entryCacheTTL).Err(); err != nil {
		h.logger.Warnw("failed to cache entry", "entry_id", resp.Entry.ID, "error", err)
	}
}

// invalidateEntry drops the cached entry after any mutation.
func (h *JournalHandler) invalidateEntry(ctx context.Context, id string) {
	if h.redis == nil {
		return
	}
	h.redis.Del(ctx, entryCacheKey(id))
}

// imageFilePath resolves an image row's backing file under the uploads dir.
func (h *JournalHandler) imageFilePath(img store.Image) string {
	return filepath.Join(h.uploadsDir, filepath.FromSlash(img.FilePath))
}

// deleteImageFile removes an image's backing file. A missing file is fine,
// it may have been cleaned up already.
func (h *JournalHandler) deleteImageFile(img store.Image) error {
	path := h.imageFilePath(img)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}
