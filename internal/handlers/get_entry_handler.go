package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	getentrymodels "io.winapps.therapyjournal/internal/models/get_entry"
	"io.winapps.therapyjournal/internal/store"
)

// GetEntry handles fetching a single journal entry with its images
func (h *JournalHandler) GetEntry(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// Check Redis cache first
	if cached := h.cachedEntry(ctx, id); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	entry, err := h.store.GetEntry(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
		return
	}
	if err != nil {
		h.logError(c, err, "get entry failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении записи"})
		return
	}

	images, err := h.store.ListImages(ctx, id)
	if err != nil {
		h.logError(c, err, "list images failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении записи"})
		return
	}

	resp := &getentrymodels.GetEntryResponse{
		Entry:  *entry,
		Images: images,
	}
	h.cacheEntry(ctx, resp)

	c.JSON(http.StatusOK, resp)
}
