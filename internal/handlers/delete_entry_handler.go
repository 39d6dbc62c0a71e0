package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.therapyjournal/internal/store"
)

// DeleteEntry handles removing an entry together with its images and their
// backing files. Files go first, then the rows; the two steps are not atomic.
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	images, err := h.store.ListImages(ctx, id)
	if err != nil {
		h.logError(c, err, "list images for delete failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении записи"})
		return
	}

	for _, img := range images {
		if err := h.deleteImageFile(img); err != nil {
			// Row cleanup still proceeds; the file is already orphaned
			h.logError(c, err, "delete image file failed", "image_id", img.ID)
		}
	}

	err = h.store.DeleteEntry(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
		return
	}
	if err != nil {
		h.logError(c, err, "delete entry failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении записи"})
		return
	}

	h.invalidateEntry(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "Запись удалена успешно"})
}
