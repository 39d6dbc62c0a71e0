package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.therapyjournal/internal/store"
)

// RemoveImage handles deleting one image row and its backing file
func (h *JournalHandler) RemoveImage(c *gin.Context) {
	id := c.Param("imageId")
	ctx := c.Request.Context()

	img, err := h.store.GetImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Изображение не найдено"})
		return
	}
	if err != nil {
		h.logError(c, err, "get image failed", "image_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении изображения"})
		return
	}

	// File first, then the row
	if err := h.deleteImageFile(*img); err != nil {
		h.logError(c, err, "delete image file failed", "image_id", id)
	}

	if err := h.store.DeleteImage(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logError(c, err, "delete image row failed", "image_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении изображения"})
		return
	}

	h.invalidateEntry(ctx, img.EntryID)

	c.JSON(http.StatusOK, gin.H{"message": "Изображение удалено успешно"})
}
