package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	updatemodels "io.winapps.therapyjournal/internal/models/update_entry"
	"io.winapps.therapyjournal/internal/store"
)

// UpdateEntry handles replacing the editable fields of an entry
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	id := c.Param("id")

	var req updatemodels.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	upd := store.EntryUpdate{
		Date:    req.Date,
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Tags:    req.Tags,
	}

	ctx := c.Request.Context()
	err := h.store.UpdateEntry(ctx, id, upd)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
		return
	}
	if err != nil {
		h.logError(c, err, "update entry failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении записи"})
		return
	}

	h.invalidateEntry(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "Запись обновлена успешно"})
}
