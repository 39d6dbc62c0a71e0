package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	createmodels "io.winapps.therapyjournal/internal/models/create_entry"
	"io.winapps.therapyjournal/internal/store"
)

// CreateEntry handles creation of new manual journal entries
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req createmodels.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	if req.OwnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан пользователь"})
		return
	}
	if req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указана дата"})
		return
	}

	entry := &store.Entry{
		TelegramUserID: req.OwnerID,
		Date:           req.Date,
		Title:          req.Title,
		Summary:        req.Summary,
		Content:        req.Content,
		Tags:           req.Tags,
		Source:         store.SourceManual,
	}

	if err := h.store.CreateEntry(c.Request.Context(), entry); err != nil {
		h.logError(c, err, "create entry failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании записи"})
		return
	}

	c.JSON(http.StatusOK, createmodels.CreateEntryResponse{
		ID:      entry.ID,
		Message: "Запись создана успешно",
	})
}
