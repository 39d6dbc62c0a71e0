package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats handles fetching a user's journal statistics
func (h *BotHandler) GetStats(c *gin.Context) {
	userID := c.Param("userId")

	stats, err := h.store.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logError(c, err, "get stats failed", "telegram_user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении статистики"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
