package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.therapyjournal/internal/journal"
	tagsmodels "io.winapps.therapyjournal/internal/models/get_tags"
)

// GetTags handles fetching the distinct tag vocabulary for a user
func (h *JournalHandler) GetTags(c *gin.Context) {
	userID := c.Param("userId")

	fields, err := h.store.TagFields(c.Request.Context(), userID)
	if err != nil {
		h.logError(c, err, "fetch tag fields failed", "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении тегов"})
		return
	}

	c.JSON(http.StatusOK, tagsmodels.GetTagsResponse{
		Tags: journal.UniqueTags(fields),
	})
}
