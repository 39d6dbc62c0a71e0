package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.therapyjournal/internal/journal"
	listmodels "io.winapps.therapyjournal/internal/models/list_entries"
	"io.winapps.therapyjournal/internal/store"
)

// ListEntries handles fetching a user's entries, filtered and grouped by
// calendar month
func (h *JournalHandler) ListEntries(c *gin.Context) {
	userID := c.Param("userId")

	filter := store.EntryFilter{
		Search:    c.Query("search"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Tag:       c.Query("tag"),
	}

	entries, err := h.store.ListEntries(c.Request.Context(), userID, filter)
	if err != nil {
		h.logError(c, err, "list entries failed", "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении записей"})
		return
	}

	c.JSON(http.StatusOK, listmodels.ListEntriesResponse{
		Entries: journal.GroupByMonth(entries),
	})
}
