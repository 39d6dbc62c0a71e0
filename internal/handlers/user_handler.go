package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	usermodels "io.winapps.therapyjournal/internal/models/bot_user"
	"io.winapps.therapyjournal/internal/store"
)

// BotHandler serves the bot-side user and statistics API.
type BotHandler struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewBotHandler creates a new bot handler
func NewBotHandler(st store.Store, logger *zap.SugaredLogger) *BotHandler {
	return &BotHandler{store: st, logger: logger}
}

// UpsertUser handles get-or-create of a user by Telegram id, refreshing
// last_activity for known users
func (h *BotHandler) UpsertUser(c *gin.Context) {
	var req usermodels.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}
	if req.TelegramUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан пользователь"})
		return
	}

	user := &store.User{
		TelegramUserID: req.TelegramUserID,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	}

	saved, err := h.store.UpsertUser(c.Request.Context(), user)
	if err != nil {
		h.logError(c, err, "upsert user failed", "telegram_user_id", req.TelegramUserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обработке пользователя"})
		return
	}

	c.JSON(http.StatusOK, usermodels.UserResponse{User: *saved})
}

// GetUser handles fetching a user by Telegram id
func (h *BotHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")

	user, err := h.store.GetUser(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}
	if err != nil {
		h.logError(c, err, "get user failed", "telegram_user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении пользователя"})
		return
	}

	c.JSON(http.StatusOK, usermodels.UserResponse{User: *user})
}
