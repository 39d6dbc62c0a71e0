package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"io.winapps.therapyjournal/internal/bot"
)

// WebhookHandler receives Telegram updates. It always answers 200; a non-200
// response would make Telegram retry the update indefinitely.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
	logger     *zap.SugaredLogger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(dispatcher *bot.Dispatcher, logger *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

// HandleUpdate processes one webhook delivery
func (h *WebhookHandler) HandleUpdate(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warnw("webhook: malformed update", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.dispatcher.HandleUpdate(c.Request.Context(), update)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
