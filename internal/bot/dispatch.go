package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"io.winapps.therapyjournal/internal/store"
)

// VoiceMessage carries the fields of an incoming voice note the pipeline
// needs.
type VoiceMessage struct {
	ChatID int64
	UserID string
	FileID string
}

// VoicePipeline turns one voice message into one journal entry.
type VoicePipeline interface {
	Process(ctx context.Context, msg VoiceMessage) error
}

const hintText = "Отправьте голосовое сообщение для создания записи в дневнике."

func welcomeText(miniAppURL string) string {
	return fmt.Sprintf(`Привет! Я бот для ведения терапевтического дневника.

🎤 Отправьте голосовое сообщение, и я создам запись в дневнике с транскрипцией и кратким резюме.

📱 Или откройте приложение для просмотра и редактирования записей:
%s

💡 Вы можете:
• Отправлять голосовые сообщения
• Просматривать все записи
• Редактировать и дополнять записи
• Добавлять изображения`, miniAppURL)
}

// Dispatcher routes incoming Telegram updates to the voice pipeline or to
// static reply text.
type Dispatcher struct {
	messenger  Messenger
	pipeline   VoicePipeline
	store      store.Store
	miniAppURL string
	logger     *zap.SugaredLogger
}

// NewDispatcher creates a new update dispatcher
func NewDispatcher(messenger Messenger, pipeline VoicePipeline, st store.Store, miniAppURL string, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		messenger:  messenger,
		pipeline:   pipeline,
		store:      st,
		miniAppURL: miniAppURL,
		logger:     logger,
	}
}

// HandleUpdate processes one Telegram update. Errors are logged, never
// returned: the webhook must answer 200 no matter what happened inside.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	chatID := msg.Chat.ID
	userID := ""
	if msg.From != nil {
		userID = strconv.FormatInt(msg.From.ID, 10)
	}

	// Every bot interaction refreshes the user row
	if msg.From != nil {
		user := &store.User{
			TelegramUserID: userID,
			Username:       msg.From.UserName,
			FirstName:      msg.From.FirstName,
			LastName:       msg.From.LastName,
		}
		if _, err := d.store.UpsertUser(ctx, user); err != nil {
			d.logger.Errorw("upsert user failed", "telegram_user_id", userID, "error", err)
		}
	}

	switch {
	case msg.Voice != nil:
		vm := VoiceMessage{ChatID: chatID, UserID: userID, FileID: msg.Voice.FileID}
		if err := d.pipeline.Process(ctx, vm); err != nil {
			d.logger.Errorw("voice processing failed", "telegram_user_id", userID, "error", err)
		}
	case msg.Text == "/start":
		if _, err := d.messenger.SendMessage(ctx, chatID, welcomeText(d.miniAppURL)); err != nil {
			d.logger.Errorw("send welcome failed", "chat_id", chatID, "error", err)
		}
	default:
		if _, err := d.messenger.SendMessage(ctx, chatID, hintText); err != nil {
			d.logger.Errorw("send hint failed", "chat_id", chatID, "error", err)
		}
	}
}
