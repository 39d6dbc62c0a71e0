// Package voice turns an incoming Telegram voice note into one journal
// entry: download, transcription, summarization, persistence, confirmation.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"io.winapps.therapyjournal/internal/bot"
	"io.winapps.therapyjournal/internal/store"
)

// Downloader fetches a remote file into a directory and returns the local
// path.
type Downloader interface {
	Download(ctx context.Context, url, dir string) (string, error)
}

const (
	msgProcessing   = "🎤 Обрабатываю голосовое сообщение..."
	msgTranscribing = "📝 Транскрибирую аудио..."
	msgAnalyzing    = "🤖 Анализирую и создаю резюме..."
	msgError        = "❌ Произошла ошибка при обработке голосового сообщения. Попробуйте еще раз."
)

// Pipeline orchestrates the voice-to-entry flow. Steps run strictly
// sequentially for one message; failures of download or transcription abort
// with a user-visible message and no entry, while summarization failure is
// absorbed by the fallback summary.
type Pipeline struct {
	messenger   bot.Messenger
	downloader  Downloader
	transcriber Transcriber
	summarizer  Summarizer
	store       store.Store
	logger      *zap.SugaredLogger

	uploadsDir string
	miniAppURL string
	loc        *time.Location
}

// NewPipeline creates a new voice pipeline
func NewPipeline(messenger bot.Messenger, downloader Downloader, transcriber Transcriber, summarizer Summarizer, st store.Store, logger *zap.SugaredLogger, uploadsDir, miniAppURL string, loc *time.Location) *Pipeline {
	return &Pipeline{
		messenger:   messenger,
		downloader:  downloader,
		transcriber: transcriber,
		summarizer:  summarizer,
		store:       st,
		logger:      logger,
		uploadsDir:  uploadsDir,
		miniAppURL:  miniAppURL,
		loc:         loc,
	}
}

// Process handles one voice message end to end.
func (p *Pipeline) Process(ctx context.Context, m bot.VoiceMessage) error {
	statusID, err := p.messenger.SendMessage(ctx, m.ChatID, msgProcessing)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	fileURL, err := p.messenger.FileURL(ctx, m.FileID)
	if err != nil {
		return p.abort(ctx, m.ChatID, fmt.Errorf("failed to resolve voice file: %w", err))
	}

	audioPath, err := p.downloader.Download(ctx, fileURL, p.uploadsDir)
	if err != nil {
		return p.abort(ctx, m.ChatID, fmt.Errorf("failed to download voice file: %w", err))
	}

	p.editStatus(ctx, m.ChatID, statusID, msgTranscribing)

	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return p.abort(ctx, m.ChatID, err)
	}

	p.editStatus(ctx, m.ChatID, statusID, msgAnalyzing)

	summary := p.summarizer.Summarize(ctx, transcript)

	entry, err := p.createEntry(ctx, m.UserID, transcript, summary)
	if err != nil {
		return p.abort(ctx, m.ChatID, err)
	}

	// Temp audio cleanup is best-effort; the sweeper catches leftovers
	if err := os.Remove(audioPath); err != nil {
		p.logger.Warnw("failed to remove temp audio file", "path", audioPath, "error", err)
	}

	p.editStatus(ctx, m.ChatID, statusID, p.successText(entry, summary))
	return nil
}

// createEntry persists the voice entry, dated "today" in the configured zone.
func (p *Pipeline) createEntry(ctx context.Context, userID, transcript string, summary Summary) (*store.Entry, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize summary: %w", err)
	}

	entry := &store.Entry{
		TelegramUserID: userID,
		Date:           time.Now().In(p.loc).Format("2006-01-02"),
		Title:          summary.Title,
		Summary:        summary.Summary,
		Transcript:     transcript,
		Tags:           strings.Join(summary.KeyTopics, ", "),
		RawLLMJSON:     string(raw),
		Source:         store.SourceVoice,
	}
	if err := p.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	return entry, nil
}

func (p *Pipeline) successText(entry *store.Entry, summary Summary) string {
	deepLink := fmt.Sprintf("%s/entry/%s", p.miniAppURL, entry.ID)
	date := time.Now().In(p.loc).Format("02.01.2006")

	return fmt.Sprintf(`✅ Запись создана успешно!

📅 Дата: %s
📝 Резюме: %s

🔗 Откройте запись в приложении: %s

💡 Вы можете отредактировать дату, добавить текст или изображения в приложении.`, date, summary.Title, deepLink)
}

// editStatus updates the progress message; a failed edit doesn't stop the
// pipeline.
func (p *Pipeline) editStatus(ctx context.Context, chatID int64, messageID int, text string) {
	if err := p.messenger.EditMessageText(ctx, chatID, messageID, text); err != nil {
		p.logger.Warnw("failed to edit status message", "chat_id", chatID, "error", err)
	}
}

// abort tells the user the processing failed and surfaces the cause.
func (p *Pipeline) abort(ctx context.Context, chatID int64, cause error) error {
	if _, err := p.messenger.SendMessage(ctx, chatID, msgError); err != nil {
		p.logger.Errorw("failed to send error message", "chat_id", chatID, "error", err)
	}
	return cause
}
