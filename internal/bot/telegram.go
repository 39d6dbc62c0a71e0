package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Messenger is the narrow messaging surface the rest of the app depends on.
// The voice pipeline and dispatcher only see this interface, never the SDK.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error
	FileURL(ctx context.Context, fileID string) (string, error)
}

// Client implements Messenger over the Telegram Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient authorizes against the Bot API with the given token.
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	return &Client{api: api}, nil
}

// SendMessage sends text to a chat and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.MessageID, nil
}

// EditMessageText replaces the text of a previously sent message.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	if _, err := c.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// FileURL resolves a downloadable URL for a file id. Telegram file handles
// expire, so the URL must be used promptly.
func (c *Client) FileURL(ctx context.Context, fileID string) (string, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %w", err)
	}
	return url, nil
}

// SetWebhook registers the webhook URL with Telegram.
func (c *Client) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := c.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// Updates returns a long-polling update channel for development use.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return c.api.GetUpdatesChan(u)
}

// FileDownloader fetches remote audio files into a local directory.
type FileDownloader struct {
	client *http.Client
}

// NewFileDownloader returns a downloader using the given HTTP client, or
// http.DefaultClient when nil.
func NewFileDownloader(client *http.Client) *FileDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &FileDownloader{client: client}
}

// Download fetches url into dir under a random .ogg name and returns the
// local path. The caller owns the file.
func (d *FileDownloader) Download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download voice file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("voice file download returned status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, uuid.New().String()+".ogg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close audio file: %w", err)
	}

	return path, nil
}
