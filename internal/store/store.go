package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Source tells apart manually created entries from voice-derived ones.
type Source string

const (
	SourceManual Source = "manual"
	SourceVoice  Source = "voice"
)

// Entry is a single journal entry. Tags is a raw comma-separated string;
// all split/trim/dedupe logic lives in the journal package.
type Entry struct {
	ID             string    `json:"id"`
	TelegramUserID string    `json:"telegram_user_id"`
	Date           string    `json:"date"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Transcript     string    `json:"transcript"`
	Content        string    `json:"content"`
	Tags           string    `json:"tags"`
	RawLLMJSON     string    `json:"raw_llm_json,omitempty"`
	Source         Source    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Image is an uploaded image owned by exactly one entry.
type Image struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a Telegram user known to the bot.
type User struct {
	ID             string    `json:"id"`
	TelegramUserID string    `json:"telegram_user_id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivity   time.Time `json:"last_activity"`
}

// EntryFilter narrows a user's entry listing. All supplied filters must
// match. StartDate and EndDate only apply when both are set.
type EntryFilter struct {
	Search    string
	StartDate string
	EndDate   string
	Tag       string
}

// EntryUpdate carries the full replacement field set for an entry update.
type EntryUpdate struct {
	Date    string
	Title   string
	Summary string
	Content string
	Tags    string
}

// SourceCount is an entry count for one source value.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// MonthCount is an entry count for one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Stats aggregates a user's journal activity.
type Stats struct {
	TotalEntries    int           `json:"totalEntries"`
	EntriesBySource []SourceCount `json:"entriesBySource"`
	MonthlyEntries  []MonthCount  `json:"monthlyEntries"`
	TotalImages     int           `json:"totalImages"`
}

// Store is the persistence boundary for entries, images and users. It is
// injected into handlers and the voice pipeline; the process opens it at
// startup and closes it at shutdown.
type Store interface {
	CreateEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListEntries(ctx context.Context, userID string, filter EntryFilter) ([]Entry, error)
	UpdateEntry(ctx context.Context, id string, upd EntryUpdate) error
	DeleteEntry(ctx context.Context, id string) error

	AddImage(ctx context.Context, img *Image) error
	GetImage(ctx context.Context, id string) (*Image, error)
	ListImages(ctx context.Context, entryID string) ([]Image, error)
	DeleteImage(ctx context.Context, id string) error

	TagFields(ctx context.Context, userID string) ([]string, error)

	UpsertUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, telegramUserID string) (*User, error)
	TouchUser(ctx context.Context, telegramUserID string) error

	Stats(ctx context.Context, userID string) (*Stats, error)

	Close()
}
