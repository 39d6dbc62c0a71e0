package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps the pool and creates the schema if it does not exist yet.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	s := &Postgres{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// ensureSchema creates all required tables and indexes if they don't exist
func (s *Postgres) ensureSchema(ctx context.Context) error {
	entriesTable := `
		CREATE TABLE IF NOT EXISTS journal_entries (
			id UUID PRIMARY KEY,
			telegram_user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			title TEXT,
			summary TEXT,
			transcript TEXT,
			content TEXT,
			tags TEXT,
			raw_llm_json TEXT,
			source TEXT DEFAULT 'manual',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);
	`

	imagesTable := `
		CREATE TABLE IF NOT EXISTS entry_images (
			id UUID PRIMARY KEY,
			entry_id UUID NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_size BIGINT,
			mime_type TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
	`

	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			telegram_user_id TEXT UNIQUE NOT NULL,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			last_activity TIMESTAMPTZ DEFAULT NOW()
		);
	`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_entries_user_date ON journal_entries(telegram_user_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON journal_entries(source);`,
		`CREATE INDEX IF NOT EXISTS idx_images_entry ON entry_images(entry_id);`,
	}

	tables := []string{entriesTable, imagesTable, usersTable}
	for _, table := range tables {
		if _, err := s.pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, index := range indexes {
		if _, err := s.pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// CreateEntry inserts a new entry, assigning its id and timestamps.
func (s *Postgres) CreateEntry(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Source == "" {
		entry.Source = SourceManual
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO journal_entries
		(id, telegram_user_id, date, title, summary, transcript, content, tags, raw_llm_json, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.TelegramUserID,
		entry.Date,
		entry.Title,
		entry.Summary,
		entry.Transcript,
		entry.Content,
		entry.Tags,
		entry.RawLLMJSON,
		entry.Source,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

const entryColumns = `id, telegram_user_id, date, title, summary, transcript, content, tags, raw_llm_json, source, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID,
		&e.TelegramUserID,
		&e.Date,
		&e.Title,
		&e.Summary,
		&e.Transcript,
		&e.Content,
		&e.Tags,
		&e.RawLLMJSON,
		&e.Source,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntry fetches one entry by id.
func (s *Postgres) GetEntry(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1`
	entry, err := scanEntry(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return entry, nil
}

// ListEntries returns the user's entries matching all supplied filters,
// most recent date first, ties broken by creation time descending.
func (s *Postgres) ListEntries(ctx context.Context, userID string, filter EntryFilter) ([]Entry, error) {
	whereConditions := []string{"telegram_user_id = $1"}
	args := []interface{}{userID}
	argCounter := 2

	if filter.Search != "" {
		whereConditions = append(whereConditions, fmt.Sprintf(
			"(title ILIKE $%d OR summary ILIKE $%d OR transcript ILIKE $%d)",
			argCounter, argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	// Date range only applies when both bounds are supplied
	if filter.StartDate != "" && filter.EndDate != "" {
		whereConditions = append(whereConditions, fmt.Sprintf(
			"date BETWEEN $%d AND $%d", argCounter, argCounter+1))
		args = append(args, filter.StartDate, filter.EndDate)
		argCounter += 2
	}

	// Substring match against the raw tags field, not a membership test
	if filter.Tag != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("tags LIKE $%d", argCounter))
		args = append(args, "%"+filter.Tag+"%")
		argCounter++
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` +
		strings.Join(whereConditions, " AND ") +
		` ORDER BY date DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// UpdateEntry replaces the editable fields of an entry and touches updated_at.
func (s *Postgres) UpdateEntry(ctx context.Context, id string, upd EntryUpdate) error {
	query := `
		UPDATE journal_entries
		SET date = $1, title = $2, summary = $3, content = $4, tags = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.pool.Exec(ctx, query, upd.Date, upd.Title, upd.Summary, upd.Content, upd.Tags, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry; its image rows go with it via ON DELETE
// CASCADE. Backing files must be removed by the caller beforehand.
func (s *Postgres) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImage inserts an image row, assigning its id and created_at.
func (s *Postgres) AddImage(ctx context.Context, img *Image) error {
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	img.CreatedAt = time.Now()

	query := `
		INSERT INTO entry_images (id, entry_id, file_path, file_name, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query, img.ID, img.EntryID, img.FilePath, img.FileName, img.FileSize, img.MimeType, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

// GetImage fetches one image row by id.
func (s *Postgres) GetImage(ctx context.Context, id string) (*Image, error) {
	query := `
		SELECT id, entry_id, file_path, file_name, file_size, mime_type, created_at
		FROM entry_images WHERE id = $1
	`
	var img Image
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.EntryID, &img.FilePath, &img.FileName, &img.FileSize, &img.MimeType, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return &img, nil
}

// ListImages returns an entry's images in upload order.
func (s *Postgres) ListImages(ctx context.Context, entryID string) ([]Image, error) {
	query := `
		SELECT id, entry_id, file_path, file_name, file_size, mime_type, created_at
		FROM entry_images WHERE entry_id = $1 ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.EntryID, &img.FilePath, &img.FileName, &img.FileSize, &img.MimeType, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes one image row.
func (s *Postgres) DeleteImage(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM entry_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TagFields returns the raw non-empty tags fields of all the user's entries.
func (s *Postgres) TagFields(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT tags FROM journal_entries
		WHERE telegram_user_id = $1 AND tags IS NOT NULL AND tags != ''
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var fields []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		fields = append(fields, tags)
	}
	return fields, rows.Err()
}

// UpsertUser creates the user on first contact, or refreshes last_activity
// on subsequent ones.
func (s *Postgres) UpsertUser(ctx context.Context, user *User) (*User, error) {
	existing, err := s.GetUser(ctx, user.TelegramUserID)
	if err == nil {
		if err := s.TouchUser(ctx, user.TelegramUserID); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user.ID = uuid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.LastActivity = now

	query := `
		INSERT INTO users (id, telegram_user_id, username, first_name, last_name, created_at, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.pool.Exec(ctx, query, user.ID, user.TelegramUserID, user.Username, user.FirstName, user.LastName, user.CreatedAt, user.LastActivity)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// GetUser fetches a user by their Telegram user id.
func (s *Postgres) GetUser(ctx context.Context, telegramUserID string) (*User, error) {
	query := `
		SELECT id, telegram_user_id, username, first_name, last_name, created_at, last_activity
		FROM users WHERE telegram_user_id = $1
	`
	var u User
	err := s.pool.QueryRow(ctx, query, telegramUserID).Scan(
		&u.ID, &u.TelegramUserID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &u.LastActivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &u, nil
}

// TouchUser refreshes a user's last_activity timestamp.
func (s *Postgres) TouchUser(ctx context.Context, telegramUserID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_activity = NOW() WHERE telegram_user_id = $1`, telegramUserID)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

// Stats aggregates entry and image counts for a user. The monthly breakdown
// covers the last six months, keyed YYYY-MM off the entry date field.
func (s *Postgres) Stats(ctx context.Context, userID string) (*Stats, error) {
	stats := &Stats{
		EntriesBySource: []SourceCount{},
		MonthlyEntries:  []MonthCount{},
	}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE telegram_user_id = $1`, userID).Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	sourceRows, err := s.pool.Query(ctx, `
		SELECT source, COUNT(*) FROM journal_entries
		WHERE telegram_user_id = $1
		GROUP BY source
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by source: %w", err)
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var sc SourceCount
		if err := sourceRows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		stats.EntriesBySource = append(stats.EntriesBySource, sc)
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0).Format("2006-01-02")
	monthRows, err := s.pool.Query(ctx, `
		SELECT LEFT(date, 7) AS month, COUNT(*) FROM journal_entries
		WHERE telegram_user_id = $1 AND date >= $2
		GROUP BY month
		ORDER BY month DESC
	`, userID, sixMonthsAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly entries: %w", err)
	}
	defer monthRows.Close()
	for monthRows.Next() {
		var mc MonthCount
		if err := monthRows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan month count: %w", err)
		}
		stats.MonthlyEntries = append(stats.MonthlyEntries, mc)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM entry_images ei
		JOIN journal_entries je ON ei.entry_id = je.id
		WHERE je.telegram_user_id = $1
	`, userID).Scan(&stats.TotalImages)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	return stats, nil
}

var _ Store = (*Postgres)(nil)
