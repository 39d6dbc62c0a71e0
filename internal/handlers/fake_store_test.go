package handlers

import (
	"context"
	"strconv"
	"time"

	"io.winapps.therapyjournal/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	entries map[string]*store.Entry
	images  map[string]*store.Image
	users   map[string]*store.User
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: make(map[string]*store.Entry),
		images:  make(map[string]*store.Image),
		users:   make(map[string]*store.User),
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return "id-" + strconv.Itoa(f.nextID)
}

func (f *fakeStore) CreateEntry(ctx context.Context, entry *store.Entry) error {
	if entry.ID == "" {
		entry.ID = f.id()
	}
	if entry.Source == "" {
		entry.Source = store.SourceManual
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeStore) GetEntry(ctx context.Context, id string) (*store.Entry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeStore) ListEntries(ctx context.Context, userID string, filter store.EntryFilter) ([]store.Entry, error) {
	var out []store.Entry
	for _, e := range f.entries {
		if e.TelegramUserID != userID {
			continue
		}
		if filter.StartDate != "" && filter.EndDate != "" {
			if e.Date < filter.StartDate || e.Date > filter.EndDate {
				continue
			}
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) UpdateEntry(ctx context.Context, id string, upd store.EntryUpdate) error {
	entry, ok := f.entries[id]
	if !ok {
		return store.ErrNotFound
	}
	entry.Date = upd.Date
	entry.Title = upd.Title
	entry.Summary = upd.Summary
	entry.Content = upd.Content
	entry.Tags = upd.Tags
	entry.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteEntry(ctx context.Context, id string) error {
	if _, ok := f.entries[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.entries, id)
	for imgID, img := range f.images {
		if img.EntryID == id {
			delete(f.images, imgID)
		}
	}
	return nil
}

func (f *fakeStore) AddImage(ctx context.Context, img *store.Image) error {
	if img.ID == "" {
		img.ID = f.id()
	}
	img.CreatedAt = time.Now()
	cp := *img
	f.images[img.ID] = &cp
	return nil
}

func (f *fakeStore) GetImage(ctx context.Context, id string) (*store.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (f *fakeStore) ListImages(ctx context.Context, entryID string) ([]store.Image, error) {
	images := []store.Image{}
	for _, img := range f.images {
		if img.EntryID == entryID {
			images = append(images, *img)
		}
	}
	return images, nil
}

func (f *fakeStore) DeleteImage(ctx context.Context, id string) error {
	if _, ok := f.images[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

func (f *fakeStore) TagFields(ctx context.Context, userID string) ([]string, error) {
	var fields []string
	for _, e := range f.entries {
		if e.TelegramUserID == userID && e.Tags != "" {
			fields = append(fields, e.Tags)
		}
	}
	return fields, nil
}

func (f *fakeStore) UpsertUser(ctx context.Context, user *store.User) (*store.User, error) {
	if existing, ok := f.users[user.TelegramUserID]; ok {
		existing.LastActivity = time.Now()
		cp := *existing
		return &cp, nil
	}
	user.ID = f.id()
	now := time.Now()
	user.CreatedAt = now
	user.LastActivity = now
	cp := *user
	f.users[user.TelegramUserID] = &cp
	return user, nil
}

func (f *fakeStore) GetUser(ctx context.Context, telegramUserID string) (*store.User, error) {
	user, ok := f.users[telegramUserID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeStore) TouchUser(ctx context.Context, telegramUserID string) error {
	if user, ok := f.users[telegramUserID]; ok {
		user.LastActivity = time.Now()
	}
	return nil
}

func (f *fakeStore) Stats(ctx context.Context, userID string) (*store.Stats, error) {
	stats := &store.Stats{
		EntriesBySource: []store.SourceCount{},
		MonthlyEntries:  []store.MonthCount{},
	}
	bySource := map[string]int{}
	for _, e := range f.entries {
		if e.TelegramUserID != userID {
			continue
		}
		stats.TotalEntries++
		bySource[string(e.Source)]++
	}
	for src, count := range bySource {
		stats.EntriesBySource = append(stats.EntriesBySource, store.SourceCount{Source: src, Count: count})
	}
	for _, img := range f.images {
		if e, ok := f.entries[img.EntryID]; ok && e.TelegramUserID == userID {
			stats.TotalImages++
		}
	}
	return stats, nil
}

func (f *fakeStore) Close() {}

var _ store.Store = (*fakeStore)(nil)
