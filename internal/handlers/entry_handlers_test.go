package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"io.winapps.therapyjournal/internal/store"
)

func newTestRouter(t *testing.T, st store.Store) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploadsDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(uploadsDir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}

	h := NewJournalHandler(st, nil, nil, uploadsDir)
	bh := NewBotHandler(st, nil)

	router := gin.New()
	api := router.Group("/api")
	journal := api.Group("/journal")
	journal.GET("/entries/:userId", h.ListEntries)
	journal.GET("/entry/:id", h.GetEntry)
	journal.POST("/entry", h.CreateEntry)
	journal.PUT("/entry/:id", h.UpdateEntry)
	journal.DELETE("/entry/:id", h.DeleteEntry)
	journal.POST("/entry/:id/images", h.UploadImages)
	journal.DELETE("/image/:imageId", h.RemoveImage)
	journal.GET("/tags/:userId", h.GetTags)
	botAPI := api.Group("/bot")
	botAPI.POST("/user", bh.UpsertUser)
	botAPI.GET("/user/:userId", bh.GetUser)
	botAPI.GET("/stats/:userId", bh.GetStats)

	return router, uploadsDir
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateThenGetEntry(t *testing.T) {
	router, _ := newTestRouter(t, newFakeStore())

	w := doJSON(t, router, http.MethodPost, "/api/journal/entry", map[string]string{
		"ownerId": "42",
		"date":    "2024-01-05",
		"title":   "T",
		"summary": "S",
		"tags":    "x,y",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("create response missing id")
	}

	w = doJSON(t, router, http.MethodGet, "/api/journal/entry/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	var got struct {
		Entry  store.Entry   `json:"entry"`
		Images []store.Image `json:"images"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Entry.TelegramUserID != "42" || got.Entry.Date != "2024-01-05" ||
		got.Entry.Title != "T" || got.Entry.Summary != "S" || got.Entry.Tags != "x,y" {
		t.Errorf("roundtrip fields wrong: %+v", got.Entry)
	}
	if got.Entry.Source != store.SourceManual {
		t.Errorf("source = %q, want manual", got.Entry.Source)
	}
	if got.Images == nil || len(got.Images) != 0 {
		t.Errorf("images should be an empty array, got %v", got.Images)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, newFakeStore())
	w := doJSON(t, router, http.MethodGet, "/api/journal/entry/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateEntry_TouchesUpdatedAt(t *testing.T) {
	st := newFakeStore()
	router, _ := newTestRouter(t, st)

	entry := &store.Entry{TelegramUserID: "42", Date: "2024-01-05", Title: "old"}
	if err := st.CreateEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	before := st.entries[entry.ID].UpdatedAt

	w := doJSON(t, router, http.MethodPut, "/api/journal/entry/"+entry.ID, map[string]string{
		"date":  "2024-01-06",
		"title": "new",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	after := st.entries[entry.ID]
	if after.Title != "new" || after.Date != "2024-01-06" {
		t.Errorf("update not applied: %+v", after)
	}
	if after.UpdatedAt.Before(before) {
		t.Error("updated_at went backwards")
	}
	if after.UpdatedAt.Before(after.CreatedAt) {
		t.Error("updated_at before created_at")
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, newFakeStore())
	w := doJSON(t, router, http.MethodPut, "/api/journal/entry/missing", map[string]string{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListEntries_GroupedByMonth(t *testing.T) {
	st := newFakeStore()
	router, _ := newTestRouter(t, st)

	for _, date := range []string{"2024-03-15", "2024-03-01", "2024-02-28"} {
		if err := st.CreateEntry(context.Background(), &store.Entry{TelegramUserID: "42", Date: date}); err != nil {
			t.Fatal(err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/journal/entries/42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Entries map[string][]store.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries["2024-03"]) != 2 || len(resp.Entries["2024-02"]) != 1 {
		t.Errorf("grouping wrong: %v", resp.Entries)
	}
}

func TestListEntries_DateRange(t *testing.T) {
	st := newFakeStore()
	router, _ := newTestRouter(t, st)

	for _, date := range []string{"2024-01-01", "2024-01-15", "2024-02-01"} {
		if err := st.CreateEntry(context.Background(), &store.Entry{TelegramUserID: "42", Date: date}); err != nil {
			t.Fatal(err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/journal/entries/42?startDate=2024-01-01&endDate=2024-01-31", nil)
	var resp struct {
		Entries map[string][]store.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	total := 0
	for key, group := range resp.Entries {
		for _, e := range group {
			if e.Date < "2024-01-01" || e.Date > "2024-01-31" {
				t.Errorf("entry %s outside range under %s", e.Date, key)
			}
			total++
		}
	}
	if total != 2 {
		t.Errorf("expected 2 entries in range, got %d", total)
	}
}

func TestGetTags_Distinct(t *testing.T) {
	st := newFakeStore()
	router, _ := newTestRouter(t, st)

	for _, tags := range []string{"a, b ,a", "b,c"} {
		if err := st.CreateEntry(context.Background(), &store.Entry{TelegramUserID: "42", Date: "2024-01-01", Tags: tags}); err != nil {
			t.Fatal(err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/journal/tags/42", nil)
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	got := map[string]bool{}
	for _, tag := range resp.Tags {
		got[tag] = true
	}
	if len(resp.Tags) != 3 || !got["a"] || !got["b"] || !got["c"] {
		t.Errorf("tags = %v, want distinct {a,b,c}", resp.Tags)
	}
}

func TestDeleteEntry_CascadesImagesAndFiles(t *testing.T) {
	st := newFakeStore()
	router, uploadsDir := newTestRouter(t, st)

	entry := &store.Entry{TelegramUserID: "42", Date: "2024-01-01"}
	if err := st.CreateEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}

	imgFile := filepath.Join(uploadsDir, "images", "pic.png")
	if err := os.WriteFile(imgFile, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	img := &store.Image{EntryID: entry.ID, FilePath: "images/pic.png", FileName: "pic.png"}
	if err := st.AddImage(context.Background(), img); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodDelete, "/api/journal/entry/"+entry.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	if _, err := os.Stat(imgFile); !os.IsNotExist(err) {
		t.Error("backing file should be deleted")
	}
	images, _ := st.ListImages(context.Background(), entry.ID)
	if len(images) != 0 {
		t.Errorf("image rows should be gone, got %v", images)
	}
}

func TestRemoveImage(t *testing.T) {
	st := newFakeStore()
	router, uploadsDir := newTestRouter(t, st)

	entry := &store.Entry{TelegramUserID: "42", Date: "2024-01-01"}
	if err := st.CreateEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	imgFile := filepath.Join(uploadsDir, "images", "one.jpg")
	if err := os.WriteFile(imgFile, []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	img := &store.Image{EntryID: entry.ID, FilePath: "images/one.jpg", FileName: "one.jpg"}
	if err := st.AddImage(context.Background(), img); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodDelete, "/api/journal/image/"+img.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := os.Stat(imgFile); !os.IsNotExist(err) {
		t.Error("backing file should be deleted")
	}

	w = doJSON(t, router, http.MethodDelete, "/api/journal/image/"+img.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
