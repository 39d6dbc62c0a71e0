package models

import (
	"io.winapps.therapyjournal/internal/store"
)

type ListEntriesResponse struct {
	Entries map[string][]store.Entry `json:"entries"`
}
