package models

import (
	"io.winapps.therapyjournal/internal/store"
)

type GetEntryResponse struct {
	Entry  store.Entry   `json:"entry"`
	Images []store.Image `json:"images"`
}
