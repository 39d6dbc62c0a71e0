package models

import (
	"io.winapps.therapyjournal/internal/store"
)

type UserResponse struct {
	User store.User `json:"user"`
}
