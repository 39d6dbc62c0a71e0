package models

type CreateEntryResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
