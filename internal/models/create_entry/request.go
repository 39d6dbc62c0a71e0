package models

type CreateEntryRequest struct {
	OwnerID string `json:"ownerId"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}
