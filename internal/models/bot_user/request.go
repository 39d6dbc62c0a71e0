package models

type UpsertUserRequest struct {
	TelegramUserID string `json:"telegram_user_id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
}
