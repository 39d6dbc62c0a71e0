package models

type UploadImagesResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
