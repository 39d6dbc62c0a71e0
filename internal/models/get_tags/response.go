package models

type GetTagsResponse struct {
	Tags []string `json:"tags"`
}
