package dto

import "github.com/BloggingApp/blog-client/internal/model"

// PagedPosts is the backend's paginated list envelope. PageSize is not sent
// by the server; it is derived from len(Results) on a full page.
type PagedPosts struct {
	Count   int64        `json:"count"`
	Results []model.Post `json:"results"`
}

// LoginResult is the /auth/login success payload.
type LoginResult struct {
	User   model.User `json:"user"`
	Access string     `json:"access"`
}
