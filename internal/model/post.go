package model

import "time"

// Post mirrors the backend's blog post resource. The slug is the stable
// lookup key; Views is server-authoritative and only moves through the
// dedicated tracking endpoint.
type Post struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Views        int64     `json:"views"`
	Likes        int64     `json:"likes"`
	CommentCount int64     `json:"comment_count"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
}
