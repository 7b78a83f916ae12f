package dto

import "io"

type LoginDto struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetDto struct {
	Email string `json:"email" binding:"required"`
}

// CreateCommentDto is the body for both root comments and replies; the
// backend keys the target by URL, not by the payload.
type CreateCommentDto struct {
	Comment string `json:"comment" binding:"required,min=1"`
}

// CreatePostDto carries the multipart fields of the post create/edit calls.
// Image may be nil when the cover image is unchanged or absent.
type CreatePostDto struct {
	Title       string
	Description string
	IsPublished bool
	ImageName   string
	Image       io.Reader
}
