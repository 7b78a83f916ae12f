package model

import "time"

// Comment is a single entry in a post's comment forest. Root comments and
// replies share one shape; depth is positional. ReplyCount is the
// server-reported number of direct replies, which may be nonzero before the
// replies themselves have been fetched.
type Comment struct {
	ID         int64     `json:"id"`
	Author     string    `json:"user"`
	Body       string    `json:"comment"`
	ReplyCount int64     `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
}
