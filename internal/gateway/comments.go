package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/model"
)

// ListComments fetches the root-level comments of a post. Replies are not
// included; they are fetched per comment via FetchReplies.
func (c *Client) ListComments(ctx context.Context, postSlug string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/blog/get/comment/%s/", postSlug), nil, nil, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// FetchReplies fetches one level of replies under a comment.
func (c *Client) FetchReplies(ctx context.Context, commentID int64) ([]model.Comment, error) {
	var replies []model.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/comment/reply/%d/", commentID), nil, nil, &replies); err != nil {
		return nil, err
	}

	return replies, nil
}

func (c *Client) CreateComment(ctx context.Context, postSlug string, body string) (*model.Comment, error) {
	var comment model.Comment
	input := dto.CreateCommentDto{Comment: body}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/blog/create/comment/%s/", postSlug), nil, input, &comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (c *Client) CreateReply(ctx context.Context, commentID int64, body string) (*model.Comment, error) {
	var reply model.Comment
	input := dto.CreateCommentDto{Comment: body}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/comment/reply/%d/", commentID), nil, input, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/blog/delete/comment/%d/", commentID), nil, nil, nil)
}
