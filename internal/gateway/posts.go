package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/model"
)

// ListPosts fetches one page of the public feed.
func (c *Client) ListPosts(ctx context.Context, page int, search string) (*dto.PagedPosts, error) {
	return c.listPosts(ctx, "/api/blog/", page, search)
}

// ListMyPosts fetches one page of the authenticated user's own posts.
func (c *Client) ListMyPosts(ctx context.Context, page int, search string) (*dto.PagedPosts, error) {
	return c.listPosts(ctx, "/api/my/blog/", page, search)
}

func (c *Client) listPosts(ctx context.Context, path string, page int, search string) (*dto.PagedPosts, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}

	var posts dto.PagedPosts
	if err := c.do(ctx, http.MethodGet, path, query, nil, &posts); err != nil {
		return nil, err
	}

	return &posts, nil
}

func (c *Client) FetchPost(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/blog/%s/", slug), nil, nil, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

// TrackView bumps the server-side view counter for a post.
func (c *Client) TrackView(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/api/blog/views/%s/", slug), nil, nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, input dto.CreatePostDto) (*model.Post, error) {
	return c.sendPostForm(ctx, http.MethodPost, "/api/create/blog/", input)
}

func (c *Client) UpdatePost(ctx context.Context, slug string, input dto.CreatePostDto) (*model.Post, error) {
	return c.sendPostForm(ctx, http.MethodPut, fmt.Sprintf("/blog/edit-delete/%s/", slug), input)
}

func (c *Client) DeletePost(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/blog/edit-delete/%s/", slug), nil, nil, nil)
}

func (c *Client) sendPostForm(ctx context.Context, method string, path string, input dto.CreatePostDto) (*model.Post, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("title", input.Title); err != nil {
		c.logger.Sugar().Errorf("failed to write title field for post form: %s", err.Error())
		return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
	}
	if err := writer.WriteField("description", input.Description); err != nil {
		c.logger.Sugar().Errorf("failed to write description field for post form: %s", err.Error())
		return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
	}
	if err := writer.WriteField("is_published", strconv.FormatBool(input.IsPublished)); err != nil {
		c.logger.Sugar().Errorf("failed to write is_published field for post form: %s", err.Error())
		return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
	}

	if input.Image != nil {
		fileWriter, err := writer.CreateFormFile("image", input.ImageName)
		if err != nil {
			c.logger.Sugar().Errorf("failed to create image part for post form: %s", err.Error())
			return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
		}
		if _, err := io.Copy(fileWriter, input.Image); err != nil {
			c.logger.Sugar().Errorf("failed to copy image content for post form: %s", err.Error())
			return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
		}
	}

	if err := writer.Close(); err != nil {
		c.logger.Sugar().Errorf("failed to close writer for post form: %s", err.Error())
		return nil, &Error{Kind: KindNetwork, Message: "failed to encode form"}
	}

	var post model.Post
	if err := c.doMultipart(ctx, method, path, &requestBody, writer.FormDataContentType(), &post); err != nil {
		return nil, err
	}

	return &post, nil
}
