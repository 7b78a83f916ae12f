package gateway

import (
	"context"
	"net/http"

	"github.com/BloggingApp/blog-client/internal/dto"
)

func (c *Client) Login(ctx context.Context, email string, password string) (*dto.LoginResult, error) {
	var result dto.LoginResult
	input := dto.LoginDto{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, input, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// RequestPasswordReset asks the backend to send a reset email. A success
// says nothing about whether the address exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	input := dto.PasswordResetDto{Email: email}
	return c.do(ctx, http.MethodPost, "/auth/password/reset", nil, input, nil)
}
