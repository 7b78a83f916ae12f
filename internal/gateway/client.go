package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, or "" when the session is
// anonymous. It is consulted on every call, so a logout between two calls is
// observed by the second one.
type TokenSource interface {
	Token() string
}

// Client is the typed wrapper around the remote blog API. All methods return
// either decoded data or an *Error; expected HTTP failure statuses never
// escape as anything else.
type Client struct {
	origin     string
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger
}

func New(origin string, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		origin:     strings.TrimRight(origin, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			c.logger.Sugar().Errorf("failed to encode request body for %s: %s", path, err.Error())
			return &Error{Kind: KindNetwork, Message: "failed to encode request"}
		}
		reqBody = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reqBody)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.execute(req, path, out)
}

func (c *Client) doMultipart(ctx context.Context, method string, path string, form *bytes.Buffer, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), form)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)

	return c.execute(req, path, out)
}

func (c *Client) execute(req *http.Request, path string, out interface{}) error {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to reach backend endpoint(%s): %s", path, err.Error())
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Sugar().Errorf("failed to read response body from endpoint(%s): %s", path, err.Error())
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		gwErr := mapHTTPError(resp.StatusCode, respBody)
		c.logger.Sugar().Errorf("ERROR from backend endpoint(%s), code(%d), details: %s", path, resp.StatusCode, gwErr.Message)
		return gwErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.logger.Sugar().Errorf("failed to decode response from endpoint(%s): %s", path, err.Error())
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body"}
		}
	}

	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.origin + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func mapHTTPError(status int, body []byte) *Error {
	gwErr := &Error{Status: status}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		gwErr.Kind = KindUnauthorized
	case status == http.StatusNotFound:
		gwErr.Kind = KindNotFound
	case status >= 500:
		gwErr.Kind = KindServer
	default:
		gwErr.Kind = KindValidation
	}

	var bodyJSON map[string]json.RawMessage
	if err := json.Unmarshal(body, &bodyJSON); err != nil {
		return gwErr
	}

	// The backend reports a single human message under "detail" or
	// "non_field_errors", and field-level rejections as name -> messages.
	for key, raw := range bodyJSON {
		switch key {
		case "detail":
			var detail string
			if json.Unmarshal(raw, &detail) == nil {
				gwErr.Message = detail
			}
		case "non_field_errors":
			var msgs []string
			if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
				gwErr.Message = msgs[0]
			}
		default:
			if gwErr.Kind != KindValidation {
				continue
			}
			var msgs []string
			if json.Unmarshal(raw, &msgs) != nil {
				continue
			}
			if gwErr.Fields == nil {
				gwErr.Fields = make(map[string][]string)
			}
			gwErr.Fields[key] = msgs
		}
	}

	if gwErr.Message == "" && len(gwErr.Fields) > 0 {
		gwErr.Message = "request was rejected"
	}

	return gwErr
}
