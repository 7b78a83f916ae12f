package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BloggingApp/blog-client/internal/gateway"
	"github.com/BloggingApp/blog-client/internal/session"
	"github.com/BloggingApp/blog-client/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type memoryStore struct {
	values map[string][]byte
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }

// fakeBackend imitates the remote blog API.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"username":"alice","email":"alice@example.com"},"access":"token-123"}`))
	})
	mux.HandleFunc("/api/blog/first-post/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"slug":"first-post","title":"First Post","author":"alice","views":7}`))
	})
	mux.HandleFunc("/api/blog/get/comment/first-post/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"user":"alice","comment":"first!","reply_count":0}]`))
	})
	mux.HandleFunc("/api/blog/create/comment/first-post/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"credentials were not provided"}`))
			return
		}
		w.Write([]byte(`{"id":2,"user":"alice","comment":"another"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	return httptest.NewServer(mux)
}

func newTestHandler(t *testing.T, backendURL string) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	viper.Set("client.origin", "http://localhost:5173")

	logger := zap.NewNop()
	store := &memoryStore{values: make(map[string][]byte)}
	sessions, err := session.New(context.Background(), store, logger)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	api := gateway.New(backendURL, sessions, logger)

	return New(api, sessions, logger)
}

func TestLoginLogoutFlow(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()

	routes := newTestHandler(t, backend.URL).InitRoutes()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	routes.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	var info struct {
		User *struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode session info: %v", err)
	}
	if info.User == nil || info.User.Username != "alice" {
		t.Fatalf("expected session for alice, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode session info: %v", err)
	}
	if info.User != nil {
		t.Fatalf("expected anonymous session after logout, got %s", rec.Body.String())
	}
}

func TestPostDetailAndCommentGating(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()

	routes := newTestHandler(t, backend.URL).InitRoutes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts/first-post", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("post detail: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var readModel struct {
		Post struct {
			Title string `json:"title"`
		} `json:"post"`
		CommentCount int  `json:"comment_count"`
		CanComment   bool `json:"can_comment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &readModel); err != nil {
		t.Fatalf("decode read model: %v", err)
	}
	if readModel.Post.Title != "First Post" || readModel.CommentCount != 1 {
		t.Fatalf("unexpected read model: %s", rec.Body.String())
	}
	if readModel.CanComment {
		t.Fatalf("anonymous visitor must not be offered the comment form")
	}

	// The anonymous comment attempt is refused locally with a login prompt.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/first-post/comments",
		strings.NewReader(`{"comment":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	routes.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous comment, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "log in") {
		t.Fatalf("expected a login prompt, got %s", rec.Body.String())
	}
}

func TestUnknownPostIs404(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	}))
	defer backend.Close()

	routes := newTestHandler(t, backend.URL).InitRoutes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
