package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerAttachment(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()

	authed := New(srv.URL, staticToken("abc"), zap.NewNop())
	if _, err := authed.ListComments(ctx, "first-post"); err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}

	anonymous := New(srv.URL, staticToken(""), zap.NewNop())
	if _, err := anonymous.ListComments(ctx, "first-post"); err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("anonymous call must not send an Authorization header, got %q", gotAuth)
	}
}

func TestFailureTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   Kind
	}{
		{http.StatusUnauthorized, `{"detail":"token expired"}`, KindUnauthorized},
		{http.StatusForbidden, `{"detail":"not yours"}`, KindUnauthorized},
		{http.StatusNotFound, `{"detail":"no such post"}`, KindNotFound},
		{http.StatusBadRequest, `{"comment":["This field may not be blank."]}`, KindValidation},
		{http.StatusInternalServerError, `oops`, KindServer},
		{http.StatusBadGateway, ``, KindServer},
	}
	for i, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			w.Write([]byte(c.body))
		}))

		client := New(srv.URL, staticToken(""), zap.NewNop())
		_, err := client.FetchPost(context.Background(), "first-post")
		srv.Close()

		if err == nil {
			t.Fatalf("case %d: expected failure for status %d", i, c.status)
		}
		if got := KindOf(err); got != c.want {
			t.Fatalf("case %d: status %d mapped to %v, want %v", i, c.status, got, c.want)
		}
	}
}

func TestValidationFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":["This field is required."],"description":["Too short."]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("abc"), zap.NewNop())
	_, err := client.CreateComment(context.Background(), "first-post", "")
	if err == nil {
		t.Fatalf("expected validation failure")
	}

	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gwErr.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %v", gwErr.Kind)
	}
	if len(gwErr.Fields["title"]) != 1 || len(gwErr.Fields["description"]) != 1 {
		t.Fatalf("expected field errors to be captured, got %v", gwErr.Fields)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New(srv.URL, staticToken(""), zap.NewNop())
	_, err := client.ListComments(context.Background(), "first-post")
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestListCommentsDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/blog/get/comment/first-post/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"user":"alice","comment":"hi","reply_count":2}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken(""), zap.NewNop())
	comments, err := client.ListComments(context.Background(), "first-post")
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Author != "alice" || comments[0].Body != "hi" || comments[0].ReplyCount != 2 {
		t.Fatalf("unexpected decode result: %+v", comments[0])
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"user":{"username":"alice"},"access":"token-123"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken(""), zap.NewNop())
	result, err := client.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.Username != "alice" || result.Access != "token-123" {
		t.Fatalf("unexpected login result: %+v", result)
	}
}
