package session

import (
	"context"
	"errors"
	"testing"

	"github.com/BloggingApp/blog-client/internal/model"
	"github.com/BloggingApp/blog-client/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryStore struct {
	values map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
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

func TestLoginLogoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	sessions, err := New(ctx, store, zap.NewNop())
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}

	user := model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	if err := sessions.Login(ctx, user, "token-123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	current := sessions.Current()
	if current == nil || current.Username != "alice" || current.ID != user.ID {
		t.Fatalf("expected logged-in alice, got %+v", current)
	}
	if sessions.Token() != "token-123" {
		t.Fatalf("expected token to be available, got %q", sessions.Token())
	}

	if err := sessions.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if sessions.Current() != nil {
		t.Fatalf("expected no session after logout")
	}
	if sessions.Token() != "" {
		t.Fatalf("expected empty token after logout")
	}

	// Both keys must be gone from storage.
	for _, key := range []string{"access_token", "user"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected %q to be absent after logout, got err %v", key, err)
		}
	}
}

func TestLoadSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	first, err := New(ctx, store, zap.NewNop())
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	user := model.User{ID: uuid.New(), Username: "alice"}
	if err := first.Login(ctx, user, "token-123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	second, err := New(ctx, store, zap.NewNop())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	current := second.Current()
	if current == nil || current.Username != "alice" {
		t.Fatalf("expected session to survive restart, got %+v", current)
	}
	if second.Token() != "token-123" {
		t.Fatalf("expected token to survive restart")
	}
}

func TestLoadClearsBrokenState(t *testing.T) {
	cases := []struct {
		name   string
		values map[string][]byte
	}{
		{"malformed user", map[string][]byte{
			"access_token": []byte("token-123"),
			"user":         []byte("{not json"),
		}},
		{"token without user", map[string][]byte{
			"access_token": []byte("token-123"),
		}},
		{"user without token", map[string][]byte{
			"user": []byte(`{"username":"alice"}`),
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemoryStore()
			for key, value := range c.values {
				store.values[key] = value
			}

			sessions, err := New(ctx, store, zap.NewNop())
			if err != nil {
				t.Fatalf("initialization must not fail on broken state: %v", err)
			}
			if sessions.Current() != nil {
				t.Fatalf("broken state must be treated as no session")
			}
			if sessions.Token() != "" {
				t.Fatalf("broken state must not leave a token behind")
			}
			if len(store.values) != 0 {
				t.Fatalf("broken state must be cleared from storage, still have %v", store.values)
			}
		})
	}
}
