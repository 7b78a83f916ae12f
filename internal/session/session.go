package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/BloggingApp/blog-client/internal/model"
	"github.com/BloggingApp/blog-client/internal/storage"
	"go.uber.org/zap"
)

const (
	accessTokenKey = "access_token"
	userKey        = "user"
)

// Store holds the authenticated identity and bearer token. Both live and
// die together: Login persists both keys, Logout clears both, and a
// half-present persisted state found on startup is treated as no session
// and wiped.
type Store struct {
	storage storage.Store
	logger  *zap.Logger

	mu    sync.RWMutex
	user  *model.User
	token string
}

func New(ctx context.Context, store storage.Store, logger *zap.Logger) (*Store, error) {
	s := &Store{
		storage: store,
		logger:  logger,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	token, tokenErr := s.storage.Get(ctx, accessTokenKey)
	if tokenErr != nil && !errors.Is(tokenErr, storage.ErrNotFound) {
		return tokenErr
	}

	userRaw, userErr := s.storage.Get(ctx, userKey)
	if userErr != nil && !errors.Is(userErr, storage.ErrNotFound) {
		return userErr
	}

	if tokenErr != nil && userErr != nil {
		return nil // anonymous
	}

	// A token without a user (or the reverse) is a broken state nothing can
	// act on; same for a user blob that no longer parses. Wipe both.
	if tokenErr != nil || userErr != nil {
		s.logger.Warn("found partial persisted session, clearing it")
		return s.storage.Delete(ctx, accessTokenKey, userKey)
	}

	var user model.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		s.logger.Sugar().Warnf("failed to decode persisted user, clearing session: %s", err.Error())
		return s.storage.Delete(ctx, accessTokenKey, userKey)
	}

	s.user = &user
	s.token = string(token)

	return nil
}

func (s *Store) Login(ctx context.Context, user model.User, token string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, accessTokenKey, []byte(token)); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, userKey, userJSON); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, accessTokenKey, userKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	return nil
}

// Current returns the logged-in user, or nil when anonymous. It reads the
// in-memory state only; storage is consulted once, at construction.
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user

	return &user
}

// Token implements gateway.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}
