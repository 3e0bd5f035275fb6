// Package session holds the client-side authenticated session: the bearer
// token and the current user's profile, persisted to a key-value store so a
// session survives restarts.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SanderWeide/sneaker-engine/internal/client"
	"github.com/SanderWeide/sneaker-engine/internal/kv"
	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/state"
)

const (
	keyAccessToken = "access_token"
	keyCurrentUser = "currentUser"
)

// Store manages the authenticated session.
type Store struct {
	client *client.Client
	kv     kv.Store

	mu    sync.Mutex
	token string

	user *state.Cell[*model.User]
}

// NewStore creates a session store over the given API client and key-value
// store, restoring any persisted session. The client's token source is wired
// to this store.
func NewStore(c *client.Client, store kv.Store) *Store {
	s := &Store{
		client: c,
		kv:     store,
		user:   state.NewCell[*model.User](nil),
	}
	c.TokenFunc = s.Token

	if token, ok, err := store.Get(keyAccessToken); err == nil && ok {
		s.token = token
	}
	if raw, ok, err := store.Get(keyCurrentUser); err == nil && ok {
		var user model.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			s.user.Set(&user)
		}
	}

	return s
}

// User returns the observable current-user cell. The value is nil when no one
// is logged in.
func (s *Store) User() *state.Cell[*model.User] {
	return s.user
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// CurrentUser returns the logged-in user, or nil.
func (s *Store) CurrentUser() *model.User {
	return s.user.Get()
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != "" && s.CurrentUser() != nil
}

// Login exchanges credentials for a token, fetches the profile, and persists
// both as the current session.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.Me(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return nil, err
	}

	if err := s.persist(token, user); err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return nil, err
	}
	s.user.Set(user)
	return user, nil
}

// Signup registers a new account and then logs in with the same credentials.
func (s *Store) Signup(ctx context.Context, draft client.RegisterDraft) (*model.User, error) {
	if _, err := s.client.Register(ctx, draft); err != nil {
		return nil, err
	}
	return s.Login(ctx, draft.Email, draft.Password)
}

// Logout ends the session. The server-side token revocation is best-effort;
// local state is cleared regardless. Logging out twice is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	hadToken := s.token != ""
	s.mu.Unlock()

	if hadToken {
		if err := s.client.Logout(ctx); err != nil {
			slog.Debug("server-side logout failed", "error", err)
		}
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.kv.Delete(keyAccessToken); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if err := s.kv.Delete(keyCurrentUser); err != nil {
		return fmt.Errorf("clearing user: %w", err)
	}
	s.user.Set(nil)
	return nil
}

func (s *Store) persist(token string, user *model.User) error {
	if err := s.kv.Set(keyAccessToken, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := s.kv.Set(keyCurrentUser, string(raw)); err != nil {
		return fmt.Errorf("persisting user: %w", err)
	}
	return nil
}
