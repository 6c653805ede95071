// Package session owns the client's authentication state: which user, if
// any, is currently logged in, with durability across restarts.
//
// The Store is the single writer of that state. Consumers read it through
// Snapshot and never mutate it directly. One durable read happens at
// Restore; one durable write per Login/Logout. Persistence failures are
// logged and swallowed — they never block the caller or roll back the
// in-memory state.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/minhwalab/minhwa-cli/internal/client/api"
	"github.com/minhwalab/minhwa-cli/internal/client/models"
	"github.com/minhwalab/minhwa-cli/internal/client/repositories/metadata"
	"github.com/minhwalab/minhwa-cli/internal/logging"
)

// userKey is the single metadata key holding the JSON-encoded user record.
const userKey = "user"

// ErrMissingCredentials is returned by Authenticate before any network call
// when the email or password is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// Snapshot is an immutable view of the session state.
// Invariant: LoggedIn == (User != nil). Loading is true only during the
// initial restore and transitions to false exactly once per process.
type Snapshot struct {
	LoggedIn bool
	Loading  bool
	User     *models.User
}

// Store holds the current session. Safe for concurrent use.
type Store struct {
	repo metadata.Repository
	api  api.Client
	log  logging.Logger

	mu      sync.Mutex
	user    *models.User
	loading bool

	restoreOnce sync.Once
	restored    chan struct{}
}

func NewStore(repo metadata.Repository, apiClient api.Client, log logging.Logger) *Store {
	return &Store{
		repo:     repo,
		api:      apiClient,
		log:      log.With("component", "session"),
		loading:  true,
		restored: make(chan struct{}),
	}
}

// Restore loads the persisted user record, once per process. A missing or
// unreadable record leaves the store logged out. Restore never fails
// outward; whatever happens, loading is cleared so readers don't wait
// forever.
func (s *Store) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			close(s.restored)
		}()

		data, err := s.repo.Get(ctx, userKey)
		if err != nil {
			s.log.Error(ctx, "restoring session", "error", err)
			return
		}
		if data == nil {
			s.log.Debug(ctx, "no persisted session")
			return
		}

		var u models.User
		if err := json.Unmarshal(data, &u); err != nil {
			s.log.Warn(ctx, "discarding corrupt session record", "error", err)
			return
		}

		s.mu.Lock()
		s.user = &u
		s.mu.Unlock()

		if u.Token != "" {
			s.api.SetToken(u.Token)
		}
		s.log.Info(ctx, "session restored", "user_id", u.ID)
	})
}

// Restored is closed once the initial restore has settled.
func (s *Store) Restored() <-chan struct{} {
	return s.restored
}

// Login installs user as the current session and persists it. The record is
// producer-validated; it is not re-validated here. A persistence failure is
// logged but the in-memory state stands.
func (s *Store) Login(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}
	u := *user

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	s.api.SetToken(u.Token)

	data, err := json.Marshal(u)
	if err != nil {
		s.log.Error(ctx, "encoding session record", "error", err)
		return
	}
	if err := s.repo.Set(ctx, userKey, data); err != nil {
		s.log.Error(ctx, "persisting session record", "error", err)
	}
}

// Logout clears the session and removes the persisted record. A persistence
// failure is logged only.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.api.SetToken("")

	if err := s.repo.Delete(ctx, userKey); err != nil {
		s.log.Error(ctx, "removing session record", "error", err)
	}
}

// Authenticate validates the credentials, exchanges them with the backend
// and logs the resulting user in. Empty credentials fail fast with
// ErrMissingCredentials and no network call.
func (s *Store) Authenticate(ctx context.Context, email string, password []byte) (*models.User, error) {
	if strings.TrimSpace(email) == "" || len(bytes.TrimSpace(password)) == 0 {
		return nil, ErrMissingCredentials
	}

	user, token, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user.Token = token
	s.Login(ctx, user)
	return user, nil
}

// Snapshot returns a consistent copy of the session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u *models.User
	if s.user != nil {
		c := *s.user
		u = &c
	}
	return Snapshot{LoggedIn: s.user != nil, Loading: s.loading, User: u}
}
