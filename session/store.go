// Package session persists the signed-in administrator between runs.
//
// The store keeps two keys in a Backend: "token", the opaque bearer token,
// and "user", the JSON-serialized UserRecord. Reads never fail: missing,
// unreadable or corrupt data reads as "not logged in".
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arthur-debert/menuadmin/types"
)

// Storage keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

// ErrEmptyToken is returned by SetAuth when the token is empty
var ErrEmptyToken = errors.New("token must not be empty")

// Store reads and writes the session through a Backend
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// Option modifies Store configuration
type Option func(*Store)

// WithLogger sets the logger used to report unreadable session data
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store on top of backend
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the stored bearer token
func (s *Store) Token() (string, bool) {
	token, ok, err := s.backend.Get(TokenKey)
	if err != nil {
		s.logger.Warn("session token unreadable, treating as logged out", "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// User returns the stored user record. A record that does not decode is
// reported as absent.
func (s *Store) User() (types.UserRecord, bool) {
	raw, ok, err := s.backend.Get(UserKey)
	if err != nil {
		s.logger.Warn("session user unreadable, treating as logged out", "error", err)
		return types.UserRecord{}, false
	}
	if !ok || raw == "" || raw == "null" {
		return types.UserRecord{}, false
	}

	var user types.UserRecord
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("session user malformed, treating as logged out", "error", err)
		return types.UserRecord{}, false
	}
	return user, true
}

// Session returns token and user together, or false if either is missing
func (s *Store) Session() (types.Session, bool) {
	token, ok := s.Token()
	if !ok {
		return types.Session{}, false
	}
	user, ok := s.User()
	if !ok {
		return types.Session{}, false
	}
	return types.Session{Token: token, User: user}, true
}

// SetAuth stores token and user in one backend write
func (s *Store) SetAuth(token string, user types.UserRecord) error {
	if token == "" {
		return ErrEmptyToken
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.backend.SetMany(map[string]string{
		TokenKey: token,
		UserKey:  string(data),
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearAuth removes token and user. Safe to call when already empty.
func (s *Store) ClearAuth() error {
	if err := s.backend.Remove(TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a token is stored
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}
