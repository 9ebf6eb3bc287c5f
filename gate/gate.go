// Package gate decides whether the administrator is signed in and which
// view a requested path resolves to. The Gate is the only writer of session
// state; everything else reads it through State, User or Subscribe.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/types"
)

// State is the authentication state of the gate
type State int

const (
	Checking State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrMissingCredentials is returned by Login when email or password is empty
var ErrMissingCredentials = errors.New("Please enter both email and password")

// DefaultLoginMessage is shown when the backend gives no reason for a failed login
const DefaultLoginMessage = "Login failed. Please try again."

// LoginError is a rejected or failed login
type LoginError struct {
	Message string // What to show the user
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// SessionStore is the durable side of the session
type SessionStore interface {
	Session() (types.Session, bool)
	SetAuth(token string, user types.UserRecord) error
	ClearAuth() error
}

// Authenticator exchanges credentials for a session
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
}

// Observer is notified after every state transition
type Observer func(state State, user types.UserRecord)

// Gate tracks the session and routes requests accordingly
type Gate struct {
	store  SessionStore
	auth   Authenticator
	logger *slog.Logger

	startOnce sync.Once

	mu        sync.Mutex
	state     State
	user      types.UserRecord
	observers map[int]Observer
	nextObs   int
}

// Option modifies Gate configuration
type Option func(*Gate)

// WithLogger sets the gate's logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// New creates a gate in the Checking state. Call Start before routing.
func New(store SessionStore, auth Authenticator, opts ...Option) *Gate {
	g := &Gate{
		store:     store,
		auth:      auth,
		logger:    slog.Default(),
		state:     Checking,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start reads the stored session once. Later calls do nothing.
func (g *Gate) Start() {
	g.startOnce.Do(func() {
		sess, ok := g.store.Session()
		if ok {
			g.logger.Debug("restored session", "user", sess.User.Email)
			g.transition(Authenticated, sess.User)
			return
		}
		g.transition(Unauthenticated, types.UserRecord{})
	})
}

// State returns the current state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// User returns the signed-in user. ok is false unless Authenticated.
func (g *Gate) User() (types.UserRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user, g.state == Authenticated
}

// Subscribe registers fn for state changes and returns a function that
// removes it
func (g *Gate) Subscribe(fn Observer) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextObs
	g.nextObs++
	g.observers[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.observers, id)
	}
}

// Login authenticates against the backend, persists the session and returns
// the path to navigate to. On failure the state is unchanged.
func (g *Gate) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	resp, err := g.auth.Login(ctx, email, password)
	if err != nil {
		msg, ok := api.ServerMessage(err)
		if !ok {
			msg = DefaultLoginMessage
		}
		g.logger.Info("login failed", "email", email, "error", err)
		return "", &LoginError{Message: msg, Err: err}
	}

	if err := g.store.SetAuth(resp.Token, resp.User); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	g.logger.Info("logged in", "email", resp.User.Email)
	g.transition(Authenticated, resp.User)
	return PathDashboard, nil
}

// Logout clears the stored session and returns the path to navigate to
func (g *Gate) Logout() (string, error) {
	if err := g.store.ClearAuth(); err != nil {
		return "", fmt.Errorf("failed to clear session: %w", err)
	}
	g.transition(Unauthenticated, types.UserRecord{})
	return PathLogin, nil
}

// HandleUnauthorized signs the administrator out after the backend rejected
// the stored token. It is meant to be registered with
// api.WithUnauthorizedHandler.
func (g *Gate) HandleUnauthorized() {
	if g.State() != Authenticated {
		return
	}
	g.logger.Warn("backend rejected session token, signing out")
	if _, err := g.Logout(); err != nil {
		g.logger.Error("failed to clear rejected session", "error", err)
	}
}

func (g *Gate) transition(state State, user types.UserRecord) {
	g.mu.Lock()
	g.state = state
	g.user = user
	observers := make([]Observer, 0, len(g.observers))
	for _, fn := range g.observers {
		observers = append(observers, fn)
	}
	g.mu.Unlock()

	for _, fn := range observers {
		fn(state, user)
	}
}
