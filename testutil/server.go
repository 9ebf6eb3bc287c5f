package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/menuadmin/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Account is a login the fake backend accepts
type Account struct {
	Password string
	User     types.UserRecord
	// Token is returned verbatim when set. Otherwise an HS256 JWT is issued.
	Token string
}

// Call is one request the backend received
type Call struct {
	Method        string
	Path          string // relative to the API root, e.g. "/menu/m1"
	Authorization string
	RequestID     string
	Body          []byte
}

type failure struct {
	status  int
	message string
}

// Backend is an in-memory stand-in for the restaurant REST API, served
// over httptest. All routes live under /api.
type Backend struct {
	server *httptest.Server
	secret []byte

	mu       sync.Mutex
	accounts map[string]Account
	tokens   map[string]bool
	items    []types.MenuItem
	nextID   int
	envelope bool
	uuidIDs  bool
	failures map[string]failure
	calls    []Call
}

// BackendOption configures a Backend
type BackendOption func(*Backend)

// WithAccount registers credentials the login route accepts
func WithAccount(email string, account Account) BackendOption {
	return func(b *Backend) {
		b.accounts[email] = account
	}
}

// WithItems seeds the menu
func WithItems(items ...types.MenuItem) BackendOption {
	return func(b *Backend) {
		b.items = append(b.items, items...)
	}
}

// WithEnvelope wraps list and item responses in {"data": ...}
func WithEnvelope() BackendOption {
	return func(b *Backend) {
		b.envelope = true
	}
}

// WithUUIDs makes created items get uuid identifiers instead of m1, m2, ...
func WithUUIDs() BackendOption {
	return func(b *Backend) {
		b.uuidIDs = true
	}
}

// NewBackend starts a fake backend that is shut down when the test ends
func NewBackend(t testing.TB, opts ...BackendOption) *Backend {
	t.Helper()

	b := &Backend{
		secret:   []byte("menuadmin-test-secret"),
		accounts: make(map[string]Account),
		tokens:   make(map[string]bool),
		failures: make(map[string]failure),
	}
	for _, opt := range opts {
		opt(b)
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(b.record)
		r.Use(b.inject)
		r.Post("/auth/login", b.login)
		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			r.Get("/menu", b.listItems)
			r.Post("/menu", b.createItem)
			r.Put("/menu/{id}", b.replaceItem)
			r.Delete("/menu/{id}", b.deleteItem)
		})
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the API root, suitable for api.New
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Close stops the server early, e.g. to provoke network errors
func (b *Backend) Close() {
	b.server.Close()
}

// Fail makes every request matching method and path answer with status and
// a {"message": ...} body until ClearFailures. An empty message sends an
// empty body.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// ClearFailures removes all injected failures
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// RevokeTokens invalidates every issued token so authenticated routes
// answer 401
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]bool)
}

// AcceptToken marks token as valid without a login
func (b *Backend) AcceptToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = true
}

// Items returns a copy of the stored menu
func (b *Backend) Items() []types.MenuItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.MenuItem, len(b.items))
	copy(out, b.items)
	return out
}

// Calls returns the requests received so far
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount counts received requests matching method and path
func (b *Backend) CallCount(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.EscapedPath(), "/api"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.EscapedPath(), "/api")
		b.mu.Lock()
		f, ok := b.failures[key]
		b.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.message == "" {
			w.WriteHeader(f.status)
			return
		}
		writeError(w, f.status, f.message)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		b.mu.Lock()
		valid := b.tokens[token]
		b.mu.Unlock()
		if !valid {
			writeError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	b.mu.Lock()
	account, ok := b.accounts[body.Email]
	b.mu.Unlock()
	if !ok || account.Password != body.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token := account.Token
	if token == "" {
		signed, err := b.issue(account.User)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		token = signed
	}
	b.AcceptToken(token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  account.User,
	})
}

func (b *Backend) issue(user types.UserRecord) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *Backend) listItems(w http.ResponseWriter, r *http.Request) {
	items := b.Items()
	if b.envelope {
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (b *Backend) createItem(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	b.nextID++
	id := fmt.Sprintf("m%d", b.nextID)
	if b.uuidIDs {
		id = uuid.NewString()
	}
	item := fromPayload(id, payload)
	b.items = append(b.items, item)
	b.mu.Unlock()

	b.writeItem(w, http.StatusCreated, item)
}

func (b *Backend) replaceItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	item := fromPayload(id, payload)
	b.items[idx] = item
	b.mu.Unlock()

	b.writeItem(w, http.StatusOK, item)
}

func (b *Backend) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	b.items = append(b.items[:idx], b.items[idx+1:]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted"})
}

// indexOf must be called with mu held
func (b *Backend) indexOf(id string) int {
	for i, item := range b.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) writeItem(w http.ResponseWriter, status int, item types.MenuItem) {
	if b.envelope {
		writeJSON(w, status, map[string]interface{}{"data": item})
		return
	}
	writeJSON(w, status, item)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (types.DraftPayload, bool) {
	var payload types.DraftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return payload, false
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return payload, false
	}
	return payload, true
}

func fromPayload(id string, p types.DraftPayload) types.MenuItem {
	return types.MenuItem{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		IsAvailable: p.IsAvailable,
		SpiceLevel:  p.SpiceLevel,
		Vegetarian:  p.Vegetarian,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
