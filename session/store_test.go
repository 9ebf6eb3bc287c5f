package session

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/menuadmin/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewStore(backend, WithLogger(quietLogger)), backend
}

func TestStoreRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"file": func(t *testing.T) Backend {
			return NewFileBackend(filepath.Join(t.TempDir(), "session.json"))
		},
	}

	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			s := NewStore(newBackend(t), WithLogger(quietLogger))
			user := types.UserRecord{ID: "1", Name: "Admin", Email: "admin@x.com"}

			if err := s.SetAuth("abc", user); err != nil {
				t.Fatalf("SetAuth: %v", err)
			}

			token, ok := s.Token()
			if !ok || token != "abc" {
				t.Errorf("expected token abc, got %q (%v)", token, ok)
			}
			got, ok := s.User()
			if !ok {
				t.Fatal("expected user to be present")
			}
			if diff := cmp.Diff(user, got); diff != "" {
				t.Errorf("user mismatch (-want +got):\n%s", diff)
			}
			if !s.IsAuthenticated() {
				t.Error("expected IsAuthenticated after SetAuth")
			}

			if err := s.ClearAuth(); err != nil {
				t.Fatalf("ClearAuth: %v", err)
			}
			if _, ok := s.Token(); ok {
				t.Error("expected no token after ClearAuth")
			}
			if _, ok := s.User(); ok {
				t.Error("expected no user after ClearAuth")
			}
			if s.IsAuthenticated() {
				t.Error("expected IsAuthenticated false after ClearAuth")
			}

			// Idempotent
			if err := s.ClearAuth(); err != nil {
				t.Errorf("second ClearAuth: %v", err)
			}
		})
	}
}

func TestStoreKeys(t *testing.T) {
	s, backend := newTestStore(t)
	if err := s.SetAuth("abc", types.UserRecord{ID: "1", Name: "Admin"}); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	if v, _, _ := backend.Get("token"); v != "abc" {
		t.Errorf("expected raw token key, got %q", v)
	}
	if v, _, _ := backend.Get("user"); v != `{"id":"1","name":"Admin","email":""}` {
		t.Errorf("unexpected raw user key %q", v)
	}
}

func TestStoreMalformedUserIsAbsent(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"json null", "null"},
		{"empty", ""},
		{"wrong shape", `["admin"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, backend := newTestStore(t)
			_ = backend.SetMany(map[string]string{"token": "abc", "user": tc.raw})

			if _, ok := s.User(); ok {
				t.Error("expected malformed user to read as absent")
			}
			if _, ok := s.Session(); ok {
				t.Error("expected no session with malformed user")
			}
		})
	}
}

func TestStoreNumericUserID(t *testing.T) {
	s, backend := newTestStore(t)
	_ = backend.SetMany(map[string]string{"token": "abc", "user": `{"id":1,"name":"Admin","email":"admin@x.com"}`})

	user, ok := s.User()
	if !ok {
		t.Fatal("expected user")
	}
	if user.ID != "1" {
		t.Errorf("expected id 1, got %q", user.ID)
	}
}

type failingBackend struct{ err error }

func (f failingBackend) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingBackend) SetMany(map[string]string) error  { return f.err }
func (f failingBackend) Remove(...string) error           { return f.err }

func TestStoreBackendFailures(t *testing.T) {
	boom := errors.New("boom")
	s := NewStore(failingBackend{err: boom}, WithLogger(quietLogger))

	if _, ok := s.Token(); ok {
		t.Error("unreadable token must read as absent")
	}
	if _, ok := s.User(); ok {
		t.Error("unreadable user must read as absent")
	}
	if err := s.SetAuth("abc", types.UserRecord{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
	if err := s.ClearAuth(); !errors.Is(err, boom) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	s, backend := newTestStore(t)
	if err := s.SetAuth("", types.UserRecord{Name: "Admin"}); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken, got %v", err)
	}
	if _, ok, _ := backend.Get(UserKey); ok {
		t.Error("user must not be written without a token")
	}
}

func TestClaims(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info, ok := Claims(token)
	if !ok {
		t.Fatal("expected claims to decode")
	}
	if info.Subject != "1" {
		t.Errorf("expected subject 1, got %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
	if info.Expired(exp.Add(-time.Minute)) {
		t.Error("token should not be expired before exp")
	}
	if !info.Expired(exp.Add(time.Minute)) {
		t.Error("token should be expired after exp")
	}

	if _, ok := Claims("abc"); ok {
		t.Error("opaque tokens must not decode")
	}
	if (TokenInfo{}).Expired(time.Now()) {
		t.Error("token without expiry never expires")
	}
}
