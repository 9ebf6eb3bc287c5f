package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

const (
	lockTimeout       = 3 * time.Second
	lockRetryInterval = 100 * time.Millisecond
)

// ErrCorrupt is returned by FileBackend.Get when the file is not a JSON object
var ErrCorrupt = errors.New("session file is corrupt")

// FileBackend stores values as a JSON object in a single file. Access is
// serialized within the process by a mutex and across processes by a lock
// file next to the data file.
type FileBackend struct {
	path        string
	fs          FileSystem
	lockFactory FileLockFactory
	logger      *slog.Logger
	mu          sync.Mutex
}

// FileBackendOption modifies FileBackend configuration
type FileBackendOption func(*FileBackend)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) FileBackendOption {
	return func(b *FileBackend) {
		b.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) FileBackendOption {
	return func(b *FileBackend) {
		b.lockFactory = factory
	}
}

// WithBackendLogger sets the logger used for recoverable problems
func WithBackendLogger(logger *slog.Logger) FileBackendOption {
	return func(b *FileBackend) {
		b.logger = logger
	}
}

// NewFileBackend creates a backend persisting to path. Nothing is touched
// on disk until the first write.
func NewFileBackend(path string, opts ...FileBackendOption) *FileBackend {
	b := &FileBackend{
		path:        path,
		fs:          OSFileSystem{},
		lockFactory: FlockFactory{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the data file location
func (b *FileBackend) Path() string {
	return b.path
}

// Get implements Backend.Get
func (b *FileBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// No file means no session; don't create the directory just to read.
	if _, err := b.fs.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}

	var values map[string]string
	err := b.withLock(func() error {
		var err error
		values, err = b.load()
		return err
	})
	if err != nil {
		return "", false, err
	}

	v, ok := values[key]
	return v, ok, nil
}

// SetMany implements Backend.SetMany
func (b *FileBackend) SetMany(values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.fs.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return b.withLock(func() error {
		current, err := b.load()
		if errors.Is(err, ErrCorrupt) {
			b.logger.Warn("overwriting corrupt session file", "path", b.path)
			current, err = map[string]string{}, nil
		}
		if err != nil {
			return err
		}
		for k, v := range values {
			current[k] = v
		}
		return b.save(current)
	})
}

// Remove implements Backend.Remove
func (b *FileBackend) Remove(keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.fs.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return b.withLock(func() error {
		current, err := b.load()
		if errors.Is(err, ErrCorrupt) {
			b.logger.Warn("resetting corrupt session file", "path", b.path)
			return b.save(map[string]string{})
		}
		if err != nil {
			return err
		}

		changed := false
		for _, k := range keys {
			if _, ok := current[k]; ok {
				delete(current, k)
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return b.save(current)
	})
}

// withLock runs fn while holding the inter-process lock
func (b *FileBackend) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	lock := b.lockFactory.New(b.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock")
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

// load reads the file. Caller holds the lock.
func (b *FileBackend) load() (map[string]string, error) {
	data, err := b.fs.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	// Empty file is OK
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// save writes the file atomically. Caller holds the lock.
func (b *FileBackend) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmpFile := b.path + ".tmp"
	if err := b.fs.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := b.fs.Rename(tmpFile, b.path); err != nil {
		_ = b.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
