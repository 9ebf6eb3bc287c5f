package session

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// mockFileSystem is an in-memory FileSystem with injectable errors
type mockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	ReadFileError  error
	WriteFileError error
	RenameError    error
	MkdirAllError  error
}

type mockFileInfo struct {
	name string
	size int64
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return fi.size }
func (fi mockFileInfo) Mode() fs.FileMode  { return 0o600 }
func (fi mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mockFileInfo) IsDir() bool        { return false }
func (fi mockFileInfo) Sys() interface{}   { return nil }

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *mockFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
}

func (m *mockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

func (m *mockFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if m.WriteFileError != nil {
		return m.WriteFileError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content := make([]byte, len(data))
	copy(content, data)
	m.files[name] = content
	return nil
}

func (m *mockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[oldpath]
	if !ok {
		return os.ErrNotExist
	}
	m.files[newpath] = content
	delete(m.files, oldpath)
	return nil
}

func (m *mockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

func (m *mockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirAllError != nil {
		return m.MkdirAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *mockFileSystem) put(name string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = []byte(content)
}

func (m *mockFileSystem) content(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.files[name]
	return string(c), ok
}

// mockFileLock records lock traffic and can be forced to fail
type mockFileLock struct {
	mu        sync.Mutex
	held      bool
	lockError error
	refuse    bool

	LockAttempts   int
	UnlockAttempts int
}

func (l *mockFileLock) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.LockAttempts++
	if l.lockError != nil {
		return false, l.lockError
	}
	if l.refuse || l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *mockFileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.UnlockAttempts++
	l.held = false
	return nil
}

type mockFileLockFactory struct {
	mu    sync.Mutex
	locks map[string]*mockFileLock
}

func newMockFileLockFactory() *mockFileLockFactory {
	return &mockFileLockFactory{locks: make(map[string]*mockFileLock)}
}

func (f *mockFileLockFactory) New(path string) FileLock {
	return f.lock(path)
}

func (f *mockFileLockFactory) lock(path string) *mockFileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.locks[path]; ok {
		return l
	}
	l := &mockFileLock{}
	f.locks[path] = l
	return l
}
