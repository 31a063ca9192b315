package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Medium is the durable string-keyed, string-valued key-space the store
// persists into. Get reports ok=false for an absent key; Set replaces the
// whole value; Delete is a no-op for an absent key.
type Medium interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// FileMedium keeps one file per key under a directory.
type FileMedium struct {
	dir string
}

// NewFileMedium creates the directory if needed and returns a medium over it.
func NewFileMedium(dir string) (*FileMedium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileMedium{dir: dir}, nil
}

func (m *FileMedium) path(key string) string {
	// Keys are fixed well-known names, but keep them filesystem-safe anyway.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(m.dir, safe+".json")
}

func (m *FileMedium) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(m.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return string(data), true, nil
}

func (m *FileMedium) Set(key, value string) error {
	if err := os.WriteFile(m.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (m *FileMedium) Delete(key string) error {
	if err := os.Remove(m.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// MemMedium is an in-memory medium for tests.
type MemMedium struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemMedium() *MemMedium {
	return &MemMedium{values: make(map[string]string)}
}

func (m *MemMedium) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemMedium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
