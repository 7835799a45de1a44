package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Local stores objects as files under a base directory.
// Thread-safe for concurrent operations.
type Local struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewLocal creates a local store rooted at basePath, creating the
// directory if needed.
func NewLocal(basePath string) (*Local, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Local{basePath: basePath}, nil
}

// Save writes an object under key.
func (l *Local) Save(_ context.Context, key string, data []byte) error {
	if !validKey(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	if len(data) == 0 {
		return fmt.Errorf("data cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

// Open returns a reader over the object's contents.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	f, err := os.Open(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	return f, nil
}

// Delete removes an object. A missing key is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// URL returns the serving path for a key.
func (l *Local) URL(key string) string {
	return "/media/" + key
}

func (l *Local) path(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}
