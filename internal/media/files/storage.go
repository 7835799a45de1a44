// Package files stores uploaded objects (guest media, invitation
// assets, staged import files) behind a storage interface with local
// disk and S3 backends.
package files

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("object not found")

// Storage is a flat object store keyed by opaque string keys.
type Storage interface {
	// Save writes an object under key, replacing any existing one.
	Save(ctx context.Context, key string, data []byte) error
	// Open returns a reader over the object's contents.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the serving path for a key.
	URL(key string) string
}

// NewKey generates a storage key for an uploaded file, preserving the
// original extension so content type can be inferred when serving.
// An optional namespace ("media", "imports") prefixes the key.
func NewKey(namespace, filename string) string {
	key := uuid.NewString()
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && ext != "." {
		key += ext
	}
	if namespace != "" {
		key = namespace + "/" + key
	}
	return key
}

// validKey rejects keys that could escape the storage root. Generated
// keys never trip this; it guards keys read back from the database or
// a URL.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for part := range strings.SplitSeq(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
