// Package filestore keeps uploaded product images and generated invoice PDFs
// on local disk or in a Cloud Storage bucket.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNotFound   = errors.New("filestore: object not found")
	ErrInvalidKey = errors.New("filestore: invalid key")
)

// Object is an open stored file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store saves and serves opaque blobs addressed by slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns "<prefix>/<ulid><ext>". ULIDs sort by creation time, so a
// listing of a prefix is chronological.
func NewKey(prefix, ext string) string {
	name := strings.ToLower(ulid.Make().String())
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(strings.Trim(prefix, "/"), name+ext)
}

// ValidateKey rejects empty keys, absolute paths and traversal segments.
func ValidateKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return key, nil
}
