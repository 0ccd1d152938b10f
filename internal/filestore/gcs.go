package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// GCS stores files as objects in a single Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS wraps an existing client. Keys are stored under prefix when set.
func NewGCS(client *storage.Client, bucket, prefix string) (*GCS, error) {
	if client == nil {
		return nil, errors.New("filestore: storage client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("filestore: bucket name is required")
	}
	return &GCS{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (g *GCS) object(key string) (*storage.ObjectHandle, error) {
	key, err := ValidateKey(key)
	if err != nil {
		return nil, err
	}
	if g.prefix != "" {
		key = g.prefix + "/" + key
	}
	return g.client.Bucket(g.bucket).Object(key), nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	obj, err := g.object(key)
	if err != nil {
		return err
	}
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close() //nolint:errcheck
		return fmt.Errorf("filestore: upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("filestore: finalize %s: %w", key, err)
	}
	return nil
}

func (g *GCS) Open(ctx context.Context, key string) (*Object, error) {
	obj, err := g.object(key)
	if err != nil {
		return nil, err
	}
	rd, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("filestore: read %s: %w", key, err)
	}
	return &Object{Body: rd, ContentType: rd.Attrs.ContentType, Size: rd.Attrs.Size}, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	obj, err := g.object(key)
	if err != nil {
		return err
	}
	if err := obj.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("filestore: delete %s: %w", key, err)
	}
	return nil
}
