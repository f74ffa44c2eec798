package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"resume-builder/internal/shared/storage/object"
)

// ErrExists is returned when a create-only write hits an existing object.
var ErrExists = errors.New("object already exists")

const writeTimeout = 50 * time.Second

// Store implements object.Store on Google Cloud Storage.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// New opens a GCS client with application default credentials.
func New(ctx context.Context, bucket, prefix string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(strings.TrimSpace(prefix), "/")}, nil
}

// Put writes a new object. Existing objects are never overwritten.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (object.Object, error) {
	clean, err := object.CleanKey(key)
	if err != nil {
		return object.Object{}, err
	}
	name := s.objectName(clean)

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(writeCtx)
	w.ContentType = contentType

	written, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return object.Object{}, classifyWriteErr(name, err)
	}
	if err := w.Close(); err != nil {
		return object.Object{}, classifyWriteErr(name, err)
	}
	return object.Object{Key: clean, SizeBytes: written, ContentType: contentType}, nil
}

// Open reads an object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("gcs open %s: %w", key, err)
	}
	return rc, nil
}

// URL returns the public object URL.
func (s *Store) URL(_ context.Context, key string) (string, error) {
	return publicURL(s.bucket, s.objectName(key)), nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectName(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func publicURL(bucket, name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "https://storage.googleapis.com/" + bucket + "/" + strings.Join(parts, "/")
}

func classifyWriteErr(name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("gcs write %s: %w", name, ErrExists)
	}
	return fmt.Errorf("gcs write %s: %w", name, err)
}

var _ object.Store = (*Store)(nil)
