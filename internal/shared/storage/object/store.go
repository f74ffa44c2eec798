package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"resume-builder/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored binary.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// Store saves generated documents and hands out download URLs for them.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	URL(ctx context.Context, key string) (string, error)
}

const ResumeFolder = "resumes"

// ResumeFileName is the stored file name: the lowercased name slug suffixed
// with the upload time in milliseconds.
func ResumeFileName(fullName string, now time.Time) string {
	return fmt.Sprintf("%s_%d.pdf", util.Slug(strings.ToLower(fullName), "resume"), now.UnixMilli())
}

// ResumeKey namespaces a stored resume under the owner's hashed id.
func ResumeKey(userID, fileName string) string {
	return path.Join(ResumeFolder, util.OwnerKey(userID), fileName)
}

// CleanKey rejects keys that escape the store root.
func CleanKey(key string) (string, error) {
	clean := path.Clean(strings.TrimLeft(strings.TrimSpace(key), "/"))
	if clean == "." || clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}
