// Package extract reads generated documents back for their page count and
// plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-builder/internal/shared/storage/object"
)

var ErrNotPDF = errors.New("not a pdf document")

// Info describes a produced PDF.
type Info struct {
	Pages int
	Text  string
}

// Inspect parses an in-memory PDF.
func Inspect(ctx context.Context, data []byte) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	if !IsPDF(data) {
		return Info{}, ErrNotPDF
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Info{}, fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Info{}, fmt.Errorf("read pdf text: %w", err)
	}
	return Info{Pages: reader.NumPage(), Text: strings.TrimSpace(buf.String())}, nil
}

// InspectObject reads a stored export back from object storage.
func InspectObject(ctx context.Context, store object.Store, key string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	body, err := store.Open(ctx, key)
	if err != nil {
		return Info{}, fmt.Errorf("inspect key=%s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Info{}, fmt.Errorf("inspect key=%s: read: %w", key, err)
	}
	info, err := Inspect(ctx, raw)
	if err != nil {
		return Info{}, fmt.Errorf("inspect key=%s: %w", key, err)
	}
	return info, nil
}

// IsPDF checks the %PDF- magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
