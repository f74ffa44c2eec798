package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"resume-builder/internal/shared/storage/object/local"
)

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "Jane Doe")
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("output pdf: %v", err)
	}
	return buf.Bytes()
}

func TestInspectCountsPages(t *testing.T) {
	info, err := Inspect(context.Background(), samplePDF(t, 2))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", info.Pages)
	}
	if !strings.Contains(info.Text, "Jane") {
		t.Fatalf("expected text to contain name, got %q", info.Text)
	}
}

func TestInspectRejectsNonPDF(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("PK\x03\x04 not a pdf"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestInspectHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Inspect(ctx, samplePDF(t, 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInspectObject(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir(), "http://localhost/files")
	obj, err := store.Put(ctx, "resumes/h/jane.pdf", "application/pdf", bytes.NewReader(samplePDF(t, 1)))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	info, err := InspectObject(ctx, store, obj.Key)
	if err != nil {
		t.Fatalf("InspectObject: %v", err)
	}
	if info.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", info.Pages)
	}

	if _, err := InspectObject(ctx, store, "resumes/h/missing.pdf"); err == nil {
		t.Fatal("expected error for missing object")
	}
}
