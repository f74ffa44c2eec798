package gcs

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestObjectNameAndURL(t *testing.T) {
	s := &Store{bucket: "resumes-bucket", prefix: "prod"}
	name := s.objectName("/resumes/abc/jane doe_1.pdf")
	if name != "prod/resumes/abc/jane doe_1.pdf" {
		t.Fatalf("unexpected object name %q", name)
	}
	if got := publicURL(s.bucket, name); got != "https://storage.googleapis.com/resumes-bucket/prod/resumes/abc/jane%20doe_1.pdf" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestClassifyWriteErr(t *testing.T) {
	err := classifyWriteErr("x.pdf", &googleapi.Error{Code: http.StatusPreconditionFailed})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	err = classifyWriteErr("x.pdf", &googleapi.Error{Code: http.StatusForbidden})
	if errors.Is(err, ErrExists) {
		t.Fatalf("did not expect ErrExists for 403")
	}
}
