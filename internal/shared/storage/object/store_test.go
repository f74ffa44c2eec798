package object

import (
	"strings"
	"testing"
	"time"
)

func TestResumeFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "full name", in: "Jane  Mary Doe", want: "jane_mary_doe_1700000000123.pdf"},
		{name: "blank", in: "  ", want: "resume_1700000000123.pdf"},
		{name: "slashes", in: "A/B", want: "a_b_1700000000123.pdf"},
		{name: "traversal", in: "..", want: "resume_1700000000123.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResumeFileName(tt.in, now); got != tt.want {
				t.Fatalf("ResumeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResumeKeyIsNamespaced(t *testing.T) {
	key := ResumeKey("u-1", "jane_1.pdf")
	if !strings.HasPrefix(key, "resumes/") || !strings.HasSuffix(key, "/jane_1.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "u-1") {
		t.Fatalf("expected hashed user id in %q", key)
	}
}

func TestCleanKey(t *testing.T) {
	if _, err := CleanKey("../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	if _, err := CleanKey(""); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
	got, err := CleanKey("/resumes/abc/x.pdf")
	if err != nil || got != "resumes/abc/x.pdf" {
		t.Fatalf("unexpected clean key %q err=%v", got, err)
	}
}
