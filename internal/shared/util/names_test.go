package util

import "testing"

func TestOwnerKey(t *testing.T) {
	got := OwnerKey("google:12345")
	if got != OwnerKey(" google:12345 ") {
		t.Fatalf("expected surrounding space to be ignored")
	}
	if got == OwnerKey("guest:12345") {
		t.Fatalf("expected distinct owners to get distinct keys")
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("key contains non-hex character: %c", ch)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "Jane_Doe"},
		{"  Jane \t Q.  Doe ", "Jane_Q._Doe"},
		{"a/b\\c", "a_b_c"},
		{"", "resume"},
		{"   ", "resume"},
		{"..", "resume"},
		{"../..", ".._.."},
	}
	for _, tt := range tests {
		if got := Slug(tt.in, "resume"); got != tt.want {
			t.Fatalf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
