package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("PDF_ENGINE", "")
	t.Setenv("SUMMARY_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local object store, got %q", cfg.ObjectStoreType)
	}
	if cfg.PDFEngine != "native" {
		t.Fatalf("expected native pdf engine, got %q", cfg.PDFEngine)
	}
	if cfg.SummaryTimeoutSeconds != 30 {
		t.Fatalf("expected 30s summary timeout, got %d", cfg.SummaryTimeoutSeconds)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev-like config")
	}
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{name: "env prod", fn: normalizeEnv, in: "PROD", want: "production"},
		{name: "env unknown", fn: normalizeEnv, in: "qa", want: "dev"},
		{name: "store gcs", fn: normalizeStoreType, in: " GCS ", want: "gcs"},
		{name: "store unknown", fn: normalizeStoreType, in: "ftp", want: "local"},
		{name: "doc firestore", fn: normalizeDocStore, in: "Firestore", want: "firestore"},
		{name: "doc unknown", fn: normalizeDocStore, in: "mongo", want: "auto"},
		{name: "draft postgres", fn: normalizeDraftStore, in: "postgres", want: "postgres"},
		{name: "engine chrome", fn: normalizePDFEngine, in: "Chrome", want: "chrome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("BCRYPT_COST", "twelve")
	if got := getEnvInt("BCRYPT_COST", 12); got != 12 {
		t.Fatalf("expected fallback 12, got %d", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}
