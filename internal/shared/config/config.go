package config

import (
	"os"
	"strconv"
	"strings"

	"resume-builder/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	PublicBaseURL   string
	Env             string

	DatabaseURL        string
	DocStore           string
	FirestoreProjectID string
	DraftStore         string
	DraftDir           string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	GCSBucket       string
	GCSPrefix       string

	PDFEngine  string
	ChromePath string

	SummaryProvider       string
	HFToken               string
	HFModelURL            string
	OpenAIAPIKey          string
	LLMModel              string
	GeminiAPIKey          string
	GeminiModel           string
	SummaryTimeoutSeconds int

	JWTSecret      string
	JWTTTLHours    int
	BcryptCost     int
	PasswordPepper string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" && os.Getenv("FIRESTORE_PROJECT_ID") == "" {
		telemetry.Warn("config.no_document_store", map[string]any{"env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		Env:             env,

		DatabaseURL:        dbURL,
		DocStore:           normalizeDocStore(getEnv("DOC_STORE", "auto")),
		FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		DraftStore:         normalizeDraftStore(getEnv("DRAFT_STORE", "file")),
		DraftDir:           getEnv("DRAFT_DIR", "./data/drafts"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data/objects"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		GCSBucket:       getEnv("GCS_BUCKET", ""),
		GCSPrefix:       getEnv("GCS_PREFIX", ""),

		PDFEngine:  normalizePDFEngine(getEnv("PDF_ENGINE", "native")),
		ChromePath: getEnv("CHROME_PATH", ""),

		SummaryProvider:       strings.ToLower(getEnv("SUMMARY_PROVIDER", "huggingface")),
		HFToken:               getEnv("HF_TOKEN", ""),
		HFModelURL:            getEnv("HF_MODEL_URL", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		LLMModel:              getEnv("LLM_MODEL", ""),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		SummaryTimeoutSeconds: getEnvInt("SUMMARY_TIMEOUT_SECONDS", 30),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTLHours:    getEnvInt("JWT_TTL_HOURS", 24),
		BcryptCost:     getEnvInt("BCRYPT_COST", 12),
		PasswordPepper: getEnv("PASSWORD_PEPPER", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local", "":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	default:
		return "local"
	}
}

func normalizeDocStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "memory", "postgres", "firestore":
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return "auto"
	}
}

func normalizeDraftStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "memory":
		return "memory"
	case "postgres":
		return "postgres"
	default:
		return "file"
	}
}

func normalizePDFEngine(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "chrome") {
		return "chrome"
	}
	return "native"
}
