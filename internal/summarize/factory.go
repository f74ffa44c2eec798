package summarize

import (
	"net/http"
	"strings"
	"time"

	"resume-builder/internal/shared/config"
)

// FromConfig builds the configured provider wrapped in the retry policy. A
// provider with a missing credential still returns a value whose calls fail
// with ErrNotConfigured.
func FromConfig(cfg config.Config) Provider {
	timeout := time.Duration(cfg.SummaryTimeoutSeconds) * time.Second
	httpClient := &http.Client{}
	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.SummaryProvider)) {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			p = unconfigured{name: "OpenAI", env: "OPENAI_API_KEY"}
		} else {
			p = NewOpenAI(cfg.OpenAIAPIKey, cfg.LLMModel, httpClient)
		}
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			p = unconfigured{name: "Gemini", env: "GEMINI_API_KEY"}
		} else {
			p = NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	default:
		if strings.TrimSpace(cfg.HFToken) == "" {
			p = unconfigured{name: "HuggingFace", env: "HF_TOKEN"}
		} else {
			p = NewHuggingFace(cfg.HFToken, cfg.HFModelURL, httpClient)
		}
	}
	return WithRetry(p, timeout)
}
