package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider uses the Gemini API. The client is created lazily on the
// first call.
type GeminiProvider struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGemini(apiKey, model string) *GeminiProvider {
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: strings.TrimSpace(apiKey), model: model}
}

func (p *GeminiProvider) Name() string { return "Gemini" }

func (p *GeminiProvider) Summarize(ctx context.Context, text string) (string, error) {
	if p.apiKey == "" {
		return "", &NotConfiguredError{Provider: p.Name(), Env: "GEMINI_API_KEY"}
	}
	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(context.Background(), option.WithAPIKey(p.apiKey))
	})
	if p.initErr != nil {
		return "", fmt.Errorf("gemini client: %w", p.initErr)
	}

	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.3)
	model.SystemInstruction = genai.NewUserContent(genai.Text(summarySystemPrompt))
	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", classifyGeminiErr(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrUnexpectedResponse
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	return nonBlank(strings.Join(parts, ""))
}

func classifyGeminiErr(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusServiceUnavailable {
			return ErrModelLoading
		}
		return &ProviderError{Status: apiErr.Code, Body: apiErr.Message}
	}
	return fmt.Errorf("gemini generate: %w", err)
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
