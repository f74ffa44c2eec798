package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const openAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider asks a chat model for the summary.
type OpenAIProvider struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

func NewOpenAI(apiKey, model string, httpClient *http.Client) *OpenAIProvider {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIProvider{apiKey: strings.TrimSpace(apiKey), model: model, url: openAIURL, httpClient: httpClient}
}

func (p *OpenAIProvider) Name() string { return "OpenAI" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

const summarySystemPrompt = "You write concise, professional resume summaries. Reply with the summary text only."

func (p *OpenAIProvider) Summarize(ctx context.Context, text string) (string, error) {
	if p.apiKey == "" {
		return "", &NotConfiguredError{Provider: p.Name(), Env: "OPENAI_API_KEY"}
	}
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: text},
		},
	}
	if !strings.HasPrefix(strings.ToLower(p.model), "gpt-5") {
		temp := float32(0.3)
		reqBody.Temperature = &temp
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read: %w", err)
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", ErrModelLoading
	}
	if resp.StatusCode >= 400 {
		return "", &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if parsed.Error != nil {
		return "", &ProviderError{Status: resp.StatusCode, Body: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", ErrUnexpectedResponse
	}
	return nonBlank(parsed.Choices[0].Message.Content)
}
