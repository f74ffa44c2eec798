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

const DefaultHFModelURL = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"

// HuggingFaceProvider calls the hosted inference API.
type HuggingFaceProvider struct {
	token      string
	url        string
	httpClient *http.Client
}

// NewHuggingFace returns a provider for token. An empty url uses
// DefaultHFModelURL.
func NewHuggingFace(token, url string, httpClient *http.Client) *HuggingFaceProvider {
	if strings.TrimSpace(url) == "" {
		url = DefaultHFModelURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFaceProvider{token: strings.TrimSpace(token), url: url, httpClient: httpClient}
}

func (p *HuggingFaceProvider) Name() string { return "HuggingFace" }

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

func (p *HuggingFaceProvider) Summarize(ctx context.Context, text string) (string, error) {
	if p.token == "" {
		return "", &NotConfiguredError{Provider: p.Name(), Env: "HF_TOKEN"}
	}
	payload, err := json.Marshal(hfRequest{
		Inputs:     text,
		Parameters: hfParameters{MaxLength: 130, MinLength: 30, DoSample: false},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("huggingface read: %w", err)
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", ErrModelLoading
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}
	return Normalize(body)
}
