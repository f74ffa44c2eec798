package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resume-builder/internal/shared/metrics"
)

// Outcome classifies a summary attempt the way the editor shows it.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeLoading is a cold start: the caller should retry shortly.
	OutcomeLoading
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeLoading:
		return "loading"
	default:
		return "failed"
	}
}

// Result carries the text to place in the summary field.
type Result struct {
	Outcome Outcome
	Text    string
}

const noSummaryText = "Could not generate summary. Please try again."

// Summarizer produces a Result for a prompt.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) Result
}

// Client calls a summarize proxy over HTTP.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Endpoint: endpoint, HTTPClient: httpClient}
}

type proxyResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) Summarize(ctx context.Context, prompt string) Result {
	payload, err := json.Marshal(summarizeRequest{Text: prompt})
	if err != nil {
		return failed(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return failed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return failed(err)
	}
	defer resp.Body.Close()

	var body proxyResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := fmt.Sprintf("Server error: %d", resp.StatusCode)
		if decodeErr == nil {
			switch {
			case body.Message != "":
				text = body.Message
			case body.Error != "":
				text = body.Error
			}
		} else if st := http.StatusText(resp.StatusCode); st != "" {
			text = st
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			return Result{Outcome: OutcomeLoading, Text: text}
		}
		return Result{Outcome: OutcomeFailed, Text: text}
	}
	if decodeErr != nil {
		return failed(decodeErr)
	}
	if strings.TrimSpace(body.Summary) == "" {
		return Result{Outcome: OutcomeFailed, Text: noSummaryText}
	}
	return Result{Outcome: OutcomeSuccess, Text: body.Summary}
}

// Local calls a provider in process and classifies its error the same way
// the proxy would.
type Local struct {
	Provider Provider
}

func (l Local) Summarize(ctx context.Context, prompt string) Result {
	metrics.IncSummaryRequest()
	start := time.Now()
	summary, err := l.Provider.Summarize(ctx, prompt)
	metrics.ObserveSummaryDurationMs(metrics.SinceMillis(start))
	if err == nil {
		return Result{Outcome: OutcomeSuccess, Text: summary}
	}
	_, body := ErrorPayload(l.Provider.Name(), err)
	text, _ := body["message"].(string)
	if text == "" {
		text, _ = body["error"].(string)
	}
	if errors.Is(err, ErrModelLoading) {
		metrics.IncSummaryModelLoading()
		return Result{Outcome: OutcomeLoading, Text: text}
	}
	metrics.IncSummaryFailed()
	if errors.Is(err, ErrUnexpectedResponse) {
		return Result{Outcome: OutcomeFailed, Text: noSummaryText}
	}
	return Result{Outcome: OutcomeFailed, Text: text}
}

func failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Text: "Error: " + err.Error()}
}
