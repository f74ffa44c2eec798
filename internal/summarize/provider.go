// Package summarize proxies text to a hosted summarization model and
// normalizes its answer into one summary string.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrModelLoading       = errors.New("model is loading")
	ErrUnexpectedResponse = errors.New("unexpected response format")
	ErrNotConfigured      = errors.New("provider not configured")
	ErrEmptyText          = errors.New("text is required")
)

// ProviderError is a non-2xx answer from the provider other than 503.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider http status %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// NotConfiguredError names the missing credential.
type NotConfiguredError struct {
	Provider string
	Env      string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s: %s is not set", e.Provider, e.Env)
}

func (e *NotConfiguredError) Unwrap() error { return ErrNotConfigured }

// Provider turns input text into a summary.
type Provider interface {
	// Name is the display name used in error payloads.
	Name() string
	Summarize(ctx context.Context, text string) (string, error)
}

// unconfigured stands in for a provider whose credential is missing.
type unconfigured struct {
	name string
	env  string
}

func (u unconfigured) Name() string { return u.name }

func (u unconfigured) Summarize(context.Context, string) (string, error) {
	return "", &NotConfiguredError{Provider: u.name, Env: u.env}
}
