package summarize

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

const (
	DefaultAttemptTimeout = 30 * time.Second
	retryDelay            = 300 * time.Millisecond
)

// Retrying bounds every attempt with a timeout and retries a transient
// failure exactly once. A loading model is never retried here; callers are
// told to try again later.
type Retrying struct {
	base    Provider
	timeout time.Duration
	delay   time.Duration
}

func WithRetry(base Provider, attemptTimeout time.Duration) *Retrying {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Retrying{base: base, timeout: attemptTimeout, delay: retryDelay}
}

func (r *Retrying) Name() string { return r.base.Name() }

func (r *Retrying) Summarize(ctx context.Context, text string) (string, error) {
	out, err := r.attempt(ctx, text)
	if err == nil || !shouldRetry(ctx, err) {
		return out, err
	}
	telemetry.Warn("summarize.retry", map[string]any{
		"provider": r.base.Name(),
		"attempt":  1,
		"error":    err,
	})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.attempt(ctx, text)
}

func (r *Retrying) attempt(ctx context.Context, text string) (string, error) {
	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.base.Summarize(actx, text)
}

func shouldRetry(parent context.Context, err error) bool {
	if err == nil || parent.Err() != nil {
		return false
	}
	if errors.Is(err, ErrModelLoading) || errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnexpectedResponse) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Status == http.StatusBadGateway || perr.Status == http.StatusGatewayTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}
