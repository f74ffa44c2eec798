package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

const maxTextBytes = 64 << 10

// Handler serves the summarize proxy. Its payloads are flat JSON objects
// rather than the API error envelope, because browser clients already read
// this shape.
type Handler struct {
	Provider Provider
}

func NewHandler(p Provider) *Handler {
	return &Handler{Provider: p}
}

// RegisterRoutes binds every method so non-POST requests get a 405 body.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.Any("/summarize", h.summarize)
}

type summarizeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) summarize(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST requests are allowed"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTextBytes)
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Text is too long"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	metrics.IncSummaryRequest()
	start := time.Now()
	summary, err := h.Provider.Summarize(c.Request.Context(), req.Text)
	metrics.ObserveSummaryDurationMs(metrics.SinceMillis(start))
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"summary": summary})
		return
	}

	status, body := ErrorPayload(h.Provider.Name(), err)
	if errors.Is(err, ErrModelLoading) {
		metrics.IncSummaryModelLoading()
	} else {
		metrics.IncSummaryFailed()
	}
	telemetry.Error("summarize.provider_error", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"provider":   h.Provider.Name(),
		"status":     status,
		"error":      err,
	})
	c.JSON(status, body)
}

// Messages shown to the browser.
const (
	LoadingMessage = "The AI model is loading. Please try again in 10-20 seconds."
	failedError    = "Failed to generate summary"
)

// ErrorPayload maps a provider error to the proxy's status and body.
func ErrorPayload(provider string, err error) (int, gin.H) {
	var nc *NotConfiguredError
	var perr *ProviderError
	switch {
	case errors.As(err, &nc):
		return http.StatusInternalServerError, gin.H{
			"error":   fmt.Sprintf("%s API token not configured", nc.Provider),
			"message": fmt.Sprintf("Please set %s in Vercel environment variables", nc.Env),
		}
	case errors.Is(err, ErrModelLoading):
		return http.StatusServiceUnavailable, gin.H{"error": "Model is loading", "message": LoadingMessage}
	case errors.As(err, &perr):
		return perr.Status, gin.H{"error": fmt.Sprintf("%s API error", provider), "details": perr.Body}
	case errors.Is(err, ErrUnexpectedResponse):
		return http.StatusInternalServerError, gin.H{"error": "Unexpected response format from AI service"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, gin.H{"error": failedError, "message": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"error": failedError, "message": err.Error()}
	}
}
