package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Handler serves the signed-in user's profile.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	// Guests have no account record to show.
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Sign in to view your profile", nil)
		return
	}
	uid := middleware.UserIDFromContext(c)
	profile, err := h.Svc.Profile(c.Request.Context(), uid)
	switch {
	case err == nil:
		c.Header("Cache-Control", "no-store")
		respond.OK(c, profile)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case errors.Is(err, ErrMissingID):
		respond.Error(c, http.StatusUnauthorized, "login_required", "Sign in to view your profile", nil)
	default:
		telemetry.Error("users.profile_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"user_id":    uid,
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
	}
}
