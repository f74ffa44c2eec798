package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/forms"
	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/signin", h.signIn)
	rg.POST("/auth/signout", h.signOut)
}

type signUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	DisplayName     string `json:"displayName" binding:"omitempty,max=50"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	if req.ConfirmPassword != "" {
		if check := forms.ValidatePasswordMatch(req.Password, req.ConfirmPassword); !check.Valid {
			respond.Error(c, http.StatusBadRequest, "validation_error", check.Message, gin.H{"field": "confirmPassword"})
			return
		}
	}
	session, err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Created(c, session)
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	session, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, session)
}

func (h *Handler) signOut(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if err := h.Svc.SignOut(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		respond.Error(c, http.StatusBadRequest, "validation_error", fe.Message, gin.H{"field": fe.Field})
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "email_taken", Message(err), nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", Message(err), nil)
	case errors.Is(err, sharedauth.ErrInvalidToken), errors.Is(err, sharedauth.ErrRevokedToken):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	case errors.Is(err, ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "auth not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", Message(err), nil)
	}
}
