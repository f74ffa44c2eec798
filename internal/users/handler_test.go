package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
)

func newMeRouter(t *testing.T, repo Repo) (*gin.Engine, *auth.Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	NewHandler(NewService(repo)).RegisterRoutes(api)
	return r, tokens
}

func TestMeReturnsProfile(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), User{UID: "u-1", Email: "jane@example.com", DisplayName: "Jane", PasswordHash: "secret-hash", ResumeCount: 4}))
	r, tokens := newMeRouter(t, repo)
	raw, _, err := tokens.Sign(auth.Identity{UID: "u-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, float64(4), body["resumeCount"])
}

func TestMeRejectsGuests(t *testing.T) {
	r, _ := newMeRouter(t, NewMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Guest-Id", "g-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "login_required")
}

func TestMeUnknownUser(t *testing.T) {
	r, tokens := newMeRouter(t, NewMemoryRepo())
	raw, _, err := tokens.Sign(auth.Identity{UID: "ghost"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileOfDropsPasswordHash(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	p := ProfileOf(User{UID: "u-2", Email: "a@b.io", PasswordHash: "h", Provider: ProviderGoogle, CreatedAt: created})

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "passwordHash")
	assert.Equal(t, ProviderGoogle, p.Provider)
	assert.Equal(t, created, p.CreatedAt)
}

func TestProfileRequiresID(t *testing.T) {
	_, err := NewService(NewMemoryRepo()).Profile(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingID)
}
