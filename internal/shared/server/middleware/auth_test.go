package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
)

func newTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens("middleware-secret", time.Hour, "dev")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	return tokens
}

func identityRouter(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(tokens, "/api/v1/auth/"))
	router.GET("/api/v1/draft", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c), "guest": IsGuest(c)})
	})
	router.POST("/api/v1/auth/signin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := identityRouter(newTokens(t))
	router.OPTIONS("/api/v1/draft", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/draft", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsAnonymous(t *testing.T) {
	router := identityRouter(newTokens(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthPublicPrefixSkipsIdentity(t *testing.T) {
	router := identityRouter(newTokens(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAuthGuestHeader(t *testing.T) {
	router := identityRouter(newTokens(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	req.Header.Set("X-Guest-Id", "g-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"guest":true,"userId":"guest:g-42"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthBearerAndRevocation(t *testing.T) {
	tokens := newTokens(t)
	router := identityRouter(tokens)

	raw, _, err := tokens.Sign(auth.Identity{UID: "u-7", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"guest":false,"userId":"u-7"}` {
		t.Fatalf("unexpected body %s", body)
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	tokens.Revoke(claims)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after revoke, got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	router := identityRouter(newTokens(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	req.Header.Set("Authorization", "Token abc")
	req.Header.Set("X-Guest-Id", "g-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
