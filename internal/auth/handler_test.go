package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRoutesFlow(t *testing.T) {
	r := newAuthRouter(t)
	signUp := map[string]string{"email": "jane@example.com", "password": strongPassword, "displayName": "Jane"}

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", signUp, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signup", signUp, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "This email is already registered")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": "jane@example.com", "password": "Wr0ng$pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": "jane@example.com", "password": strongPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	auth := map[string]string{"Authorization": "Bearer " + session.Token}
	w = doJSON(r, http.MethodPost, "/api/v1/auth/signout", nil, auth)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signout", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignUpRequestValidation(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", map[string]string{"email": "jane@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email": "jane@example.com", "password": strongPassword, "confirmPassword": "different",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/signup", map[string]string{"email": "jane@gmai.com", "password": strongPassword}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Did you mean jane@gmail.com?")
}
