package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL     = 5 * time.Minute
)

// GoogleProvider runs the Google redirect flow. The state parameter is a
// signed one-shot token, so start and callback may land on different
// instances.
type GoogleProvider struct {
	svc         *Service
	oauthConfig *oauth2.Config
	userInfoURL string
	uiRedirect  string
}

func NewGoogleProvider(svc *Service, clientID, clientSecret, redirectURL, uiRedirect string) *GoogleProvider {
	return &GoogleProvider{
		svc: svc,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		uiRedirect:  uiRedirect,
	}
}

func (g *GoogleProvider) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", g.start)
	rg.GET("/auth/google/callback", g.callback)
}

func (g *GoogleProvider) configured() bool {
	c := g.oauthConfig
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != "" && g.svc != nil && g.svc.Tokens != nil
}

func (g *GoogleProvider) start(c *gin.Context) {
	if !g.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	state, err := g.svc.Tokens.SignState(oauthStateTTL)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start sign-in", nil)
		return
	}
	c.Redirect(http.StatusFound, g.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")))
}

func (g *GoogleProvider) callback(c *gin.Context) {
	if !g.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	if reason := c.Query("error"); reason != "" {
		respond.Error(c, http.StatusBadRequest, "auth_cancelled", "Google sign-in was cancelled", gin.H{"reason": reason})
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if err := g.svc.Tokens.ConsumeState(state); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	identity, err := g.identify(ctx, code)
	if err != nil {
		telemetry.Warn("auth.google_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "Google sign-in failed", nil)
		return
	}

	session, err := g.svc.SignInWithProvider(ctx, identity)
	switch {
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "email_taken", "This email is already registered. Please sign in instead.", nil)
		return
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign in", nil)
		return
	}

	target, err := withToken(g.uiRedirect, session.Token)
	if err != nil {
		// No UI to return to: hand the session over directly.
		respond.OK(c, session)
		return
	}
	c.Redirect(http.StatusFound, target)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// identify trades the code for a token and reads the Google profile.
func (g *GoogleProvider) identify(ctx context.Context, code string) (ProviderIdentity, error) {
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return ProviderIdentity{}, fmt.Errorf("exchange code: %w", err)
	}
	resp, err := g.oauthConfig.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return ProviderIdentity{}, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ProviderIdentity{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ProviderIdentity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	subject := info.Sub
	if subject == "" {
		subject = info.ID
	}
	if subject == "" {
		return ProviderIdentity{}, errors.New("userinfo has no subject")
	}
	return ProviderIdentity{
		Provider: users.ProviderGoogle,
		Subject:  subject,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}

func withToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
