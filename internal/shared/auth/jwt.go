package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	devSecret     = "dev-secret"
	stateAudience = "oauth-state"
)

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrRevokedToken  = errors.New("token revoked")
)

// Claims represents the identity contained in a session token.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the subject a token is issued for.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked *Revocations
}

// NewTokens builds a signer. Production requires an explicit secret.
func NewTokens(secret string, ttl time.Duration, env string) (*Tokens, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if env == "production" {
			return nil, ErrMissingSecret
		}
		secret = devSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: NewRevocations(),
	}, nil
}

// WithClock overrides the time source. Used by tests.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	t.revoked.now = now
	return t
}

// Sign issues a token for the identity.
func (t *Tokens) Sign(id Identity) (string, Claims, error) {
	if strings.TrimSpace(id.UID) == "" {
		return "", Claims{}, errors.New("uid is required")
	}
	now := t.now().UTC()
	claims := Claims{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses the token and rejects revoked ids.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || slices.Contains(claims.Audience, stateAudience) {
		return nil, ErrInvalidToken
	}
	if t.revoked.Contains(claims.ID) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke invalidates a verified token until it expires.
func (t *Tokens) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	exp := t.now().Add(t.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	t.revoked.Add(claims.ID, exp)
}

// SignState issues a one-shot OAuth state value that expires after ttl.
// State values never verify as session tokens.
func (t *Tokens) SignState(ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "oauth",
		Audience:  jwt.ClaimStrings{stateAudience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// ConsumeState verifies a state value from SignState and revokes it so it
// cannot be replayed.
func (t *Tokens) ConsumeState(raw string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience(stateAudience))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if t.revoked.Contains(claims.ID) {
		return ErrRevokedToken
	}
	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	t.revoked.Add(claims.ID, claims.ExpiresAt.Time)
	return nil
}

// Revocations holds token ids that were signed out before expiry.
type Revocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{ids: make(map[string]time.Time), now: time.Now}
}

func (r *Revocations) Add(id string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.ids[id] = until
}

func (r *Revocations) Contains(id string) bool {
	if id == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.ids[id]
	if !ok {
		return false
	}
	if !r.now().Before(until) {
		delete(r.ids, id)
		return false
	}
	return true
}

func (r *Revocations) pruneLocked() {
	now := r.now()
	for id, until := range r.ids {
		if !now.Before(until) {
			delete(r.ids, id)
		}
	}
}
