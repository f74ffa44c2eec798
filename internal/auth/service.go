package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/forms"
	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

// Session is what a successful sign-in hands back to the caller.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

// ProviderIdentity is a profile confirmed by an external sign-in provider.
type ProviderIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Picture  string
}

type Service struct {
	Users  users.Repo
	Tokens *sharedauth.Tokens
	Hasher PasswordHasher

	now   func() time.Time
	newID func() string
}

func NewService(repo users.Repo, tokens *sharedauth.Tokens, hasher PasswordHasher) *Service {
	return &Service{
		Users:  repo,
		Tokens: tokens,
		Hasher: hasher,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SignUp creates a password account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if check := forms.ValidateEmail(email); !check.Valid {
		return Session{}, &FieldError{Field: "email", Message: check.Message}
	}
	if check := forms.ValidatePassword(password); !check.Valid {
		return Session{}, &FieldError{Field: "password", Message: check.Message}
	}
	if displayName != "" {
		if check := forms.ValidateName(displayName); !check.Valid {
			return Session{}, &FieldError{Field: "displayName", Message: check.Message}
		}
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	user := users.User{
		UID:          s.newID(),
		Email:        users.NormalizeEmail(email),
		DisplayName:  displayName,
		Provider:     users.ProviderPassword,
		PasswordHash: hash,
		CreatedAt:    now,
		ResumeCount:  0,
		LastLogin:    now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	telemetry.Info("auth.signup", map[string]any{"user_id": user.UID, "provider": user.Provider})
	return s.issue(user)
}

// SignIn checks a password account and refreshes its last login time.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Session{}, errAccountNotFound
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == "" {
		return Session{}, errWrongPassword
	}
	if err := s.Hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("compare password: %w", err)
	}
	user.LastLogin = s.now().UTC()
	s.touch(ctx, user)
	return s.issue(user)
}

// SignInWithProvider creates the account on first sign-in and refreshes
// lastLogin on every later one.
func (s *Service) SignInWithProvider(ctx context.Context, id ProviderIdentity) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(id.Subject) == "" || strings.TrimSpace(id.Provider) == "" {
		return Session{}, &FieldError{Field: "subject", Message: "invalid user profile"}
	}
	uid := id.Provider + ":" + id.Subject
	now := s.now().UTC()

	user, err := s.Users.GetByID(ctx, uid)
	switch {
	case err == nil:
		user.LastLogin = now
		s.touch(ctx, user)
	case errors.Is(err, users.ErrNotFound):
		user = users.User{
			UID:         uid,
			Email:       users.NormalizeEmail(id.Email),
			DisplayName: id.Name,
			PhotoURL:    id.Picture,
			Provider:    id.Provider,
			CreatedAt:   now,
			ResumeCount: 0,
			LastLogin:   now,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				return Session{}, ErrEmailTaken
			}
			return Session{}, fmt.Errorf("create user: %w", err)
		}
		telemetry.Info("auth.signup", map[string]any{"user_id": uid, "provider": id.Provider})
	default:
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	return s.issue(user)
}

// SignOut revokes the token until it would have expired.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if s == nil || s.Tokens == nil {
		return ErrNotConfigured
	}
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return err
	}
	s.Tokens.Revoke(claims)
	telemetry.Info("auth.signout", map[string]any{"user_id": claims.Subject})
	return nil
}

// IncrementResumeCount bumps the counter shown on the profile.
func (s *Service) IncrementResumeCount(ctx context.Context, uid string) error {
	if s == nil || s.Users == nil {
		return ErrNotConfigured
	}
	return s.Users.IncrementResumeCount(ctx, uid)
}

func (s *Service) issue(user users.User) (Session, error) {
	raw, claims, err := s.Tokens.Sign(sharedauth.Identity{
		UID:     user.UID,
		Email:   user.Email,
		Name:    user.DisplayName,
		Picture: user.PhotoURL,
	})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: raw, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// touch updates lastLogin; a failed write does not block the sign-in.
func (s *Service) touch(ctx context.Context, user users.User) {
	if err := s.Users.TouchLastLogin(ctx, user.UID, user.LastLogin); err != nil {
		telemetry.Warn("auth.last_login_failed", map[string]any{"user_id": user.UID, "error": err.Error()})
	}
}

func (s *Service) ready() error {
	if s == nil || s.Users == nil || s.Tokens == nil || s.Hasher == nil {
		return ErrNotConfigured
	}
	return nil
}
