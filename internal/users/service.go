package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMissingID is returned when a profile is requested without a user id.
var ErrMissingID = errors.New("user id is required")

// Profile is the public view of an account. The password hash never leaves
// the repo layer.
type Profile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Provider    string    `json:"provider"`
	ResumeCount int       `json:"resumeCount"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLogin   time.Time `json:"lastLogin"`
}

// ProfileOf strips credentials from a stored user.
func ProfileOf(u User) Profile {
	return Profile{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Provider:    u.Provider,
		ResumeCount: u.ResumeCount,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

// Service reads account profiles. Writes go through auth.Service.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Profile(ctx context.Context, uid string) (Profile, error) {
	if s == nil || s.repo == nil {
		return Profile{}, errors.New("users service not configured")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Profile{}, ErrMissingID
	}
	u, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return Profile{}, err
	}
	return ProfileOf(u), nil
}
