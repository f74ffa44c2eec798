package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, uid string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	TouchLastLogin(ctx context.Context, uid string, at time.Time) error
	IncrementResumeCount(ctx context.Context, uid string) error
}

// NormalizeEmail is the lookup form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
