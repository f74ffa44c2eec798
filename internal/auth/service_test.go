package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/users"
)

const strongPassword = "Sup3r$ecret"

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, *users.MemoryRepo, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)}
	tokens, err := sharedauth.NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)
	tokens.WithClock(clock.Now)
	repo := users.NewMemoryRepo()
	svc := NewService(repo, tokens, NewBcryptHasher(bcrypt.MinCost, "pepper"))
	svc.now = clock.Now
	ids := 0
	svc.newID = func() string {
		ids++
		return "uid-" + string(rune('0'+ids))
	}
	return svc, repo, clock
}

func TestSignUpCreatesUser(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "Jane@Example.com", strongPassword, "Jane Doe")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, clock.now.Add(time.Hour), session.ExpiresAt)

	user, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, 0, user.ResumeCount)
	assert.Equal(t, clock.now, user.CreatedAt)
	assert.Equal(t, clock.now, user.LastLogin)
	assert.Equal(t, users.ProviderPassword, user.Provider)
	assert.NotEqual(t, strongPassword, user.PasswordHash)

	claims, err := svc.Tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
}

func TestSignUpRejectsTakenEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "jane@example.com", strongPassword, "Jane")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "JANE@example.com", strongPassword, "Other Jane")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, "This email is already registered", Message(err))
}

func TestSignUpValidatesFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		display  string
		field    string
	}{
		{name: "email typo", email: "jane@gmial.com", password: strongPassword, field: "email"},
		{name: "weak password", email: "jane@example.com", password: "short", field: "password"},
		{name: "bad name", email: "jane@example.com", password: strongPassword, display: "J4ne!", field: "displayName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.email, tt.password, tt.display)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSignInUpdatesLastLogin(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "jane@example.com", strongPassword, "Jane")
	require.NoError(t, err)

	clock.now = clock.now.Add(30 * time.Minute)
	session, err := svc.SignIn(ctx, "jane@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.User.UID)

	user, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, clock.now, user.LastLogin)
}

func TestSignInFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "jane@example.com", strongPassword, "Jane")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "jane@example.com", "Wr0ng$pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Incorrect password", Message(err))

	_, err = svc.SignIn(ctx, "nobody@example.com", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "No account found with this email", Message(err))
}

func TestPepperIsPartOfHash(t *testing.T) {
	a := NewBcryptHasher(bcrypt.MinCost, "pepper-a")
	b := NewBcryptHasher(bcrypt.MinCost, "pepper-b")

	hash, err := a.Hash(strongPassword)
	require.NoError(t, err)
	assert.NoError(t, a.Compare(hash, strongPassword))
	assert.ErrorIs(t, b.Compare(hash, strongPassword), ErrInvalidCredentials)
}

func TestSignInWithProvider(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()
	id := ProviderIdentity{Provider: users.ProviderGoogle, Subject: "123", Email: "jane@example.com", Name: "Jane", Picture: "https://example.com/p.png"}

	first, err := svc.SignInWithProvider(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "google:123", first.User.UID)
	assert.Equal(t, 0, first.User.ResumeCount)

	require.NoError(t, svc.IncrementResumeCount(ctx, "google:123"))
	clock.now = clock.now.Add(time.Hour)

	second, err := svc.SignInWithProvider(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, second.User.ResumeCount)

	user, err := repo.GetByID(ctx, "google:123")
	require.NoError(t, err)
	assert.Equal(t, clock.now, user.LastLogin)
	assert.Equal(t, clock.now.Add(-time.Hour), user.CreatedAt)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "jane@example.com", strongPassword, "")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, session.Token))

	_, err = svc.Tokens.Verify(session.Token)
	assert.ErrorIs(t, err, sharedauth.ErrRevokedToken)
	assert.Error(t, svc.SignOut(ctx, session.Token))
}
