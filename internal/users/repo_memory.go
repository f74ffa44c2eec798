package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	email := NormalizeEmail(user.Email)
	for _, existing := range r.users {
		if NormalizeEmail(existing.Email) == email {
			return ErrEmailTaken
		}
	}
	r.users[user.UID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, uid string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[uid]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = NormalizeEmail(email)
	for _, user := range r.users {
		if NormalizeEmail(user.Email) == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return r.update(ctx, uid, func(u *User) { u.LastLogin = at })
}

func (r *MemoryRepo) IncrementResumeCount(ctx context.Context, uid string) error {
	return r.update(ctx, uid, func(u *User) { u.ResumeCount++ })
}

func (r *MemoryRepo) update(ctx context.Context, uid string, fn func(*User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[uid]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	r.users[uid] = user
	return nil
}
