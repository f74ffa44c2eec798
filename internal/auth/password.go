package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher appends a server-side pepper before hashing.
type BcryptHasher struct {
	Cost   int
	Pepper string
}

func NewBcryptHasher(cost int, pepper string) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost, Pepper: pepper}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password+h.Pepper), h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+h.Pepper))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errWrongPassword
	}
	return err
}
