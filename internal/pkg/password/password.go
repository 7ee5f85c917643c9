package password

import (
	"context"
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the minimum accepted password length
	MinLength = 6

	// MaxLength is the bcrypt input limit in bytes
	MaxLength = 72
)

var (
	ErrTooShort       = errors.New("password must be at least 6 characters")
	ErrTooLong        = errors.New("password must be at most 72 bytes")
	ErrMissingClasses = errors.New("password must contain at least one uppercase letter, one lowercase letter, and one number")
)

// Hash hashes a password using bcrypt
func Hash(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashContext hashes like Hash but gives up waiting once ctx is done.
// The bcrypt work itself cannot be interrupted; its result is discarded.
func HashContext(ctx context.Context, password string, cost int) (string, error) {
	type result struct {
		hash string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		h, err := Hash(password, cost)
		done <- result{hash: h, err: err}
	}()

	select {
	case r := <-done:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// VerifyContext verifies like Verify but gives up waiting once ctx is done.
func VerifyContext(ctx context.Context, password, hash string) (bool, error) {
	done := make(chan bool, 1)
	go func() {
		done <- Verify(password, hash)
	}()

	select {
	case ok := <-done:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// CheckPolicy checks if password meets requirements
func CheckPolicy(password string) error {
	if len(password) < MinLength {
		return ErrTooShort
	}
	if len(password) > MaxLength {
		return ErrTooLong
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrMissingClasses
	}
	return nil
}
