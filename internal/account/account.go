package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("e-mail already in use")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already in use")
	// ErrInvalidCredentials indicates a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is a registered user. Email is stored lowercase; PasswordHash is a
// bcrypt hash and must never be logged or returned to callers.
type Account struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Username      string
	PasswordHash  string
	EmailVerified bool
}

// Repository defines the durable account store. Uniqueness of email and
// username is enforced by the store; Create reports violations as
// ErrEmailTaken or ErrUsernameTaken even when a pre-check passed.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	SetEmailVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, id string) error
}
