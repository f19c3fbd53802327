package verification

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no pending request matches the token.
	ErrNotFound = errors.New("verification request not found")
	// ErrNoPending indicates a send was attempted with no pending request.
	ErrNoPending = errors.New("no pending verification request")
	// ErrTooSoon indicates a re-issue inside the resend cooldown.
	ErrTooSoon = errors.New("verification token issued too recently")
	// ErrRateLimited indicates the client's send budget is exhausted.
	ErrRateLimited = errors.New("verification send limit exceeded")
	// ErrDelivery indicates the mail transport failed.
	ErrDelivery = errors.New("verification e-mail not sent")
)

// Request links an e-mail address to a single-use token proving mailbox
// ownership. At most one live request exists per email; the token is
// consumed on successful verification.
type Request struct {
	Email    string
	Token    string
	IssuedAt time.Time
}

// Repository is the durable store for pending verification requests.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Request, error)
	GetByToken(ctx context.Context, token string) (*Request, error)
	// Upsert stores the request, replacing any prior one for the email.
	Upsert(ctx context.Context, req *Request) error
	DeleteByEmail(ctx context.Context, email string) error
}
