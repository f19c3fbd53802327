package shortlink

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no link matches the lookup.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeExists indicates the generated code collided with an existing
	// row; the allocator retries with a fresh code.
	ErrCodeExists = errors.New("short code already exists")
	// ErrDuplicateURL indicates the store rejected a second row for the
	// same (longUrl, owner) pair under a concurrent submission.
	ErrDuplicateURL = errors.New("url already shortened by owner")
)

// ShortLink maps a short code to a long URL for one owning account.
type ShortLink struct {
	Code     string
	LongURL  string
	ShortURL string
	OwnerID  string
}

// Repository is the durable code->URL mapping. The store enforces code
// uniqueness and (long_url, owner_id) uniqueness, reporting violations as
// ErrCodeExists and ErrDuplicateURL.
type Repository interface {
	Create(ctx context.Context, link *ShortLink) error
	GetByLongURL(ctx context.Context, longURL, ownerID string) (*ShortLink, error)
	GetByCode(ctx context.Context, code, ownerID string) (*ShortLink, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ShortLink, error)
	// DeleteByCode removes the row matched by (code, ownerID) and returns
	// ErrNotFound when zero rows were affected.
	DeleteByCode(ctx context.Context, code, ownerID string) error
	// Resolve looks up the long URL for a code regardless of owner.
	Resolve(ctx context.Context, code string) (string, error)
}
