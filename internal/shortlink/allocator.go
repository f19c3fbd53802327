package shortlink

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultCodeLength is the nanoid length used for new codes. At 21
// characters of the standard URL-safe alphabet the birthday-collision
// probability stays negligible at any realistic table size.
const DefaultCodeLength = 21

// maxMintAttempts bounds retries when a freshly generated code collides.
const maxMintAttempts = 5

// CodeGenerator produces short opaque codes.
type CodeGenerator func() string

// Allocator mints and deduplicates short codes per owning account.
type Allocator struct {
	repo         Repository
	generateCode CodeGenerator
	baseURL      string
	logger       *zap.Logger
}

// NewAllocator creates an allocator. Derived short URLs take the shape
// <baseURL>/<code>.
func NewAllocator(repo Repository, generator CodeGenerator, baseURL string, logger *zap.Logger) *Allocator {
	return &Allocator{
		repo:         repo,
		generateCode: generator,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// Shorten returns the short link for (longURL, owner), minting a new code
// only when none exists. Repeated submissions by the same owner are
// idempotent; the same URL from a different owner gets its own code. Code
// collisions are retried with a fresh code rather than surfaced.
func (a *Allocator) Shorten(ctx context.Context, longURL, ownerID string) (*ShortLink, error) {
	existing, err := a.repo.GetByLongURL(ctx, longURL, ownerID)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup by url: %w", err)
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		code := a.generateCode()
		link := &ShortLink{
			Code:     code,
			LongURL:  longURL,
			ShortURL: a.baseURL + "/" + code,
			OwnerID:  ownerID,
		}

		err := a.repo.Create(ctx, link)
		if err == nil {
			a.logger.Info("short link created",
				zap.String("code", code),
				zap.String("owner_id", ownerID),
			)

			return link, nil
		}

		if errors.Is(err, ErrCodeExists) {
			a.logger.Warn("short code collision, retrying", zap.String("code", code))

			continue
		}

		if errors.Is(err, ErrDuplicateURL) {
			// A concurrent request for the same (url, owner) won; return
			// its row to keep the operation idempotent.
			return a.repo.GetByLongURL(ctx, longURL, ownerID)
		}

		return nil, fmt.Errorf("save short link: %w", err)
	}

	return nil, fmt.Errorf("mint short code: exhausted %d attempts", maxMintAttempts)
}

// ListFor returns all links owned by the account.
func (a *Allocator) ListFor(ctx context.Context, ownerID string) ([]ShortLink, error) {
	links, err := a.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		a.logger.Error("failed to list short links",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("list short links: %w", err)
	}

	return links, nil
}

// GetByCode returns the owner's link with the given code. Codes belonging
// to other accounts are not resolvable through this operation.
func (a *Allocator) GetByCode(ctx context.Context, code, ownerID string) (*ShortLink, error) {
	link, err := a.repo.GetByCode(ctx, code, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get short link: %w", err)
	}

	return link, nil
}

// DeleteByCode removes the owner's link with the given code. Ownership is
// enforced by the deletion predicate itself: zero affected rows yields
// ErrNotFound whether the code is unknown or owned by someone else.
func (a *Allocator) DeleteByCode(ctx context.Context, code, ownerID string) error {
	if err := a.repo.DeleteByCode(ctx, code, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete short link: %w", err)
	}

	a.logger.Info("short link deleted",
		zap.String("code", code),
		zap.String("owner_id", ownerID),
	)

	return nil
}

// Resolve returns the long URL for a code regardless of owner. This backs
// the public redirect path.
func (a *Allocator) Resolve(ctx context.Context, code string) (string, error) {
	longURL, err := a.repo.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("resolve short link: %w", err)
	}

	return longURL, nil
}
