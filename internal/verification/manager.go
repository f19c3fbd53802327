package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/mail"
	"github.com/avelaro/shortly/internal/ratelimit"
)

// DefaultCooldown is how long a pending token must age before it can be
// replaced by a resend.
const DefaultCooldown = 15 * time.Minute

// Manager drives the per-email token lifecycle:
// no request -> pending -> verified, with pending -> pending on resend once
// the cooldown has elapsed.
type Manager struct {
	repo     Repository
	accounts account.Repository
	limiter  *ratelimit.FixedWindowLimiter
	mailer   mail.Mailer
	baseURL  string
	from     string
	cooldown time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// Option customises the Manager.
type Option func(*Manager)

// WithCooldown overrides the resend cooldown.
func WithCooldown(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.cooldown = d
		}
	}
}

// WithClock injects a custom time source.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewManager creates a verification manager. Verification links take the
// shape <baseURL>/auth/verify/<token>.
func NewManager(
	repo Repository,
	accounts account.Repository,
	limiter *ratelimit.FixedWindowLimiter,
	mailer mail.Mailer,
	baseURL, from string,
	logger *zap.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		repo:     repo,
		accounts: accounts,
		limiter:  limiter,
		mailer:   mailer,
		baseURL:  baseURL,
		from:     from,
		cooldown: DefaultCooldown,
		logger:   logger,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CreateToken issues a fresh unguessable token for the email, replacing any
// prior request. A pending request younger than the cooldown yields
// ErrTooSoon.
func (m *Manager) CreateToken(ctx context.Context, email string) (string, error) {
	existing, err := m.repo.GetByEmail(ctx, email)
	if err == nil {
		if m.now().Sub(existing.IssuedAt) < m.cooldown {
			return "", ErrTooSoon
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("lookup verification request: %w", err)
	}

	req := &Request{
		Email:    email,
		Token:    uuid.NewString(),
		IssuedAt: m.now(),
	}

	if err := m.repo.Upsert(ctx, req); err != nil {
		return "", fmt.Errorf("store verification request: %w", err)
	}

	return req.Token, nil
}

// Send delivers the pending verification link for the email, charging the
// clientKey's send budget. The budget is checked before delivery and only
// consumed after a successful hand-off, so a transport failure can be
// retried without cost.
func (m *Manager) Send(ctx context.Context, email, clientKey string) error {
	req, err := m.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.logger.Info("send requested with no pending verification", zap.String("email", email))

			return ErrNoPending
		}

		return fmt.Errorf("lookup verification request: %w", err)
	}

	allowed, err := m.limiter.Allow(ctx, clientKey)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}

	if !allowed {
		m.logger.Info("verification send rate limited", zap.String("email", email))

		return ErrRateLimited
	}

	msg := mail.Message{
		From:    m.from,
		To:      email,
		Subject: "Verify your e-mail",
		Body: "Hello!\r\n\r\nThank you for your registration. " +
			"Click the link below to verify your e-mail:\r\n\r\n" +
			fmt.Sprintf("%s/auth/verify/%s\r\n", m.baseURL, req.Token),
	}

	if err := m.mailer.Send(ctx, msg); err != nil {
		m.logger.Error("failed to send verification e-mail",
			zap.String("email", email),
			zap.Error(err),
		)

		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if err := m.limiter.Record(ctx, clientKey); err != nil {
		// The mail is already out; losing a counter update only loosens
		// the budget by one.
		m.logger.Warn("failed to record verification send", zap.Error(err))
	}

	m.logger.Info("verification e-mail sent", zap.String("email", email))

	return nil
}

// Cancel drops any pending request for the email. Used when the signup
// that created the request is rolled back or the account is deleted.
func (m *Manager) Cancel(ctx context.Context, email string) error {
	return m.repo.DeleteByEmail(ctx, email)
}

// Verify consumes the token: it flips the matching account to verified and
// deletes the request, making the token permanently unusable. Unknown
// tokens yield ErrNotFound.
func (m *Manager) Verify(ctx context.Context, tokenStr string) error {
	req, err := m.repo.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.logger.Info("verification attempted with unknown token")

			return ErrNotFound
		}

		return fmt.Errorf("lookup verification token: %w", err)
	}

	if err := m.accounts.SetEmailVerified(ctx, req.Email); err != nil {
		m.logger.Error("failed to mark e-mail verified",
			zap.String("email", req.Email),
			zap.Error(err),
		)

		return fmt.Errorf("mark verified: %w", err)
	}

	if err := m.repo.DeleteByEmail(ctx, req.Email); err != nil {
		m.logger.Warn("failed to delete consumed verification request",
			zap.String("email", req.Email),
			zap.Error(err),
		)
	}

	m.logger.Info("e-mail verified", zap.String("email", req.Email))

	return nil
}
