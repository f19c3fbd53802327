package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelaro/shortly/internal/token"
)

// dummyHash is compared against when the username does not exist so that
// sign-in latency does not reveal whether an account is registered.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// SignInResult is returned on a successful sign-in. EmailVerified is
// included so callers can gate features without a second round trip.
type SignInResult struct {
	AccessToken   string
	EmailVerified bool
	Email         string
}

// Service orchestrates signup, sign-in, and account deletion.
type Service struct {
	repo   Repository
	issuer *token.Issuer
	logger *zap.Logger
}

// NewService creates an account service.
func NewService(repo Repository, issuer *token.Issuer, logger *zap.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, logger: logger}
}

// SignUp registers a new account. The email is normalized to lowercase and
// the password is bcrypt-hashed with a fresh salt. Duplicate email or
// username yields ErrEmailTaken / ErrUsernameTaken; the store's uniqueness
// constraint is authoritative under concurrent duplicate submissions even
// when the pre-checks pass.
func (s *Service) SignUp(ctx context.Context, firstName, lastName, email, username, password string) (*Account, error) {
	email = strings.ToLower(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		s.logger.Info("username already in use", zap.String("username", username))

		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup by username: %w", err)
	}

	acct := &Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			// Lost the race to a concurrent signup; the constraint wins.
			return nil, err
		}

		s.logger.Error("failed to create account",
			zap.String("username", username),
			zap.Error(err),
		)

		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created", zap.String("username", username))

	return acct, nil
}

// SignIn verifies the credentials and issues a session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, username, password string) (*SignInResult, error) {
	acct, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a comparison so the miss path costs the same.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))

			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("lookup by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("sign-in rejected", zap.String("username", username))

		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("signed in", zap.String("username", username))

	return &SignInResult{
		AccessToken:   accessToken,
		EmailVerified: acct.EmailVerified,
		Email:         acct.Email,
	}, nil
}

// Delete removes the account. Owned short links are cascade-deleted by the
// store.
func (s *Service) Delete(ctx context.Context, acct *Account) error {
	if err := s.repo.Delete(ctx, acct.ID); err != nil {
		s.logger.Error("failed to delete account",
			zap.String("username", acct.Username),
			zap.Error(err),
		)

		return fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info("account deleted", zap.String("username", acct.Username))

	return nil
}
