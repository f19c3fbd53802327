package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/ratelimit"
	"github.com/avelaro/shortly/internal/verification"
)

// AuthHandler handles signup, sign-in, e-mail verification, and account
// deletion.
type AuthHandler struct {
	accounts      *account.Service
	accountRepo   account.Repository
	verifications *verification.Manager
	limiter       *ratelimit.FixedWindowLimiter
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	accounts *account.Service,
	accountRepo account.Repository,
	verifications *verification.Manager,
	limiter *ratelimit.FixedWindowLimiter,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		accountRepo:   accountRepo,
		verifications: verifications,
		limiter:       limiter,
		logger:        logger,
	}
}

// SignUp registers an account and sends the verification e-mail. A failed
// send rolls the account back so no unverifiable account is left behind.
func (h *AuthHandler) SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResponse, error) {
	acct, err := h.accounts.SignUp(ctx,
		req.Body.FirstName, req.Body.LastName, req.Body.Email, req.Body.Username, req.Body.Password,
	)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			return nil, huma.Error409Conflict("e-mail already in use")
		case errors.Is(err, account.ErrUsernameTaken):
			return nil, huma.Error409Conflict("username already in use")
		}

		return nil, huma.Error500InternalServerError("failed to sign up")
	}

	meta := RequestMetaFromContext(ctx)

	// A fresh account claims the client key, so its send budget restarts.
	if err := h.limiter.Reset(ctx, meta.ClientIP); err != nil {
		h.logger.Warn("failed to reset rate limit window", zap.Error(err))
	}

	if _, err := h.verifications.CreateToken(ctx, acct.Email); err != nil {
		h.rollbackSignUp(ctx, acct)

		return nil, huma.Error500InternalServerError("failed to sign up")
	}

	if err := h.verifications.Send(ctx, acct.Email, meta.ClientIP); err != nil {
		h.rollbackSignUp(ctx, acct)

		return nil, huma.Error500InternalServerError("verification e-mail not sent")
	}

	resp := &SignUpResponse{Status: http.StatusCreated}
	resp.Body.ID = acct.ID
	resp.Body.Email = acct.Email
	resp.Body.Username = acct.Username

	return resp, nil
}

// rollbackSignUp undoes a signup whose verification mail never went out.
func (h *AuthHandler) rollbackSignUp(ctx context.Context, acct *account.Account) {
	if err := h.verifications.Cancel(ctx, acct.Email); err != nil {
		h.logger.Warn("failed to cancel verification request during rollback",
			zap.String("email", acct.Email),
			zap.Error(err),
		)
	}

	if err := h.accounts.Delete(ctx, acct); err != nil {
		h.logger.Error("failed to roll back account after send failure",
			zap.String("username", acct.Username),
			zap.Error(err),
		)
	}
}

// SignIn exchanges credentials for a session token.
func (h *AuthHandler) SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error) {
	result, err := h.accounts.SignIn(ctx, req.Body.Username, req.Body.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("please check your credentials")
		}

		return nil, huma.Error500InternalServerError("failed to sign in")
	}

	resp := &SignInResponse{}
	resp.Body.AccessToken = result.AccessToken
	resp.Body.EmailVerified = result.EmailVerified
	resp.Body.Email = result.Email

	return resp, nil
}

// VerifyEmail consumes a verification token.
func (h *AuthHandler) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*MessageResponse, error) {
	if err := h.verifications.Verify(ctx, req.Token); err != nil {
		if errors.Is(err, verification.ErrNotFound) {
			return nil, huma.Error404NotFound("verification token not found")
		}

		return nil, huma.Error500InternalServerError("failed to verify e-mail")
	}

	resp := &MessageResponse{}
	resp.Body.Message = "e-mail verified"

	return resp, nil
}

// ResendEmail re-issues and re-sends the verification link for an account.
func (h *AuthHandler) ResendEmail(ctx context.Context, req *ResendEmailRequest) (*MessageResponse, error) {
	acct, err := h.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, huma.Error404NotFound("account not found")
		}

		return nil, huma.Error500InternalServerError("failed to resend e-mail")
	}

	if _, err := h.verifications.CreateToken(ctx, acct.Email); err != nil {
		// Inside the cooldown the previous token is still on its way;
		// re-issuing is refused.
		return nil, huma.Error500InternalServerError("failed to resend e-mail")
	}

	meta := RequestMetaFromContext(ctx)

	if err := h.verifications.Send(ctx, acct.Email, meta.ClientIP); err != nil {
		switch {
		case errors.Is(err, verification.ErrNoPending):
			return nil, huma.Error403Forbidden("no pending verification request")
		case errors.Is(err, verification.ErrRateLimited):
			return nil, huma.Error400BadRequest("verification send limit exceeded")
		}

		return nil, huma.Error500InternalServerError("error while resending e-mail")
	}

	resp := &MessageResponse{}
	resp.Body.Message = "e-mail resent"

	return resp, nil
}

// DeleteAccount removes the authenticated account and its short links, and
// drops the caller's rate-limit window so the key does not leak a stale
// counter.
func (h *AuthHandler) DeleteAccount(ctx context.Context, _ *struct{}) (*MessageResponse, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if err := h.verifications.Cancel(ctx, acct.Email); err != nil {
		h.logger.Warn("failed to delete pending verification request",
			zap.String("email", acct.Email),
			zap.Error(err),
		)
	}

	if err := h.accounts.Delete(ctx, acct); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete account")
	}

	meta := RequestMetaFromContext(ctx)
	if err := h.limiter.Reset(ctx, meta.ClientIP); err != nil {
		h.logger.Warn("failed to reset rate limit window", zap.Error(err))
	}

	resp := &MessageResponse{}
	resp.Body.Message = "account deleted"

	return resp, nil
}
