package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/handlers"
	"github.com/avelaro/shortly/internal/token"
)

// Auth returns a Huma middleware that validates the bearer session token on
// operations marked with handlers.MetadataAuthKey and injects the matching
// account into the request context. Other operations pass through.
func Auth(api huma.API, issuer *token.Issuer, accounts account.Repository) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx) {
			next(ctx)

			return
		}

		authHeader := ctx.Header("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid authorization header")

			return
		}

		claims, err := issuer.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		acct, err := accounts.GetByUsername(ctx.Context(), claims.Username)
		if err != nil {
			// A valid token for a deleted account is still unauthorized.
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		newCtx := handlers.ContextWithAccount(ctx.Context(), acct)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func requiresAuth(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	required, ok := op.Metadata[handlers.MetadataAuthKey].(bool)

	return ok && required
}
