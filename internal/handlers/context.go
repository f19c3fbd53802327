package handlers

import (
	"context"

	"github.com/avelaro/shortly/internal/account"
)

type requestMetaKey struct{}

type accountKey struct{}

// RequestMeta holds HTTP request metadata; ClientIP doubles as the
// rate-limit client key.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// ContextWithAccount adds the authenticated account to context.
func ContextWithAccount(ctx context.Context, acct *account.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, acct)
}

// AccountFromContext extracts the authenticated account from context.
func AccountFromContext(ctx context.Context) (*account.Account, bool) {
	acct, ok := ctx.Value(accountKey{}).(*account.Account)

	return acct, ok
}
