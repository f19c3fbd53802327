package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataAuthKey marks operations that require a bearer session token.
// The auth middleware consults it before loading the account.
const MetadataAuthKey = "authRequired"

func authRequired() map[string]any {
	return map[string]any{MetadataAuthKey: true}
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(api huma.API, auth *AuthHandler, links *LinkHandler, health *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "sign-up",
		Method:      http.MethodPost,
		Path:        "/auth/signup",
		Summary:     "Create a new account",
		Description: "Registers an account and sends an e-mail verification link.",
		Tags:        []string{"Auth"},
	}, auth.SignUp)

	huma.Register(api, huma.Operation{
		OperationID: "sign-in",
		Method:      http.MethodPost,
		Path:        "/auth/signin",
		Summary:     "Sign in",
		Tags:        []string{"Auth"},
	}, auth.SignIn)

	huma.Register(api, huma.Operation{
		OperationID: "verify-email",
		Method:      http.MethodGet,
		Path:        "/auth/verify/{token}",
		Summary:     "Verify e-mail",
		Description: "Consumes a verification token; each token works exactly once.",
		Tags:        []string{"Auth"},
	}, auth.VerifyEmail)

	huma.Register(api, huma.Operation{
		OperationID: "resend-email",
		Method:      http.MethodGet,
		Path:        "/auth/resend/{email}",
		Summary:     "Resend verification e-mail",
		Tags:        []string{"Auth"},
	}, auth.ResendEmail)

	huma.Register(api, huma.Operation{
		OperationID: "delete-account",
		Method:      http.MethodDelete,
		Path:        "/auth/delete",
		Summary:     "Delete account",
		Description: "Deletes the authenticated account and its short links.",
		Tags:        []string{"Auth"},
		Metadata:    authRequired(),
	}, auth.DeleteAccount)

	huma.Register(api, huma.Operation{
		OperationID: "shorten-url",
		Method:      http.MethodPost,
		Path:        "/url/shorten",
		Summary:     "Shorten a URL",
		Description: "Returns the existing mapping when the caller already shortened this URL.",
		Tags:        []string{"URLs"},
		Metadata:    authRequired(),
	}, links.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "list-urls",
		Method:      http.MethodGet,
		Path:        "/url",
		Summary:     "List short URLs",
		Tags:        []string{"URLs"},
		Metadata:    authRequired(),
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-url",
		Method:      http.MethodGet,
		Path:        "/url/{code}",
		Summary:     "Get short URL by code",
		Tags:        []string{"URLs"},
		Metadata:    authRequired(),
	}, links.GetLink)

	huma.Register(api, huma.Operation{
		OperationID: "delete-url",
		Method:      http.MethodDelete,
		Path:        "/url/{code}",
		Summary:     "Delete short URL by code",
		Tags:        []string{"URLs"},
		Metadata:    authRequired(),
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Public redirect; resolves the code regardless of owner.",
		Tags:        []string{"URLs"},
	}, links.Redirect)

	huma.Get(api, "/health", health.Check)
}
