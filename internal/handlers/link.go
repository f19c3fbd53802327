package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/avelaro/shortly/internal/shortlink"
)

// LinkHandler handles short link management and the public redirect.
type LinkHandler struct {
	allocator *shortlink.Allocator
	logger    *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(allocator *shortlink.Allocator, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{allocator: allocator, logger: logger}
}

func linkBody(link *shortlink.ShortLink) LinkBody {
	return LinkBody{
		Code:     link.Code,
		LongURL:  link.LongURL,
		ShortURL: link.ShortURL,
	}
}

// Shorten creates (or returns the existing) short link for the caller's
// URL.
func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	link, err := h.allocator.Shorten(ctx, req.Body.LongURL, acct.ID)
	if err != nil {
		h.logger.Error("failed to shorten url",
			zap.String("owner_id", acct.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	resp := &ShortenResponse{Status: http.StatusCreated}
	resp.Headers.Location = link.ShortURL
	resp.Body = linkBody(link)

	return resp, nil
}

// ListLinks returns all of the caller's short links.
func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	links, err := h.allocator.ListFor(ctx, acct.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkBody, 0, len(links))

	for i := range links {
		resp.Body.Links = append(resp.Body.Links, linkBody(&links[i]))
	}

	return resp, nil
}

// GetLink returns one of the caller's links by code. Codes owned by other
// accounts are not visible here.
func (h *LinkHandler) GetLink(ctx context.Context, req *GetLinkRequest) (*GetLinkResponse, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	link, err := h.allocator.GetByCode(ctx, req.Code, acct.ID)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	resp := &GetLinkResponse{}
	resp.Body = linkBody(link)

	return resp, nil
}

// DeleteLink removes one of the caller's links by code.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*MessageResponse, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if err := h.allocator.DeleteByCode(ctx, req.Code, acct.ID); err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete url")
	}

	resp := &MessageResponse{}
	resp.Body.Message = "short url deleted"

	return resp, nil
}

// Redirect resolves a code regardless of owner and redirects to the long
// URL. This is the only unauthenticated operation; the code is meant to be
// publicly shareable.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.allocator.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to resolve url")
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = longURL

	return resp, nil
}
