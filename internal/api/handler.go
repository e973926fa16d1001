// Package api is the JSON surface over the storage contract. It is thin glue:
// every operation maps onto the store and introduces no invariants of its own.
// In particular it never writes click counters; only the attribution engine
// does that.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortenv/shortenv/internal/shortlink"
	"go.uber.org/zap"
)

// createRetries bounds code regeneration when a generated code collides.
const createRetries = 5

// Handler implements the admin JSON API.
type Handler struct {
	store        shortlink.Store
	invalidate   shortlink.CacheInvalidator
	generateCode shortlink.CodeGenerator
	baseURL      string
	logger       *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	store shortlink.Store,
	invalidate shortlink.CacheInvalidator,
	generateCode shortlink.CodeGenerator,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:        store,
		invalidate:   invalidate,
		generateCode: generateCode,
		baseURL:      baseURL,
		logger:       logger,
	}
}

func validTarget(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (h *Handler) toLink(l *shortlink.ShortLink) Link {
	return Link{
		ID:           l.ID,
		Code:         l.Code,
		Target:       l.Target,
		ShortURL:     fmt.Sprintf("%s/%s", h.baseURL, l.Code),
		RedirectType: int(l.Policy),
		Clicks:       l.Clicks,
		LastClickAt:  l.LastClickAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (h *Handler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	if !validTarget(req.Body.Target) {
		return nil, huma.Error400BadRequest("target must be a valid http or https URL")
	}

	link := &shortlink.ShortLink{
		Target: req.Body.Target,
		Policy: shortlink.NormalizePolicy(shortlink.RedirectPolicy(req.Body.RedirectType)),
	}

	if req.Body.Code != "" {
		if !shortlink.ValidCode(req.Body.Code) {
			return nil, huma.Error400BadRequest(
				"invalid code: use 3-50 letters, digits, hyphens or underscores")
		}

		link.Code = req.Body.Code

		if err := h.store.Create(ctx, link); err != nil {
			if errors.Is(err, shortlink.ErrCodeTaken) {
				return nil, huma.Error409Conflict("code already exists")
			}

			h.logger.Error("create link failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create link")
		}
	} else if err := h.createGenerated(ctx, link); err != nil {
		return nil, err
	}

	return &CreateLinkResponse{Status: http.StatusCreated, Body: h.toLink(link)}, nil
}

// createGenerated retries with fresh codes until one does not collide.
func (h *Handler) createGenerated(ctx context.Context, link *shortlink.ShortLink) error {
	for range createRetries {
		link.Code = h.generateCode()

		err := h.store.Create(ctx, link)
		if err == nil {
			return nil
		}

		if !errors.Is(err, shortlink.ErrCodeTaken) {
			h.logger.Error("create link failed", zap.Error(err))

			return huma.Error500InternalServerError("failed to create link")
		}
	}

	return huma.Error500InternalServerError("could not generate a unique code")
}

func (h *Handler) GetLink(ctx context.Context, req *GetLinkRequest) (*LinkResponse, error) {
	link, err := h.store.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("get link failed", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load link")
	}

	return &LinkResponse{Body: h.toLink(link)}, nil
}

func (h *Handler) UpdateLink(ctx context.Context, req *UpdateLinkRequest) (*LinkResponse, error) {
	if !validTarget(req.Body.Target) {
		return nil, huma.Error400BadRequest("target must be a valid http or https URL")
	}

	if !shortlink.ValidCode(req.Body.Code) {
		return nil, huma.Error400BadRequest(
			"invalid code: use 3-50 letters, digits, hyphens or underscores")
	}

	existing, err := h.store.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("update link failed", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to update link")
	}

	link := &shortlink.ShortLink{
		ID:     req.ID,
		Code:   req.Body.Code,
		Target: req.Body.Target,
		Policy: shortlink.NormalizePolicy(shortlink.RedirectPolicy(req.Body.RedirectType)),
	}

	if err := h.store.Update(ctx, link); err != nil {
		switch {
		case errors.Is(err, shortlink.ErrCodeTaken):
			return nil, huma.Error409Conflict("code already exists")
		case errors.Is(err, shortlink.ErrNotFound):
			return nil, huma.Error404NotFound("link not found")
		default:
			h.logger.Error("update link failed", zap.Int64("id", req.ID), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to update link")
		}
	}

	// Drop both codes from the resolve cache; a rename leaves the old one
	// behind otherwise.
	h.invalidate.Invalidate(ctx, existing.Code, link.Code)

	updated, err := h.store.FindByID(ctx, req.ID)
	if err != nil {
		h.logger.Error("reload after update failed", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load link")
	}

	return &LinkResponse{Body: h.toLink(updated)}, nil
}

func (h *Handler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	existing, err := h.store.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("delete link failed", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	if err := h.store.Delete(ctx, req.ID); err != nil && !errors.Is(err, shortlink.ErrNotFound) {
		h.logger.Error("delete link failed", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	h.invalidate.Invalidate(ctx, existing.Code)

	resp := &DeleteLinkResponse{}
	resp.Body.Deleted = true

	return resp, nil
}

func (h *Handler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	links, err := h.store.List(ctx, shortlink.ListOptions{
		Search: req.Search,
		SortBy: req.SortBy,
		Asc:    req.Order == "asc",
	})
	if err != nil {
		h.logger.Error("list links failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]Link, 0, len(links))

	for i := range links {
		resp.Body.Links = append(resp.Body.Links, h.toLink(&links[i]))
	}

	return resp, nil
}

func (h *Handler) ListClicks(ctx context.Context, req *ListClicksRequest) (*ListClicksResponse, error) {
	clicks, err := h.store.ListClicks(ctx, shortlink.ClickFilter{
		Code:   req.Code,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.logger.Error("list clicks failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list clicks")
	}

	total, err := h.store.CountClicks(ctx, req.Code)
	if err != nil {
		h.logger.Error("count clicks failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to count clicks")
	}

	resp := &ListClicksResponse{}
	resp.Body.Total = total
	resp.Body.Clicks = make([]ClickEntry, 0, len(clicks))

	for _, c := range clicks {
		resp.Body.Clicks = append(resp.Body.Clicks, ClickEntry{
			ID:        c.ID,
			Code:      c.Code,
			Target:    c.Target,
			IP:        c.IP,
			UserAgent: c.UserAgent,
			Referer:   c.Referer,
			CreatedAt: c.CreatedAt,
		})
	}

	return resp, nil
}

func (h *Handler) GetStats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load stats")
	}

	resp := &StatsResponse{}
	resp.Body.TotalLinks = stats.TotalLinks
	resp.Body.TotalClicks = stats.TotalClicks

	return resp, nil
}
