package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the admin API under /api. All operations require
// the bearer key.
func RegisterRoutes(hapi huma.API, h *Handler, adminKey string) {
	auth := huma.Middlewares{BearerAuth(hapi, adminKey)}

	huma.Register(hapi, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Tags:        []string{"Links"},
		Middlewares: auth,
	}, h.CreateLink)

	huma.Register(hapi, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List short links",
		Tags:        []string{"Links"},
		Middlewares: auth,
	}, h.ListLinks)

	huma.Register(hapi, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/api/links/{id}",
		Summary:     "Get short link",
		Tags:        []string{"Links"},
		Middlewares: auth,
	}, h.GetLink)

	huma.Register(hapi, huma.Operation{
		OperationID: "update-link",
		Method:      http.MethodPut,
		Path:        "/api/links/{id}",
		Summary:     "Update short link",
		Description: "Rewrites code, target and redirect type. Renames keep the id.",
		Tags:        []string{"Links"},
		Middlewares: auth,
	}, h.UpdateLink)

	huma.Register(hapi, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/api/links/{id}",
		Summary:     "Delete short link",
		Description: "Removes the link and every click row recorded for its code.",
		Tags:        []string{"Links"},
		Middlewares: auth,
	}, h.DeleteLink)

	huma.Register(hapi, huma.Operation{
		OperationID: "list-clicks",
		Method:      http.MethodGet,
		Path:        "/api/clicks",
		Summary:     "List click log",
		Tags:        []string{"Clicks"},
		Middlewares: auth,
	}, h.ListClicks)

	huma.Register(hapi, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Store-wide totals",
		Tags:        []string{"Stats"},
		Middlewares: auth,
	}, h.GetStats)
}
