// Package redirect is the visitor-facing dispatcher: resolve the code,
// attribute the click, answer with the redirect.
package redirect

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shortenv/shortenv/internal/clicks"
	"github.com/shortenv/shortenv/internal/metrics"
	"github.com/shortenv/shortenv/internal/shortlink"
	"go.uber.org/zap"
)

var notFoundPage = template.Must(template.New("404").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>404 - Short URL Not Found</title>
<style>
body { font-family: -apple-system, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
display: flex; align-items: center; justify-content: center; min-height: 100vh; color: #fff; margin: 0; }
.error-container { text-align: center; padding: 2rem; }
.error-code { font-size: 8rem; font-weight: bold; margin-bottom: 1rem; }
.btn { display: inline-block; padding: 12px 24px; background: #fff; color: #667eea;
text-decoration: none; border-radius: 8px; font-weight: 600; }
</style>
</head>
<body>
<div class="error-container">
<div class="error-code">404</div>
<h1>Short URL Not Found</h1>
<p>The short URL code &quot;{{.Code}}&quot; does not exist.</p>
<a href="/" class="btn">Go Home</a>
</div>
</body>
</html>
`))

// Handler serves the redirect routes.
type Handler struct {
	resolver   shortlink.Resolver
	attributor *clicks.Attributor
	landingURL string
	logger     *zap.Logger
}

// NewHandler creates the redirect dispatcher. landingURL is where requests
// without a code are sent.
func NewHandler(
	resolver shortlink.Resolver,
	attributor *clicks.Attributor,
	landingURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		resolver:   resolver,
		attributor: attributor,
		landingURL: landingURL,
		logger:     logger,
	}
}

// Routes registers the redirect endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Landing)
	r.Get("/{code}", h.Redirect)
	r.Get("/s/{code}", h.Redirect)
}

// Landing handles requests with no code at all.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.landingURL, http.StatusFound)
}

// Redirect resolves the code, attributes the click and answers with 301/302.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		h.Landing(w, r)

		return
	}

	ctx := r.Context()

	link, err := h.resolver.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			h.respondNotFound(w, code)

			return
		}

		// Storage failure is a server error, never a 404.
		h.logger.Error("resolve failed", zap.String("code", code), zap.Error(err))
		metrics.Redirects.WithLabelValues("500").Inc()
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	visit := clicks.Visit{
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}

	// A failed attribution write must not cost the visitor their redirect.
	if _, err := h.attributor.Record(ctx, link.Code, link.Target, visit); err != nil {
		h.logger.Error("click attribution failed",
			zap.String("code", link.Code),
			zap.String("ip", visit.IP),
			zap.Error(err),
		)
	}

	status := shortlink.NormalizePolicy(link.Policy).StatusCode()

	if status == http.StatusMovedPermanently {
		w.Header().Set("Cache-Control", "public, max-age=31536000")
	} else {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	}

	w.Header().Set("Location", link.Target)
	w.WriteHeader(status)

	metrics.Redirects.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (h *Handler) respondNotFound(w http.ResponseWriter, code string) {
	metrics.Redirects.WithLabelValues("404").Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	if err := notFoundPage.Execute(w, struct{ Code string }{Code: code}); err != nil {
		h.logger.Error("failed to render 404 page", zap.Error(err))
	}
}
