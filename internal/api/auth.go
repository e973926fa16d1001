package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// BearerAuth returns a middleware that checks the Authorization header
// against the configured admin key. An empty configured key disables the API
// outright rather than opening it up.
func BearerAuth(api huma.API, key string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)

		if key == "" || !ok ||
			subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized,
				"unauthorized: invalid or missing API key")

			return
		}

		next(ctx)
	}
}
