package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/shortenv/shortenv/internal/api"
	"github.com/shortenv/shortenv/internal/clicks"
	"github.com/shortenv/shortenv/internal/health"
	"github.com/shortenv/shortenv/internal/metrics"
	"github.com/shortenv/shortenv/internal/middleware"
	"github.com/shortenv/shortenv/internal/ratelimit"
	"github.com/shortenv/shortenv/internal/redirect"
	"github.com/shortenv/shortenv/internal/shortlink"
	"go.uber.org/zap"
)

// HTTPPackage provides the router with all routes registered: the redirect
// path on chi directly, the admin API and health via huma, plus /metrics.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		router.Use(chimiddleware.Recoverer)

		hapi := humachi.New(router, huma.DefaultConfig("shortenv", "1.0.0"))

		generate, err := shortlink.NewCodeGenerator(options.CodeLength)
		if err != nil {
			return nil, err
		}

		apiHandler := api.NewHandler(
			do.MustInvoke[shortlink.Store](i),
			do.MustInvoke[shortlink.CacheInvalidator](i),
			generate,
			options.BaseURL,
			logger,
		)
		api.RegisterRoutes(hapi, apiHandler, options.AdminKey)

		healthHandler := health.NewHandler(
			health.NewPostgresChecker(do.MustInvoke[*Postgres](i).Pool),
			health.NewRedisChecker(do.MustInvoke[*Redis](i).Client),
		)
		health.RegisterRoutes(hapi, healthHandler)

		router.Method("GET", "/metrics", metrics.Handler())

		redirectHandler := redirect.NewHandler(
			do.MustInvoke[shortlink.Resolver](i),
			do.MustInvoke[*clicks.Attributor](i),
			options.LandingURL,
			logger,
		)

		limiter := do.MustInvoke[ratelimit.Limiter](i)

		router.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter, logger))
			redirectHandler.Routes(r)
		})

		return hapi, nil
	})
}
