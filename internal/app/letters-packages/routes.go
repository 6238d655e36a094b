// Package letterspackages собирает HTTP-приложение почтовой службы.
package letterspackages

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/letters-packages/internal/config"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/client"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/health"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/postoffice"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/shipment/create"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/shipment/list"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/shipment/read"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/shipment/remove"
	"github.com/magabrotheeeer/letters-packages/internal/http/handlers/shipment/update"
	"github.com/magabrotheeeer/letters-packages/internal/http/middlewarectx"
	"github.com/magabrotheeeer/letters-packages/internal/services/directory"
	"github.com/magabrotheeeer/letters-packages/internal/services/shipments"
)

// Services зависимости обработчиков.
type Services struct {
	Letters   *shipments.Service
	Packages  *shipments.Service
	Directory *directory.Service
	Health    health.Checker
	Metrics   *middlewarectx.Metrics
	RateLimit config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		s.Metrics.Middleware,
	)

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, s.RateLimit))

		r.Route("/letters", shipmentRoutes(logger, s.Letters))
		r.Route("/packages", shipmentRoutes(logger, s.Packages))

		clients := client.New(logger, s.Directory)
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clients.List)
			r.Post("/", clients.Create)
			r.Get("/{id}", clients.Read)
			r.Put("/{id}", clients.Update)
			r.Delete("/{id}", clients.Remove)
		})

		offices := postoffice.New(logger, s.Directory)
		r.Route("/post-offices", func(r chi.Router) {
			r.Get("/", offices.List)
			r.Post("/", offices.Create)
			r.Get("/{id}", offices.Read)
			r.Put("/{id}", offices.Update)
			r.Delete("/{id}", offices.Remove)
		})
	})
}

func shipmentRoutes(logger *slog.Logger, svc *shipments.Service) func(r chi.Router) {
	return func(r chi.Router) {
		upd := update.New(logger, svc).ServeHTTP
		r.Get("/", list.New(logger, svc).ServeHTTP)
		r.Post("/", create.New(logger, svc).ServeHTTP)
		r.Get("/{id}", read.New(logger, svc).ServeHTTP)
		r.Put("/{id}", upd)
		r.Patch("/{id}", upd)
		r.Delete("/{id}", remove.New(logger, svc).ServeHTTP)
	}
}
