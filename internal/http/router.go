package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/genadi53/next-ismp-sub001/internal/http/alias"
	"github.com/genadi53/next-ismp-sub001/internal/http/export"
	"github.com/genadi53/next-ismp-sub001/internal/http/plan"
)

type Options struct {
	CORSOrigins []string
	Auth        func(http.Handler) http.Handler
}

func New(
	opts Options,
	plansV1 *plan.Handler,
	aliasesV1 *alias.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		r.Route("/plans", plansV1.Routes)

		r.Route("/aliases", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			aliasesV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
