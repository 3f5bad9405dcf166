// Package server exposes the HTTP surface: analysis control, session
// management, settings and the overlay event stream.
package server

import (
	"net/http"

	"github.com/panelglot/panelglot/config"
	"github.com/panelglot/panelglot/pkg/auth"
	"github.com/panelglot/panelglot/pkg/otel"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler is a route group that mounts itself on the router.
type Handler interface {
	Attach(r chi.Router)
}

type Server struct {
	*config.Config

	handler http.Handler
}

func New(cfg *config.Config, handlers ...Handler) (*Server, error) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Use(authorize(cfg.Authorizers))

	r.Route("/v1", func(r chi.Router) {
		for _, h := range handlers {
			h.Attach(r)
		}
	})

	var handler http.Handler = r

	if otel.EnableTelemetry {
		handler = otelhttp.NewHandler(handler, "server")
	}

	return &Server{
		Config: cfg,

		handler: handler,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr:    s.Address,
		Handler: s.handler,
	}

	return server.ListenAndServe()
}

// authorize admits a request if any configured authorizer accepts it. With
// no authorizers the server is open.
func authorize(providers []auth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(providers) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			for _, provider := range providers {
				identity, err := provider.Verify(r.Context(), r)

				if err != nil {
					continue
				}

				ctx := auth.WithIdentity(r.Context(), identity)

				next.ServeHTTP(w, r.WithContext(ctx))

				return
			}

			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
}
