package router

import (
	"log/slog"
	"net/http"
	"strings"

	"cabinet/internal/auth"
	"cabinet/internal/handler"
	"cabinet/internal/httputil"
	"cabinet/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Folders *handler.FolderHandler
	Health  *handler.HealthHandler
}

// New builds the HTTP handler for the API.
//
// Order: CORS → RequestID → RealIP → RequestLogger → Recovery → Auth → Routes.
// CORS sits outside auth so pre-flight requests never need a token.
func New(h Handlers, verifier auth.JWTVerifier, corsOrigins string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.Health.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(verifier, logger))

		r.Route("/folders", func(r chi.Router) {
			r.Post("/", h.Folders.CreateFolder)
			r.Get("/", h.Folders.ListFolders)

			r.Route("/{folderId}", func(r chi.Router) {
				r.Get("/", h.Folders.GetFolder)
				r.Get("/shared", h.Folders.GetSharedFolder)
				r.Patch("/", h.Folders.UpdateFolder)
				r.Put("/", h.Folders.UpdateFolder)
				r.Delete("/", h.Folders.DeleteFolder)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   splitOrigins(corsOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
