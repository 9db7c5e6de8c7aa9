package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"retouch/internal/http/handlers"
	"retouch/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.I18N(app.Config.DefaultLocale),
	)

	r.Get("/", app.UI)
	r.Get("/docs", app.OpenAPIDocs)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/suggestions", app.Suggestions)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Post("/v1/uploads", app.Uploads)
		r.Post("/v1/edits", app.Edits)
	})

	return r
}
