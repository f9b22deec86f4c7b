package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/hermes"
	"github.com/MikeSquared-Agency/Bellwether/internal/metrics"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
)

// RouterOptions carries the optional collaborators and limits of the API.
type RouterOptions struct {
	Hermes       hermes.Client
	Metrics      *metrics.Metrics
	Renderer     render.Renderer
	AdminToken   string
	RateLimitRPM int
}

func NewRouter(sess *session.Session, est *estimator.Estimator, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(opts.RateLimitRPM))

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewSVGRenderer()
	}

	regions := NewRegionsHandler(est)
	sessions := NewSessionHandler(sess, est, opts.Hermes, opts.Metrics, logger)
	estimates := NewEstimateHandler(sess, est, renderer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/periods", regions.Periods)
		r.Get("/regions", regions.List)
		r.Get("/regions/{name}/population", regions.Population)

		r.Get("/session", sessions.Get)
		r.Get("/estimate", estimates.Estimate)
		r.Get("/chart.svg", estimates.Chart)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Put("/session/period", sessions.SelectPeriod)
			r.Put("/session/region", sessions.SelectRegion)
			r.Put("/session/overrides/{dimension}/{category}", sessions.SetOverride)
		})
	})

	return r
}

// NewMetricsRouter serves health and the collectors registered on g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
