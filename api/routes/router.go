package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openreel/openreel-backend/api/controllers"
	"github.com/openreel/openreel-backend/api/middleware"
	"github.com/openreel/openreel-backend/internal/accesscontrol"
	"github.com/openreel/openreel-backend/internal/devicelink"
	"github.com/openreel/openreel-backend/internal/identity"
	"github.com/openreel/openreel-backend/internal/upload"
	"github.com/openreel/openreel-backend/pkg/config"
	"github.com/openreel/openreel-backend/pkg/enums"
	"github.com/openreel/openreel-backend/pkg/logger"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Pingers    map[string]controllers.Pinger
	Registry   *prometheus.Registry
	Upload     upload.Service
	Access     accesscontrol.Manager
	Resolver   accesscontrol.Resolver
	AccessRepo *accesscontrol.Repository
	Users      *identity.Repository
	DeviceLink *devicelink.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.Auth(cfg.JWT, logg)).
			Post("/access-control/check-access", controllers.CheckAccess(deps.Resolver, deps.Users, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Post("/device-sessions", controllers.CreateDeviceSession(deps.DeviceLink, logg))
		// The claiming device has no credentials yet; the single-use code is the credential.
		r.Post("/device-sessions/claim", controllers.ClaimDeviceSession(deps.DeviceLink, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, string(enums.SystemRoleAdmin), string(enums.SystemRoleModerator)))

		r.Route("/upload", func(r chi.Router) {
			r.Post("/movie", controllers.UploadMovie(deps.Upload, cfg.Upload, logg))
			r.Post("/episode", controllers.UploadEpisode(deps.Upload, cfg.Upload, logg))
			r.Post("/thumbnail", controllers.UploadThumbnail(deps.Upload, cfg.Upload, logg))
			r.Post("/trailer", controllers.UploadTrailer(deps.Upload, cfg.Upload, logg))
		})

		r.Route("/access-control", func(r chi.Router) {
			r.Post("/action", controllers.ApplyAccessAction(deps.Access, logg))
			r.Get("/status/{userId}", controllers.AccessStatus(deps.Resolver, deps.AccessRepo, logg))
		})
	})

	return r
}
