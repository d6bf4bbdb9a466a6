package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cekaratas/randevu/internal/appointment"
	"github.com/cekaratas/randevu/internal/auth"
	"github.com/cekaratas/randevu/internal/settings"
)

type RouterConfig struct {
	Store    *appointment.Store
	Auth     *auth.Service
	Settings *settings.Service
	Storage  Pinger
	Log      *slog.Logger
	Env      string
	Version  string
	RateRPS  float64
	Burst    int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.Storage, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Auth endpoints, rate limited per client IP
	limiter := NewRateLimiter(cfg.RateRPS, cfg.Burst)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/auth/register", registerHandler(cfg.Auth))
		r.Post("/auth/login", loginHandler(cfg.Auth))
	})

	// Everything else requires a live session
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Auth))

		r.Post("/auth/logout", logoutHandler(cfg.Auth))
		r.Get("/profile", getProfileHandler(cfg.Auth))
		r.Put("/profile", updateProfileHandler(cfg.Auth))
		r.Put("/profile/password", changePasswordHandler(cfg.Auth))

		r.Post("/appointments", createAppointmentHandler(cfg.Store))
		r.Get("/appointments", listAppointmentsHandler(cfg.Store))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Store))
		r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Store))
		r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Store))

		r.Get("/calendar/{year}/{month}", monthCalendarHandler(cfg.Store))
		r.Get("/calendar/day/{date}", dayCalendarHandler(cfg.Store))
		r.Get("/statistics", statisticsHandler(cfg.Store))

		r.Get("/settings", getSettingsHandler(cfg.Settings))
		r.Put("/settings", putSettingsHandler(cfg.Settings))
		r.Get("/theme", getThemeHandler(cfg.Settings))
		r.Put("/theme", putThemeHandler(cfg.Settings))
	})

	return r
}
