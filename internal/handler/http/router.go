package http

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

type Handlers struct {
	Attendance AttendanceHandler
	LateReason LateReasonHandler
	Report     ReportHandler
	Roster     RosterHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/today", h.Attendance.Today)
			r.Post("/punch", h.Attendance.Punch)
			r.Post("/punch/complete", h.Attendance.CompletePunch)
		})

		r.Route("/late-login-reasons", func(r chi.Router) {
			r.Post("/", h.LateReason.Submit)
			r.Get("/my", h.LateReason.ListMine)
		})

		r.Route("/daily-reports", func(r chi.Router) {
			r.Post("/", h.Report.Submit)
			r.Get("/{id}/replies", h.Report.ListReplies)
		})

		// Admin only
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminOnly)

			r.Get("/attendance", h.Attendance.History)
			r.Get("/roster", h.Roster.List)
			r.Get("/roster/summary", h.Roster.Summary)
			r.Get("/late-login-reasons", h.LateReason.ListAll)
			r.Post("/late-login-reasons/{id}/decision", h.LateReason.Decide)
			r.Post("/daily-reports/{id}/replies", h.Report.Reply)
		})
	})

	return r
}

// NewLogger builds the ECS-formatted JSON logger used for request logs.
func NewLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-portal"),
		slog.String("env", env),
	)
}
