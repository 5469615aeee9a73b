package http

import (
	"log/slog"
	"os"

	"github.com/gestionet/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	timeclockHandler TimeclockHandler,
	correctionHandler CorrectionHandler,
	breakRuleHandler BreakRuleHandler,
	codeHandler EmployeeCodeHandler,
	notificationHandler NotificationHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Terminal endpoints. Identity comes from the employee code in the
		// request, not from a session.
		r.Route("/terminal", func(r chi.Router) {
			r.Post("/resolve", codeHandler.Resolve)
			r.Post("/clock-in", timeclockHandler.ClockIn)
			r.Post("/clock-out", timeclockHandler.ClockOut)
			r.Get("/status", timeclockHandler.Status)
			r.Route("/breaks", func(r chi.Router) {
				r.Post("/start", timeclockHandler.StartBreak)
				r.Post("/end", timeclockHandler.EndBreak)
			})
		})

		// SSE stream authenticates through a short-lived query token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/my", func(r chi.Router) {
				r.Get("/status", timeclockHandler.MyStatus)
				r.Get("/records", timeclockHandler.MyRecords)
				r.Post("/records/{id}/validate", correctionHandler.Validate)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkAsRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllAsRead)
				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", timeclockHandler.List)
					r.Post("/", correctionHandler.Backfill)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", timeclockHandler.Get)
						r.Put("/", correctionHandler.Modify)
						r.Post("/notify", correctionHandler.Notify)
						r.Get("/audit", correctionHandler.ListAudit)
					})
				})

				r.Post("/sweep", timeclockHandler.Sweep)

				r.Route("/employees/{employeeID}", func(r chi.Router) {
					r.Route("/break-rule", func(r chi.Router) {
						r.Get("/", breakRuleHandler.Get)
						r.Put("/", breakRuleHandler.Set)
						r.Delete("/", breakRuleHandler.Deactivate)
					})
					r.Get("/codes", codeHandler.ListByEmployee)
				})

				r.Route("/codes", func(r chi.Router) {
					r.Post("/", codeHandler.Create)
					r.Delete("/{code}", codeHandler.Deactivate)
				})
			})
		})
	})
	return r
}
