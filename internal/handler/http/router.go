package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/middleware"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/jwt"
)

type RouterConfig struct {
	JWTService       jwt.Service
	AuthHandler      AuthHandler
	UserHandler      UserHandler
	ScheduleHandler  ScheduleHandler
	ShiftHandler     ShiftHandler
	TimeclockHandler TimeclockHandler
	TimesheetHandler TimesheetHandler
	DocumentHandler  DocumentHandler
	AuditHandler     AuditHandler
	FrontendURL      string
	Env              string
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staffing-app"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/onboarding/complete", cfg.AuthHandler.CompleteOnboarding)
			r.Post("/refresh", cfg.AuthHandler.RefreshToken)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Route("/oauth", func(r chi.Router) {
				r.Get("/google", cfg.AuthHandler.LoginWithGoogle)
				r.Get("/callback/google", cfg.AuthHandler.OAuthCallbackGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.JWTService.JWTAuth()))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", cfg.UserHandler.GetMe)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserViewAll))
					r.Get("/", cfg.UserHandler.List)
					r.Get("/{id}", cfg.UserHandler.GetByID)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", cfg.UserHandler.Create)
					r.Put("/{id}", cfg.UserHandler.Update)
					r.Post("/{id}/archive", cfg.UserHandler.Archive)
					r.Post("/{id}/restore", cfg.UserHandler.Restore)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleView))
				r.Get("/", cfg.ScheduleHandler.ListSchedules)
				r.Get("/{id}", cfg.ScheduleHandler.GetSchedule)
				r.Get("/{id}/shifts", cfg.ScheduleHandler.ListScheduleShifts)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", cfg.ScheduleHandler.CreateSchedule)
					r.Put("/{id}", cfg.ScheduleHandler.UpdateSchedule)
					r.Patch("/{id}/status", cfg.ScheduleHandler.UpdateScheduleStatus)
				})
			})

			r.Route("/shift-templates", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleView))
				r.Get("/", cfg.ScheduleHandler.ListShiftTemplates)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", cfg.ScheduleHandler.CreateShiftTemplate)
					r.Delete("/{id}", cfg.ScheduleHandler.DeleteShiftTemplate)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleView))
				r.Get("/", cfg.ShiftHandler.List)
				r.Get("/{id}", cfg.ShiftHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", cfg.ShiftHandler.Create)
					r.Patch("/{id}/status", cfg.ShiftHandler.Transition)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftAssign))
					r.Post("/{id}/assignments", cfg.ShiftHandler.Assign)
				})
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/my", cfg.ShiftHandler.ListMyAssignments)
				r.Post("/{id}/accept", cfg.ShiftHandler.AcceptAssignment)
				r.Post("/{id}/reject", cfg.ShiftHandler.RejectAssignment)
			})

			r.Route("/timeclock", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeclockCreate))
					r.Post("/clock-in", cfg.TimeclockHandler.ClockIn)
					r.Post("/clock-out", cfg.TimeclockHandler.ClockOut)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(user.PermissionTimeclockViewOwn, user.PermissionTimeclockViewAll))
					r.Get("/active", cfg.TimeclockHandler.GetActive)
					r.Get("/entries/my", cfg.TimeclockHandler.ListMine)
					r.Get("/entries/{id}", cfg.TimeclockHandler.GetByID)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeclockViewAll))
					r.Get("/entries", cfg.TimeclockHandler.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeclockAmend))
					r.Put("/entries/{id}", cfg.TimeclockHandler.Amend)
					r.Post("/entries/{id}/lock", cfg.TimeclockHandler.Lock)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeclockUnlock))
					r.Post("/entries/{id}/unlock", cfg.TimeclockHandler.Unlock)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(user.PermissionTimesheetViewOwn, user.PermissionTimesheetGenerate))
					r.Get("/my", cfg.TimesheetHandler.ListMine)
					r.Get("/{id}", cfg.TimesheetHandler.GetByID)
					r.Post("/{id}/submit", cfg.TimesheetHandler.Submit)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimesheetGenerate))
					r.Get("/", cfg.TimesheetHandler.List)
					r.Post("/generate", cfg.TimesheetHandler.Generate)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimesheetApprove))
					r.Post("/{id}/approve", cfg.TimesheetHandler.Approve)
					r.Post("/{id}/reject", cfg.TimesheetHandler.Reject)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimesheetExport))
					r.Post("/{id}/export", cfg.TimesheetHandler.Export)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDocumentCreate))
					r.Post("/", cfg.DocumentHandler.Upload)
				})

				r.Get("/my", cfg.DocumentHandler.ListMine)
				r.Get("/{id}", cfg.DocumentHandler.GetByID)
				r.Get("/{id}/download", cfg.DocumentHandler.Download)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDocumentViewAll))
					r.Get("/", cfg.DocumentHandler.List)
					r.Get("/expiring/count", cfg.DocumentHandler.ExpiringCount)
					r.Post("/expiring/notify", cfg.DocumentHandler.NotifyExpiring)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDocumentApprove))
					r.Post("/{id}/approve", cfg.DocumentHandler.Approve)
					r.Post("/{id}/reject", cfg.DocumentHandler.Reject)
				})
			})

			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAuditView))
				r.Get("/", cfg.AuditHandler.List)
			})
		})
	})

	return r
}
