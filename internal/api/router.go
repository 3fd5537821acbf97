package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/automation-hub/project-requests/docs"
	"github.com/automation-hub/project-requests/internal/api/handler"
	"github.com/automation-hub/project-requests/internal/api/middleware"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
	"github.com/automation-hub/project-requests/internal/infrastructure/http/handlers"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	JWTSecret string
	Log       zerolog.Logger

	Projects  ports.ProjectService
	Approvers ports.ApproverService
	Team      ports.TeamService

	Identities     ports.IdentityResolver
	ApproverPolicy ports.ApproverPolicy
	TeamAdmin      ports.TeamAdminPolicy
	Permissions    ports.PermissionChecker

	// HealthChecks are pinged by the readiness probe, keyed by dependency name.
	HealthChecks map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddleware("projects"))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	projectHandler := handler.NewProjectHandler(cfg.Projects)
	approverHandler := handler.NewApproverHandler(cfg.Approvers)
	teamHandler := handler.NewTeamHandler(cfg.Team)
	identityHandler := handler.NewIdentityHandler(cfg.Identities, cfg.ApproverPolicy, cfg.TeamAdmin, cfg.Permissions)

	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	v1.GET("/me", identityHandler.Me)
	v1.GET("/permissions/:action", identityHandler.Permission)

	// --- Projects ---
	projects := v1.Group("/projects")
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PATCH("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete,
		middleware.RequirePermission(cfg.Permissions, permission.ActionDeleteProject, cfg.Log))
	projects.GET("/:id/timeline", projectHandler.Timeline)

	// --- Lifecycle (guards are enforced by the service) ---
	projects.POST("/:id/approve", projectHandler.Approve)
	projects.POST("/:id/reject", projectHandler.Reject)
	projects.PUT("/:id/estimate", projectHandler.SetEstimate)
	projects.POST("/:id/attend", projectHandler.Attend)
	projects.POST("/:id/pause", projectHandler.Pause)
	projects.POST("/:id/resume", projectHandler.Resume)
	projects.POST("/:id/complete", projectHandler.Complete)

	// --- Approver registry ---
	canManageApprovers := middleware.RequireApproverManager(cfg.ApproverPolicy, cfg.Log)
	approvers := v1.Group("/approvers")
	approvers.GET("", approverHandler.List)
	approvers.GET("/:id", approverHandler.Get)
	approvers.POST("", approverHandler.Create, canManageApprovers)
	approvers.PATCH("/:id", approverHandler.Update, canManageApprovers)
	approvers.DELETE("/:id", approverHandler.Delete, canManageApprovers)

	// --- Team registry ---
	canAdministerTeam := middleware.RequireTeamAdmin(cfg.TeamAdmin, cfg.Log)
	team := v1.Group("/team-members")
	team.GET("", teamHandler.List)
	team.GET("/:id", teamHandler.Get)
	team.POST("", teamHandler.Create, canAdministerTeam)
	team.PATCH("/:id", teamHandler.Update, canAdministerTeam)
	team.DELETE("/:id", teamHandler.Delete, canAdministerTeam)

	return e
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
