package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/image-ehr/clinic-console/internal/api/handler"
	"github.com/image-ehr/clinic-console/internal/api/middleware"
	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

// Dependencies carries everything the router needs, constructed once in main.
type Dependencies struct {
	Sessions     ports.SessionService
	Gateway      ports.BackendGateway
	Audit        ports.LoginAuditRepository
	Mongo        *mongo.Database
	Redis        *redis.Client
	CookieSecret string
	CookieTTL    time.Duration
	// WebDir holds the built console assets; empty runs the service API-only.
	WebDir string
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("clinic_console"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions, deps.CookieSecret, deps.CookieTTL)
	consoleHandler := handler.NewConsoleHandler(deps.Gateway, deps.Sessions)
	financeHandler := handler.NewFinanceHandler(deps.Gateway, deps.Sessions)
	adminHandler := handler.NewAdminHandler(deps.Audit)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	sessionGuard := middleware.Session(deps.Sessions, deps.CookieSecret)

	// --- Public surface ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Session-guarded console API ---
	app := e.Group("/api", sessionGuard)
	app.GET("/auth/session", authHandler.Session)
	app.POST("/session/clinic", authHandler.SwitchClinic)
	app.GET("/clinics", authHandler.Clinics)

	app.GET("/dashboard/stats", consoleHandler.DashboardStats)
	app.GET("/dashboard/recent-visits", consoleHandler.DashboardRecentVisits)

	patients := app.Group("/patients", middleware.ModuleAccess(domain.ModulePatients))
	patients.GET("", consoleHandler.ListPatients)
	patients.GET("/:id", consoleHandler.GetPatient)
	patients.POST("", consoleHandler.CreatePatient)

	visits := app.Group("/visits", middleware.ModuleAccess(domain.ModuleVisits))
	visits.GET("", consoleHandler.ListVisits)
	visits.POST("", consoleHandler.CreateVisit)

	billing := app.Group("/billing", middleware.ModuleAccess(domain.ModuleBilling))
	billing.GET("", consoleHandler.ListBills)

	reports := app.Group("/reports", middleware.ModuleAccess(domain.ModuleReports))
	reports.GET("/*", consoleHandler.Reports)

	settings := app.Group("/settings", middleware.ModuleAccess(domain.ModuleSettings))
	settings.GET("", consoleHandler.GetSettings)
	settings.PUT("", consoleHandler.UpdateSettings)

	finance := app.Group("/finance", middleware.ModuleAccess(domain.ModuleFinance))
	finance.GET("/dashboard/stats", financeHandler.Stats)
	finance.GET("/dashboard/recent-transactions", financeHandler.RecentTransactions)
	finance.GET("/dashboard/trends", financeHandler.MonthlyTrends)
	finance.GET("/*", financeHandler.Get)
	finance.POST("/*", financeHandler.Create)
	finance.PUT("/*", financeHandler.Update)
	finance.DELETE("/*", financeHandler.Delete)

	admin := app.Group("/admin", middleware.ModuleAccess(domain.ModuleSettings))
	admin.GET("/login-logs", adminHandler.LoginLogs)
	admin.GET("/users", consoleHandler.ListUsers)

	// --- Static console shell ---
	if deps.WebDir != "" {
		e.Static("/", deps.WebDir)
	}

	return e
}
