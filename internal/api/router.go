package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workshophub/portal/internal/api/handler"
	"github.com/workshophub/portal/internal/api/middleware"
	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
	"github.com/workshophub/portal/internal/core/service"
	mongodb "github.com/workshophub/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/workshophub/portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	backend ports.VerificationBackend,
	recorder ports.AuditRecorder,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	sessionStore := redisdb.NewSessionStore(rdb, sessionTTL)
	limiter := redisdb.NewFlowLimiter(rdb)
	flowRepo := mongodb.NewFlowRepository(db)

	loginService := service.NewLoginService(backend, sessionStore, recorder, log)
	flowService := service.NewFlowService(backend, flowRepo, limiter, recorder, log)

	e.Use(middleware.Session(sessionStore, log))

	// --- Navigable pages, each behind its gate ---
	pages := handler.NewPageHandler(nil)
	for _, route := range domain.Routes() {
		e.GET(route.Path, pages.Page(route), middleware.Gate(route))
	}
	e.GET(middleware.LoginPromptPath, pages.LoginPrompt)

	// --- Auth API ---
	authHandler := handler.NewAuthHandler(loginService)
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)

	// --- Verification flows ---
	reset := handler.NewResetHandler(flowService)
	r := e.Group("/api/reset")
	r.POST("", reset.Begin)
	r.PUT("/:flow/code", reset.EditCode)
	r.POST("/:flow/code", reset.SubmitCode)
	r.POST("/:flow/resend", reset.Resend)
	r.POST("/:flow/secret", reset.SubmitSecret)

	verify := handler.NewVerifyEmailHandler(flowService)
	v := e.Group("/api/verifyemail")
	v.POST("", verify.Begin)
	v.PUT("/:flow/code", verify.EditCode)
	v.POST("/:flow/code", verify.SubmitCode)
	v.POST("/:flow/resend", verify.Resend)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
