package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/oeo/credit-facility/internal/api"
	"github.com/oeo/credit-facility/internal/auth"
	"github.com/oeo/credit-facility/internal/clock"
	"github.com/oeo/credit-facility/internal/database"
	"github.com/oeo/credit-facility/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the credit facility API server with graceful
// shutdown support. It sets up the engine service, database connection,
// API routes and the daily sweep processor.
func main() {
	// Initialize database
	db, err := database.NewDatabase()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService("credit-facility-secret-key")
	authHandlers := auth.NewGinHandlers(authService)
	// Register test credentials
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	facilityService := api.NewService(db, clock.System())
	facilityHandlers := api.NewGinHandlers(facilityService)

	// Create and start the daily sweep processor
	sweepProcessor := api.NewProcessor(facilityService, sweepInterval())
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	go sweepProcessor.Start(processorCtx)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, authHandlers, facilityHandlers)

	// Get port from env otherwise it's 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// sweepInterval reads the sweep cadence from the environment, defaulting to
// daily. Shorter intervals are useful in demos and integration setups.
func sweepInterval() time.Duration {
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		zlog.Warn().Str("sweep_interval", v).Msg("invalid SWEEP_INTERVAL, using default")
	}
	return 24 * time.Hour
}

// setupRoutes configures all API endpoints and their handlers
// It groups routes by functionality and applies appropriate middleware:
// - Auth routes: Public endpoints for authentication
// - Facility routes: Protected by JWT authentication
// - Internal routes: Protected by bearer-token authentication (InternalAuth)
// Parameters:
//   - router: The main Gin router instance
//   - authHandlers: Handlers for authentication endpoints
//   - facilityHandlers: Handlers for facility lifecycle and servicing
func setupRoutes(
	router *gin.Engine,
	authHandlers *auth.GinHandlers,
	facilityHandlers *api.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Facility routes
		facilities := v1.Group("/facilities")
		facilities.Use(middleware.JWTAuth())
		{
			facilities.POST("", facilityHandlers.CreateFacilityHandler())
			facilities.GET("/:facility_id", facilityHandlers.GetFacilityHandler())
			facilities.GET("/:facility_id/events", facilityHandlers.EventsHandler())
			facilities.POST("/:facility_id/approve", facilityHandlers.ApproveFacilityHandler())
			facilities.POST("/:facility_id/deny", facilityHandlers.DenyFacilityHandler())
			facilities.POST("/:facility_id/disbursements", facilityHandlers.DisburseHandler())
			facilities.POST("/:facility_id/payments", facilityHandlers.PaymentHandler())
			facilities.POST("/:facility_id/payments/scheduled", facilityHandlers.ScheduledPaymentHandler())
			facilities.POST("/:facility_id/collateral", facilityHandlers.CollateralHandler())
		}

		// Internal routes (should be protected by internal network)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalAuth())
		{
			internal.POST("/sweep", facilityHandlers.SweepHandler())
			internal.POST("/liquidation/:facility_id", facilityHandlers.LiquidationProceedsHandler())
		}
	}
}
