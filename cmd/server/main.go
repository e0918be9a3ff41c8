// Package main is the entry point for the travel booking engine.
//
//	@title						Travel Booking Engine API
//	@version					1.0.0
//	@description				Offer search, filtering, and a four-step checkout pipeline for travel bookings.
//
//	@contact.name				API Support
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/tripstack/travel-booking-engine/docs"

	// Application layers
	"github.com/tripstack/travel-booking-engine/internal/adapter/catalog"
	bookinghttp "github.com/tripstack/travel-booking-engine/internal/adapter/http"
	"github.com/tripstack/travel-booking-engine/internal/adapter/http/middleware"
	"github.com/tripstack/travel-booking-engine/internal/adapter/payment"
	"github.com/tripstack/travel-booking-engine/internal/adapter/store"
	"github.com/tripstack/travel-booking-engine/internal/config"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
	"github.com/tripstack/travel-booking-engine/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "booking-engine",
	})

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Middleware: request id, logging, recovery
	middleware.Setup(e, log.Logger)

	// Wire the application
	clock := timeutil.NewRealClock()

	offerCatalog := catalog.New(log)
	searchUC := usecase.NewOfferSearchUseCase(offerCatalog)

	sessions := usecase.NewSessionManager(cfg.Session.TTL, clock)

	gateway := payment.New(payment.Config{
		BaseURL: cfg.Payment.BaseURL,
		APIKey:  cfg.Payment.APIKey,
		Timeout: cfg.Payment.Timeout,
	}, log)

	bookingStore := store.New(store.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		DraftTTL: cfg.Redis.DraftTTL,
	})
	defer bookingStore.Close()

	handler := bookinghttp.NewBookingHandler(searchUC, sessions, gateway, bookingStore, clock, log).
		WithStorePinger(bookingStore)

	// Rate limiting applies to the API group only; health stays unthrottled.
	bookinghttp.RegisterRoutesWithMiddleware(e, handler,
		middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Background sweep of idle sessions
	stopSweep := make(chan struct{})
	go sweepSessions(sessions, cfg.Session.SweepInterval, log, stopSweep)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(e, log, stopSweep)
}

// sweepSessions drops idle sessions on an interval until stopped.
func sweepSessions(sessions *usecase.SessionManager, interval time.Duration, log *logger.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if dropped := sessions.Sweep(); dropped > 0 {
				log.Debug().Int("dropped", dropped).Msg("Swept idle sessions")
			}
		}
	}
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, log *logger.Logger, stopSweep chan struct{}) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")
	close(stopSweep)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
