package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aboutorca/WeatherNavApp/internal/adapters/http"
	"github.com/aboutorca/WeatherNavApp/internal/app"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/config"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/logging"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("weathernav-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup("weathernav-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Postgres, Valkey and NATS are all optional
	infra := app.Connect(ctx, cfg)
	defer infra.Close()

	if infra.DB != nil {
		go infra.DB.ReportPoolStats(ctx, 15*time.Second)
	}

	services := app.NewServices(cfg, app.NewProviders(cfg), infra)

	deps := &http.Dependencies{
		Geocode: services.Geocode,
		Routes:  services.Routes,
		Weather: services.Weather,
		Trips:   services.Trips,
		DB:      infra.DB,
		Cache:   infra.Cache,
	}
	if infra.Events != nil {
		deps.NATS = infra.Events.Conn()
	}

	// Fiber
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "WeatherNav API",
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(fiberApp, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := fiberApp.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
