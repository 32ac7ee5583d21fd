package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/instant-weather/internal/api/http"
	"github.com/i474232898/instant-weather/internal/config"
	"github.com/i474232898/instant-weather/internal/home"
	"github.com/i474232898/instant-weather/internal/location"
	"github.com/i474232898/instant-weather/internal/preferences"
	"github.com/i474232898/instant-weather/internal/scheduler"
	"github.com/i474232898/instant-weather/internal/store"
	"github.com/i474232898/instant-weather/internal/weather"
	"github.com/i474232898/instant-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local cache and preferences.
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Providers in priority order, each with backoff + circuit breaker.
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}

	// Open-Meteo needs no key; names come from the geocoder when one is configured.
	var namer providers.LocationNamer
	if n := providers.NewGoogleNamer(cfg.GeocoderAPIKey); n != nil {
		namer = n
	}
	provs = append(provs, providers.NewOpenMeteoProvider(httpClient, namer))

	service := weather.NewService(db, provs)
	tracker := location.NewTracker()
	resolver := preferences.NewResolver(db)

	model := home.NewModel(service, resolver, tracker)
	defer model.Close()

	// Background refresh of the saved location.
	sched := scheduler.New(cfg.RefreshInterval, model, db, providers.NewConnectivityProbe(httpClient, ""))
	sched.Start()
	defer sched.Stop()

	screen := home.NewScreen(model, tracker, db, sched)
	go func() {
		if err := screen.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("ERROR: home screen: %v", err)
		}
	}()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "instant-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "instant-weather",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Model:     model,
		Locations: tracker,
		Units:     db,
		Resolver:  resolver,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
