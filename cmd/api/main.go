package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distance-shipping/internal/api"
	"distance-shipping/internal/config"
	"distance-shipping/internal/modules/distance"
	"distance-shipping/internal/modules/quotes"
	"distance-shipping/internal/modules/rates"
	"distance-shipping/pkg/diag"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	// Load application configuration from environment variables or a config
	// file. This includes the server port, database and the settings of the
	// shipping method instance served by this process.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	settings := cfg.MethodSettings()

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	// Initialize the PostgreSQL database connection pool. This connection is
	// shared across all parts of the application that need it.
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v\n", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- Dependency Injection (Wiring everything up) ---
	// Diagnostics: a collecting sink that also prints when debug mode is on.
	sink := diag.NewCollector(settings.DebugMode)

	// --- Distance Module ---
	apiClient := distance.NewClient(sink)
	requestCache := distance.NewCache(settings.CacheTTL)

	// --- Rates Module ---
	tableValidator := rates.NewValidator(cfg.ShippingClassIDs(), settings.ProLicense)

	// --- Quotes Module ---
	quoteRepo := quotes.NewRepository(dbPool)
	quoteService := quotes.NewService(quoteRepo, apiClient, requestCache, tableValidator, settings, cfg.InstanceID, sink, rates.ResolveOptions{})
	if err := quoteService.LoadTable(context.Background()); err != nil {
		log.Fatalf("Unable to load rate table: %v", err)
	}
	quoteHandler := quotes.NewHandler(quoteService, sink)

	// 5. --- Initialize Router ---
	api.SetupRoutes(e, quoteHandler)

	// 6. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
