package main

//
//  @title           yfpulse API
//  @version         1.0
//  @description     Yahoo Finance market-data gateway.
//  @contact.name    API Support
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        ticker
//  @tag.description Endpoints for querying ticker data
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"yfpulse/config"
	_ "yfpulse/docs" // swagger docs
	"yfpulse/internal/app"
	"yfpulse/internal/fetch"
	"yfpulse/internal/logger"
	"yfpulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., pooled upstream connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the yfpulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API gateway in front of Yahoo Finance.
//   - fetch: Exports price history CSV files for a list of tickers.
//
// Flags:
//   - --mode:     Execution mode ("api" or "fetch"). Default: "api".
//   - --tickers:  Comma-separated symbols to export in fetch mode.
//   - --period:   History period preset for fetch mode. Default: "1mo".
//   - --interval: Bar interval for fetch mode. Default: "1d".
//   - --dir:      Output directory for exported CSV files. Default: "./data/output".
//   - --parallel: How many tickers to export concurrently (0=auto up to min(4, CPU), max 8).
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or fetch")
	tickers := flag.String("tickers", "", "Comma-separated tickers to export (fetch mode)")
	period := flag.String("period", "1mo", "History period preset for fetch mode")
	interval := flag.String("interval", "1d", "Bar interval for fetch mode")
	dir := flag.String("dir", "./data/output", "Directory for exported CSV files")
	parallel := flag.Int("parallel", 0, "How many tickers to export concurrently (0=auto up to min(4, CPU), max 8)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "fetch":
		// Fetch mode: export history CSV files and exit
		logger.L().Info().Msg("running bulk export")

		// Direct provider construction for the one-shot export
		prov, err := app.InitProvider(config.AppConfig.Yahoo)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("provider init error")
		}
		defer func() {
			if c, ok := prov.(interface{ CloseIdleConnections() }); ok {
				c.CloseIdleConnections()
			}
		}()

		svc := service.NewTickerService(prov)
		if err := fetch.Run(ctx, svc, strings.Split(*tickers, ","), *period, *interval, *dir, *parallel); err != nil {
			logger.L().Fatal().Err(err).Msg("export failed")
		}
		logger.L().Info().Msg("export completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
