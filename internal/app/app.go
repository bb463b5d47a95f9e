package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"yfpulse/config"
	"yfpulse/internal/api"
	"yfpulse/internal/service"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Constructs the upstream market-data provider via InitProvider().
//   - Initializes the service layer (TickerService).
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to release resources (pooled upstream
//     connections).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Construct the upstream provider
	prov, err := InitProvider(cfg.Yahoo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	// Initialize service layer (business logic)
	svc := service.NewTickerService(prov)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.Server.RequestTimeout)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(prov.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		if c, ok := prov.(interface{ CloseIdleConnections() }); ok {
			c.CloseIdleConnections()
		}
	}

	return router, cleanup, nil
}
