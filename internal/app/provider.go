package app

import (
	"context"
	"fmt"
	"net/url"

	"yfpulse/config"
	"yfpulse/internal/logger"
	"yfpulse/internal/provider"
	"yfpulse/internal/provider/yahoo"
)

// providerCtor is an indirection used by InitProvider; overridden in tests to
// avoid real upstream calls.
var providerCtor = func(cfg config.YahooConfig) provider.MarketProvider {
	return yahoo.New(cfg)
}

// InitProvider validates the upstream configuration, constructs the
// market-data provider, and probes upstream reachability.
//
// Behavior:
//   - A malformed base URL is an initialization error.
//   - An unreachable upstream is logged but not fatal; the gateway still
//     starts and /readyz reports the live upstream state.
//
// Returns:
//   - provider.MarketProvider: the constructed provider.
//   - error: if the upstream configuration is unusable.
func InitProvider(cfg config.YahooConfig) (provider.MarketProvider, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", cfg.BaseURL)
	}

	prov := providerCtor(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := prov.Ping(ctx); err != nil {
		logger.L().Warn().
			Err(err).
			Str("base_url", cfg.BaseURL).
			Msg("upstream provider not reachable at startup")
	}

	return prov, nil
}
