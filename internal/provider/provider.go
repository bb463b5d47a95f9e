// Package provider defines the contract for the external market-data
// collaborator. Implementations live in sub-packages (e.g. yahoo) so the
// service layer can be tested against stubs without touching the network.
package provider

import (
	"context"

	"yfpulse/internal/domain/models"
)

// MarketProvider defines the contract for market-data lookups.
//
// Implementations signal "no data for this symbol" by returning empty results
// (empty Info mapping, zero bars, nil calendar) rather than an error; errors
// are reserved for transport failures and malformed upstream responses.
type MarketProvider interface {
	// Info returns the descriptive snapshot for a symbol as a flat
	// field->value mapping. An unknown symbol yields an empty mapping.
	Info(ctx context.Context, symbol string) (models.Info, error)

	// History returns the price series selected by the query, oldest first.
	// An unknown symbol or an empty range yields zero bars.
	History(ctx context.Context, symbol string, q models.HistoryQuery) ([]models.Bar, error)

	// Calendar returns upcoming scheduled events for a symbol. The payload
	// shape is not statically guaranteed by the upstream, so the result is
	// deliberately loose; callers must inspect it at runtime. A symbol with
	// no scheduled events yields nil.
	Calendar(ctx context.Context, symbol string) (any, error)

	// Ping reports whether the upstream endpoint is reachable.
	Ping(ctx context.Context) error
}
