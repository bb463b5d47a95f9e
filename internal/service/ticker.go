package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"yfpulse/internal/domain/dto"
	"yfpulse/internal/domain/models"
	"yfpulse/internal/provider"
)

// Sentinel errors returned by TickerService. Handlers map these onto HTTP
// statuses; anything else is an internal failure.
var (
	// ErrNoData signals that the upstream has no data for the requested ticker.
	ErrNoData = errors.New("no data for ticker")

	// ErrUnexpectedShape signals a calendar payload whose shape is neither
	// tabular nor a mapping.
	ErrUnexpectedShape = errors.New("unexpected data type")
)

// TickerService defines business logic for serving ticker data.
//
// Responsibilities:
//   - Delegate lookups to the market-data provider
//   - Detect "no data" conditions and surface them as ErrNoData
//   - Reshape provider payloads into response-ready structures, converting
//     every date/time instant into its ISO-8601 string form
type TickerService interface {
	Info(ctx context.Context, ticker string) (models.Info, error)
	History(ctx context.Context, ticker string, q models.HistoryQuery) ([]dto.HistoryRow, error)
	Calendar(ctx context.Context, ticker string) (map[string]any, error)
}

type tickerService struct {
	provider provider.MarketProvider
}

// NewTickerService constructs a TickerService backed by the given provider.
func NewTickerService(p provider.MarketProvider) TickerService {
	return &tickerService{provider: p}
}

// Info returns the descriptive snapshot for a ticker.
// A mapping without a "symbol" field counts as no data.
func (s *tickerService) Info(ctx context.Context, ticker string) (models.Info, error) {
	info, err := s.provider.Info(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if !info.HasSymbol() {
		return nil, ErrNoData
	}
	return info, nil
}

// History returns the price series selected by q as response-ready rows,
// oldest first, with the time index rendered as the leading Date column.
func (s *tickerService) History(ctx context.Context, ticker string, q models.HistoryQuery) ([]dto.HistoryRow, error) {
	bars, err := s.provider.History(ctx, ticker, q)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	rows := make([]dto.HistoryRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, dto.NewHistoryRow(b))
	}
	return rows, nil
}

// Calendar returns upcoming scheduled events for a ticker as a mapping.
//
// The provider payload's shape is only known at runtime, so the result is
// dispatched over the possible shapes:
//   - models.EventTable: folded into column -> {rowIndex -> value} nesting,
//     with row indices rendered as strings ("0", "1", ...).
//   - map[string]any: normalized in place.
//   - anything else: ErrUnexpectedShape.
//
// Normalization is recursive; instants nested inside slices or sub-mappings
// are converted to ISO-8601 strings as well.
func (s *tickerService) Calendar(ctx context.Context, ticker string) (map[string]any, error) {
	raw, err := s.provider.Calendar(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNoData
	}

	switch v := raw.(type) {
	case models.EventTable:
		if v.Empty() {
			return nil, ErrNoData
		}
		return eventTableToMapping(v), nil
	case map[string]any:
		if len(v) == 0 {
			return nil, ErrNoData
		}
		return normalizeMapping(v), nil
	default:
		return nil, ErrUnexpectedShape
	}
}

// eventTableToMapping folds a tabular calendar payload into the
// column -> {rowIndex -> value} nesting served to clients.
func eventTableToMapping(t models.EventTable) map[string]any {
	out := make(map[string]any, len(t.Columns))
	for _, col := range t.Columns {
		cells := make(map[string]any, len(t.Rows))
		for i, row := range t.Rows {
			val, ok := row[col]
			if !ok {
				continue
			}
			cells[strconv.Itoa(i)] = normalizeValue(val)
		}
		out[col] = cells
	}
	return out
}

func normalizeMapping(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

// normalizeValue converts time.Time values to ISO-8601 strings, recursing
// into mappings and slices so nested instants are converted too.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case map[string]any:
		return normalizeMapping(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
