// Package yahoo implements the market-data provider contract on top of the
// Yahoo Finance query API, using piquette/finance-go for quotes and price
// history and a small quoteSummary client for calendar events.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"yfpulse/config"
	"yfpulse/internal/domain/models"
	"yfpulse/internal/logger"
	"yfpulse/internal/provider"
)

// Indirections over package-level dependencies so unit tests can stub
// network calls and the clock.
var (
	equityGetter = equity.Get
	chartBars    = fetchChartBars
	nowFunc      = time.Now
)

// Client is a stateless Yahoo Finance provider. A single value is safe for
// concurrent use; every call binds its symbol locally.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

var _ provider.MarketProvider = (*Client)(nil)

// New creates a Client configured from cfg.
//
// Parameters:
//   - cfg (config.YahooConfig): base URL, HTTP timeout, and User-Agent for
//     upstream calls.
//
// Returns:
//   - *Client: a ready-to-use provider.
func New(cfg config.YahooConfig) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

// Info fetches the descriptive snapshot for a symbol and flattens it into a
// field->value mapping keyed by the upstream camelCase field names.
//
// Behavior:
//   - An unknown symbol yields an empty mapping and a nil error; the quote
//     endpoint reports unknown symbols as an empty result set.
//   - The underlying quote call does not honor cancellation mid-flight, so
//     ctx is only checked up front.
func (c *Client) Info(ctx context.Context, symbol string) (models.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := equityGetter(symbol)
	if err != nil {
		return nil, fmt.Errorf("quote lookup for %s: %w", symbol, err)
	}
	if eq == nil {
		return models.Info{}, nil
	}
	return flattenEquity(eq), nil
}

// History fetches the price series selected by q, oldest first.
//
// Behavior:
//   - Explicit Start/End bounds win over Period; with only one bound set the
//     other defaults to the epoch (start) or now (end).
//   - Without bounds, Period is translated into a start instant by
//     periodStart.
//   - The chart API reports unknown or delisted symbols as a payload error
//     rather than an empty series; that case is translated into zero bars.
func (c *Client) History(ctx context.Context, symbol string, q models.HistoryQuery) ([]models.Bar, error) {
	now := nowFunc().UTC()

	var start, end time.Time
	if q.HasBounds() {
		start = time.Unix(0, 0).UTC()
		if q.Start != nil {
			start = *q.Start
		}
		end = now
		if q.End != nil {
			end = *q.End
		}
	} else {
		var err error
		start, err = periodStart(q.Period, now)
		if err != nil {
			return nil, err
		}
		end = now
	}

	params := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(q.Interval),
	}

	raw, err := chartBars(params)
	if err != nil {
		if len(raw) == 0 && isNoChartData(err) {
			logger.L().Debug().
				Str("symbol", symbol).
				Err(err).
				Msg("chart api returned no data")
			return nil, nil
		}
		return nil, fmt.Errorf("chart lookup for %s: %w", symbol, err)
	}

	bars := make([]models.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, models.Bar{
			Time:     time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   int64(b.Volume),
		})
	}
	return bars, nil
}

// CloseIdleConnections releases pooled upstream connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// Ping reports whether the upstream host answers HTTP at all. Any response,
// including an error status, counts as reachable; only transport failures
// are returned.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// fetchChartBars drains a chart iterator into a slice so the call can be
// stubbed as a single function in tests.
func fetchChartBars(params *chart.Params) ([]finance.ChartBar, error) {
	iter := chart.Get(params)
	var bars []finance.ChartBar
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	return bars, iter.Err()
}

// isNoChartData reports whether err carries the chart API's in-payload
// "no data" signal ("No data found, symbol may be delisted").
func isNoChartData(err error) bool {
	return err != nil && strings.Contains(err.Error(), "No data found")
}

// flattenEquity maps the typed quote struct back onto the upstream camelCase
// field names, mirroring the flat mapping the quote endpoint serves.
func flattenEquity(eq *finance.Equity) models.Info {
	return models.Info{
		"symbol":                      eq.Symbol,
		"shortName":                   eq.ShortName,
		"longName":                    eq.LongName,
		"currency":                    eq.CurrencyID,
		"exchange":                    eq.ExchangeID,
		"fullExchangeName":            eq.FullExchangeName,
		"quoteType":                   string(eq.QuoteType),
		"marketState":                 string(eq.MarketState),
		"regularMarketPrice":          eq.RegularMarketPrice,
		"regularMarketChange":         eq.RegularMarketChange,
		"regularMarketChangePercent":  eq.RegularMarketChangePercent,
		"regularMarketOpen":           eq.RegularMarketOpen,
		"regularMarketDayHigh":        eq.RegularMarketDayHigh,
		"regularMarketDayLow":         eq.RegularMarketDayLow,
		"regularMarketVolume":         eq.RegularMarketVolume,
		"regularMarketPreviousClose":  eq.RegularMarketPreviousClose,
		"regularMarketTime":           eq.RegularMarketTime,
		"bid":                         eq.Bid,
		"ask":                         eq.Ask,
		"fiftyTwoWeekLow":             eq.FiftyTwoWeekLow,
		"fiftyTwoWeekHigh":            eq.FiftyTwoWeekHigh,
		"fiftyDayAverage":             eq.FiftyDayAverage,
		"twoHundredDayAverage":        eq.TwoHundredDayAverage,
		"averageDailyVolume3Month":    eq.AverageDailyVolume3Month,
		"marketCap":                   eq.MarketCap,
		"forwardPE":                   eq.ForwardPE,
		"priceToBook":                 eq.PriceToBook,
		"bookValue":                   eq.BookValue,
		"epsTrailingTwelveMonths":     eq.EpsTrailingTwelveMonths,
		"epsForward":                  eq.EpsForward,
		"sharesOutstanding":           eq.SharesOutstanding,
		"trailingAnnualDividendRate":  eq.TrailingAnnualDividendRate,
		"trailingAnnualDividendYield": eq.TrailingAnnualDividendYield,
		"earningsTimestamp":           eq.EarningsTimestamp,
		"earningsTimestampStart":      eq.EarningsTimestampStart,
		"earningsTimestampEnd":        eq.EarningsTimestampEnd,
		"dividendDate":                eq.DividendDate,
	}
}
