package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"yfpulse/internal/domain/dto"
	"yfpulse/internal/domain/models"
	"yfpulse/internal/logger"
	"yfpulse/internal/service"
)

// Run exports the price history of each requested ticker to a CSV file.
//
// Parameters:
//   - ctx (context.Context): Context controlling cancellation of the export.
//   - svc (service.TickerService): Service used to fetch history rows.
//   - tickers ([]string): Symbols to export; blanks are dropped and duplicates
//     collapse after uppercasing.
//   - period (string): Range preset applied to every ticker (e.g. "1mo", "1y").
//   - interval (string): Bar interval applied to every ticker (e.g. "1d").
//   - dir (string): Output directory, created if it does not exist.
//   - parallel (int): How many tickers to export concurrently (0=auto up to
//     min(4, NumCPU), max 8).
//
// Behavior:
//   - Writes one file per ticker named <ticker>_history_<period>_latest.csv.
//   - Tickers with no data are logged and skipped; they do not fail the run.
//   - If any ticker fails, the remaining exports are cancelled and that error
//     is returned.
//
// Returns:
//   - error: first error encountered (if any).
func Run(ctx context.Context, svc service.TickerService, tickers []string, period, interval, dir string, parallel int) error {
	list := normalizeTickers(tickers)
	if len(list) == 0 {
		return fmt.Errorf("no tickers to export")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	logger.L().Info().Int("tickers", len(list)).Str("dir", dir).Str("period", period).Str("interval", interval).Msg("export start")

	// Concurrency: default to min(4, NumCPU), or use provided clamp(1..8)
	maxParallel := 4
	if parallel > 0 {
		if parallel > 8 {
			parallel = 8
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("max_parallel", maxParallel).Msg("export configured")

	query := models.HistoryQuery{Period: period, Interval: interval}

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, ticker := range list {
		idx := i
		tk := ticker
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			logger.L().Info().Int("idx", idx+1).Int("total", len(list)).Str("ticker", tk).Msg("ticker start")

			rows, err := svc.History(gctx, tk, query)
			if errors.Is(err, service.ErrNoData) {
				logger.L().Info().Int("idx", idx+1).Int("total", len(list)).Str("ticker", tk).Bool("skipped", true).Msg("no data for ticker")
				return nil
			}
			if err != nil {
				logger.L().Error().Str("ticker", tk).Dur("elapsed", time.Since(start)).Err(err).Msg("ticker failed")
				return fmt.Errorf("ticker %s: %w", tk, err)
			}

			data, err := dto.HistoryCSV(rows)
			if err != nil {
				logger.L().Error().Str("ticker", tk).Err(err).Msg("encode csv failed")
				return fmt.Errorf("ticker %s: %w", tk, err)
			}

			name := dto.HistoryFilename(tk, period, "latest")
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				logger.L().Error().Str("ticker", tk).Str("file", name).Err(err).Msg("write failed")
				return fmt.Errorf("ticker %s: write %s: %w", tk, name, err)
			}

			logger.L().Info().Int("idx", idx+1).Int("total", len(list)).Str("ticker", tk).Int("rows", len(rows)).Str("file", name).Dur("elapsed", time.Since(start)).Msg("ticker done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return nil
}

// normalizeTickers trims, uppercases, and de-duplicates the requested
// symbols, preserving first-seen order.
func normalizeTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	var out []string

	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
