package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"yfpulse/internal/domain/models"
	"yfpulse/internal/provider"
)

type stubProvider struct {
	info    models.Info
	infoErr error
	bars    []models.Bar
	barsErr error
	cal     any
	calErr  error
}

var _ provider.MarketProvider = (*stubProvider)(nil)

func (s *stubProvider) Info(_ context.Context, _ string) (models.Info, error) {
	return s.info, s.infoErr
}

func (s *stubProvider) History(_ context.Context, _ string, _ models.HistoryQuery) ([]models.Bar, error) {
	return s.bars, s.barsErr
}

func (s *stubProvider) Calendar(_ context.Context, _ string) (any, error) {
	return s.cal, s.calErr
}

func (s *stubProvider) Ping(_ context.Context) error { return nil }

func TestInfo_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		prov    *stubProvider
		wantErr error
	}{
		{
			name: "success",
			prov: &stubProvider{info: models.Info{"symbol": "AAPL", "shortName": "Apple Inc."}},
		},
		{
			name:    "empty mapping",
			prov:    &stubProvider{info: models.Info{}},
			wantErr: ErrNoData,
		},
		{
			name:    "missing symbol key",
			prov:    &stubProvider{info: models.Info{"shortName": "Orphan"}},
			wantErr: ErrNoData,
		},
		{
			name:    "provider error",
			prov:    &stubProvider{infoErr: errors.New("boom")},
			wantErr: errors.New("boom"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewTickerService(tc.prov)
			out, err := svc.Info(context.Background(), "AAPL")
			if tc.wantErr == nil {
				if err != nil || out == nil {
					t.Fatalf("unexpected: out=%+v err=%v", out, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v", tc.wantErr)
			}
			if errors.Is(tc.wantErr, ErrNoData) && !errors.Is(err, ErrNoData) {
				t.Fatalf("expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestHistory_ConvertsRows(t *testing.T) {
	ts := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	prov := &stubProvider{bars: []models.Bar{
		{
			Time:     ts,
			Open:     decimal.NewFromFloat(10.5),
			High:     decimal.NewFromFloat(11.2),
			Low:      decimal.NewFromFloat(10.1),
			Close:    decimal.NewFromFloat(11.0),
			AdjClose: decimal.NewFromFloat(10.9),
			Volume:   42,
		},
	}}

	svc := NewTickerService(prov)
	rows, err := svc.History(context.Background(), "AAPL", models.HistoryQuery{Period: "1mo", Interval: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len=%d, want 1", len(rows))
	}
	r := rows[0]
	if r.Date != "2025-03-14T00:00:00Z" {
		t.Fatalf("date=%q", r.Date)
	}
	if r.Open != 10.5 || r.Close != 11.0 || r.AdjClose != 10.9 {
		t.Fatalf("prices=%+v", r)
	}
	if r.Volume != 42 {
		t.Fatalf("volume=%d", r.Volume)
	}
}

func TestHistory_NoRows(t *testing.T) {
	svc := NewTickerService(&stubProvider{})
	if _, err := svc.History(context.Background(), "AAPL", models.HistoryQuery{Period: "1mo"}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestHistory_ProviderError(t *testing.T) {
	svc := NewTickerService(&stubProvider{barsErr: errors.New("boom")})
	_, err := svc.History(context.Background(), "AAPL", models.HistoryQuery{Period: "1mo"})
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected plain error, got %v", err)
	}
}

func TestCalendar_MappingShape(t *testing.T) {
	div := time.Date(2024, 11, 14, 0, 0, 0, 0, time.UTC)
	earnings := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	prov := &stubProvider{cal: map[string]any{
		"Dividend Date":    div,
		"Earnings Date":    []any{earnings},
		"Earnings Average": 2.35,
	}}

	svc := NewTickerService(prov)
	out, err := svc.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["Dividend Date"] != "2024-11-14T00:00:00Z" {
		t.Fatalf("Dividend Date=%v", out["Dividend Date"])
	}
	dates, ok := out["Earnings Date"].([]any)
	if !ok || len(dates) != 1 {
		t.Fatalf("Earnings Date=%v", out["Earnings Date"])
	}
	if dates[0] != "2025-01-28T00:00:00Z" {
		t.Fatalf("nested instant not normalized: %v", dates[0])
	}
	if out["Earnings Average"] != 2.35 {
		t.Fatalf("Earnings Average=%v", out["Earnings Average"])
	}
}

func TestCalendar_TabularShape(t *testing.T) {
	earnings := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	prov := &stubProvider{cal: models.EventTable{
		Columns: []string{"Earnings Date"},
		Rows:    []map[string]any{{"Earnings Date": earnings}},
	}}

	svc := NewTickerService(prov)
	out, err := svc.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	col, ok := out["Earnings Date"].(map[string]any)
	if !ok {
		t.Fatalf("expected row-keyed nesting, got %T", out["Earnings Date"])
	}
	if col["0"] != "2025-01-28T00:00:00Z" {
		t.Fatalf("cell=%v", col["0"])
	}
}

func TestCalendar_TabularMultiRow(t *testing.T) {
	d1 := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)
	prov := &stubProvider{cal: models.EventTable{
		Columns: []string{"Earnings Date", "EPS Estimate"},
		Rows: []map[string]any{
			{"Earnings Date": d1, "EPS Estimate": 2.35},
			{"Earnings Date": d2},
		},
	}}

	svc := NewTickerService(prov)
	out, err := svc.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	col := out["Earnings Date"].(map[string]any)
	if col["0"] != "2025-01-28T00:00:00Z" || col["1"] != "2025-04-29T00:00:00Z" {
		t.Fatalf("cells=%v", col)
	}
	eps := out["EPS Estimate"].(map[string]any)
	if len(eps) != 1 || eps["0"] != 2.35 {
		t.Fatalf("eps=%v", eps)
	}
}

func TestCalendar_NoData(t *testing.T) {
	cases := []struct {
		name string
		prov *stubProvider
	}{
		{name: "nil payload", prov: &stubProvider{cal: nil}},
		{name: "empty mapping", prov: &stubProvider{cal: map[string]any{}}},
		{name: "empty table", prov: &stubProvider{cal: models.EventTable{Columns: []string{"Earnings Date"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewTickerService(tc.prov)
			if _, err := svc.Calendar(context.Background(), "AAPL"); !errors.Is(err, ErrNoData) {
				t.Fatalf("expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestCalendar_UnexpectedShape(t *testing.T) {
	svc := NewTickerService(&stubProvider{cal: []string{"not", "a", "mapping"}})
	if _, err := svc.Calendar(context.Background(), "AAPL"); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestCalendar_ProviderError(t *testing.T) {
	svc := NewTickerService(&stubProvider{calErr: errors.New("boom")})
	_, err := svc.Calendar(context.Background(), "AAPL")
	if err == nil || errors.Is(err, ErrNoData) || errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected plain error, got %v", err)
	}
}
