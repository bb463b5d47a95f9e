package dto

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"

	"yfpulse/internal/domain/models"
)

// HistoryRow represents one historical bar in the shape it crosses the wire:
// the time index restored as a leading "Date" column in RFC 3339 form, and
// prices flattened to plain scalars. The same struct drives both the JSON
// list-of-rows response and the CSV export (via the csv tags).
type HistoryRow struct {
	Date     string  `json:"Date" csv:"Date" example:"2025-06-02T13:30:00Z"`
	Open     float64 `json:"Open" csv:"Open" example:"201.35"`
	High     float64 `json:"High" csv:"High" example:"206.24"`
	Low      float64 `json:"Low" csv:"Low" example:"200.95"`
	Close    float64 `json:"Close" csv:"Close" example:"205.63"`
	AdjClose float64 `json:"Adj Close" csv:"Adj Close" example:"205.63"`
	Volume   int64   `json:"Volume" csv:"Volume" example:"70824800"`
}

// NewHistoryRow converts a provider bar into its transport representation.
func NewHistoryRow(b models.Bar) HistoryRow {
	return HistoryRow{
		Date:     b.Time.UTC().Format(time.RFC3339),
		Open:     b.Open.InexactFloat64(),
		High:     b.High.InexactFloat64(),
		Low:      b.Low.InexactFloat64(),
		Close:    b.Close.InexactFloat64(),
		AdjClose: b.AdjClose.InexactFloat64(),
		Volume:   b.Volume,
	}
}

// HistoryCSV serializes rows to comma-separated text, header included,
// columns in declaration order with Date leading.
func HistoryCSV(rows []HistoryRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, fmt.Errorf("marshal history csv: %w", err)
	}
	return buf.Bytes(), nil
}

// HistoryFilename builds the attachment filename for a CSV download.
//
// The pattern is <ticker>_history_<start-or-period>_<end-or-latest>.csv,
// e.g. AAPL_history_1mo_latest.csv for a default one-month query.
func HistoryFilename(ticker, startOrPeriod, endOrLatest string) string {
	return fmt.Sprintf("%s_history_%s_%s.csv", ticker, startOrPeriod, endOrLatest)
}
