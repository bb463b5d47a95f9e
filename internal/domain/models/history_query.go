package models

import "time"

// HistoryQuery carries the parameters of a historical-data request.
//
// Fields:
//   - Period: relative lookback window ("1d", "5d", "1mo", ..., "ytd", "max").
//   - Interval: sampling granularity ("1m", "1h", "1d", "1wk", ...).
//   - Start/End: optional explicit calendar bounds.
//
// When Start or End is set the explicit bounds win and Period is ignored,
// matching the upstream API's precedence.
type HistoryQuery struct {
	Period   string
	Interval string
	Start    *time.Time
	End      *time.Time
}

// HasBounds reports whether an explicit date range was requested.
func (q HistoryQuery) HasBounds() bool {
	return q.Start != nil || q.End != nil
}
