package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// quoteSummaryResp mirrors the v10 quoteSummary response (trimmed to the
// calendarEvents module).
type quoteSummaryResp struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents *calendarEvents `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type calendarEvents struct {
	Earnings struct {
		EarningsDate    []rawValue `json:"earningsDate"`
		EarningsAverage rawValue   `json:"earningsAverage"`
		EarningsLow     rawValue   `json:"earningsLow"`
		EarningsHigh    rawValue   `json:"earningsHigh"`
		RevenueAverage  rawValue   `json:"revenueAverage"`
		RevenueLow      rawValue   `json:"revenueLow"`
		RevenueHigh     rawValue   `json:"revenueHigh"`
	} `json:"earnings"`
	ExDividendDate rawValue `json:"exDividendDate"`
	DividendDate   rawValue `json:"dividendDate"`
}

// rawValue is the upstream's number wrapper ({"raw": ..., "fmt": "..."}).
// A zero value means the field was absent from the payload.
type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

func (v rawValue) ok() bool { return v.Fmt != "" || v.Raw != 0 }

func (v rawValue) date() time.Time { return time.Unix(int64(v.Raw), 0).UTC() }

// Calendar fetches upcoming earnings and dividend events for a symbol from
// the quoteSummary endpoint.
//
// Behavior:
//   - Returns a field->value mapping keyed by the upstream display names
//     ("Earnings Date", "Dividend Date", ...). Instants are time.Time;
//     "Earnings Date" is a slice because the upstream may report a window
//     of candidate dates.
//   - Unknown symbols and symbols without scheduled events yield nil; the
//     endpoint reports unknown symbols with a 404 payload.
func (c *Client) Calendar(ctx context.Context, symbol string) (any, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=calendarEvents", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quoteSummary request for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, fmt.Errorf("quoteSummary for %s: status %d: %s", symbol, resp.StatusCode, string(b))
	}

	var payload quoteSummaryResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quoteSummary for %s: %w", symbol, err)
	}
	if e := payload.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("quoteSummary for %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 || payload.QuoteSummary.Result[0].CalendarEvents == nil {
		return nil, nil
	}

	events := buildCalendar(payload.QuoteSummary.Result[0].CalendarEvents)
	if len(events) == 0 {
		return nil, nil
	}
	return events, nil
}

// buildCalendar flattens the calendarEvents module into the display-name
// mapping served to clients. Absent fields are omitted.
func buildCalendar(ev *calendarEvents) map[string]any {
	out := make(map[string]any)

	if n := len(ev.Earnings.EarningsDate); n > 0 {
		dates := make([]any, 0, n)
		for _, d := range ev.Earnings.EarningsDate {
			if d.ok() {
				dates = append(dates, d.date())
			}
		}
		if len(dates) > 0 {
			out["Earnings Date"] = dates
		}
	}
	if v := ev.Earnings.EarningsHigh; v.ok() {
		out["Earnings High"] = v.Raw
	}
	if v := ev.Earnings.EarningsLow; v.ok() {
		out["Earnings Low"] = v.Raw
	}
	if v := ev.Earnings.EarningsAverage; v.ok() {
		out["Earnings Average"] = v.Raw
	}
	if v := ev.Earnings.RevenueHigh; v.ok() {
		out["Revenue High"] = v.Raw
	}
	if v := ev.Earnings.RevenueLow; v.ok() {
		out["Revenue Low"] = v.Raw
	}
	if v := ev.Earnings.RevenueAverage; v.ok() {
		out["Revenue Average"] = v.Raw
	}
	if v := ev.DividendDate; v.ok() {
		out["Dividend Date"] = v.date()
	}
	if v := ev.ExDividendDate; v.ok() {
		out["Ex-Dividend Date"] = v.date()
	}
	return out
}
