package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const calendarPayload = `{
  "quoteSummary": {
    "result": [
      {
        "calendarEvents": {
          "maxAge": 1,
          "earnings": {
            "earningsDate": [
              {"raw": 1700000000, "fmt": "2023-11-14"},
              {"raw": 1700400000, "fmt": "2023-11-19"}
            ],
            "earningsAverage": {"raw": 1.6, "fmt": "1.60"},
            "earningsLow": {"raw": 1.5, "fmt": "1.50"},
            "earningsHigh": {"raw": 1.7, "fmt": "1.70"},
            "revenueAverage": {"raw": 94058700000, "fmt": "94.06B"},
            "revenueLow": {"raw": 92000000000, "fmt": "92B"},
            "revenueHigh": {"raw": 96000000000, "fmt": "96B"}
          },
          "exDividendDate": {"raw": 1699574400, "fmt": "2023-11-10"},
          "dividendDate": {"raw": 1700006400, "fmt": "2023-11-15"}
        }
      }
    ],
    "error": null
  }
}`

func TestCalendar_FullPayload(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Query().Get("modules") != "calendarEvents" {
			t.Errorf("modules=%q", r.URL.Query().Get("modules"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(calendarPayload))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/v10/finance/quoteSummary/AAPL") {
		t.Fatalf("path=%q", gotPath)
	}
	if gotUA != "yfpulse-test/1.0" {
		t.Fatalf("user-agent=%q", gotUA)
	}

	events, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", out)
	}

	dates, ok := events["Earnings Date"].([]any)
	if !ok || len(dates) != 2 {
		t.Fatalf("Earnings Date=%v", events["Earnings Date"])
	}
	first, ok := dates[0].(time.Time)
	if !ok || !first.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Fatalf("first earnings date=%v", dates[0])
	}

	if events["Earnings Average"] != 1.6 {
		t.Fatalf("Earnings Average=%v", events["Earnings Average"])
	}
	if events["Revenue High"] != 96000000000.0 {
		t.Fatalf("Revenue High=%v", events["Revenue High"])
	}

	div, ok := events["Dividend Date"].(time.Time)
	if !ok || !div.Equal(time.Unix(1700006400, 0).UTC()) {
		t.Fatalf("Dividend Date=%v", events["Dividend Date"])
	}
	if _, ok := events["Ex-Dividend Date"].(time.Time); !ok {
		t.Fatalf("Ex-Dividend Date=%v", events["Ex-Dividend Date"])
	}
}

func TestCalendar_UnknownSymbol404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOPE"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Calendar(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
}

func TestCalendar_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
}

func TestCalendar_NoScheduledEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"calendarEvents":{"maxAge":1,"earnings":{"earningsDate":[]}}}],"error":null}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Calendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
}

func TestCalendar_PayloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Internal Error","description":"upstream exploded"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Calendar(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCalendar_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("nope"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Calendar(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCalendar_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Calendar(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error")
	}
}
