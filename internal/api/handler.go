package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"yfpulse/internal/domain/dto"
	"yfpulse/internal/domain/models"
	"yfpulse/internal/service"
)

// Handler provides HTTP handlers for the ticker data endpoints.
//
// Responsibilities:
//   - Validate incoming path and query parameters
//   - Interact with the service layer for data access
//   - Translate service results and sentinel errors into HTTP responses
//   - Serve history rows as JSON or as a CSV attachment
type Handler struct {
	svc service.TickerService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.TickerService): Service dependency used for ticker lookups.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.TickerService) *Handler {
	return &Handler{svc: svc}
}

// GetInfo handles GET /info/{ticker} requests.
//
// Responses:
//   - 200 OK: Flat field->value mapping describing the instrument.
//   - 400 Bad Request: Blank ticker.
//   - 404 Not Found: Upstream has no information for the ticker.
//   - 500 Internal Server Error: Upstream or transport failure.
//
// GetInfo godoc
// @Summary      Get instrument information
// @Description  Returns the descriptive snapshot for a ticker as a flat field->value mapping
// @Tags         ticker
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  models.Info        "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /info/{ticker} [get]
func (h *Handler) GetInfo(c *gin.Context) {
	// ─── Validate "ticker" param ──────────────────────────────
	ticker, ok := tickerParam(c)
	if !ok {
		return
	}

	// ─── Query service (with request context) ─────────────────
	info, err := h.svc.Info(c.Request.Context(), ticker)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Could not find information for ticker: "+ticker, nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("An error occurred", err))
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetHistory handles GET /history/{ticker} requests.
//
// Query Parameters:
//   - period (string, optional): Lookback window, defaults to "1mo".
//   - interval (string, optional): Sampling granularity, defaults to "1d".
//   - start/end (string, optional): Explicit bounds in YYYY-MM-DD; when set
//     they win over period.
//   - format (string, optional): "json" (default) or "csv", case-insensitive.
//
// Responses:
//   - 200 OK: JSON list of rows, or a text/csv attachment when format=csv.
//   - 400 Bad Request: Blank ticker, unknown format, or malformed date.
//   - 404 Not Found: Upstream returned zero rows.
//   - 500 Internal Server Error: Upstream or transport failure.
//
// GetHistory godoc
// @Summary      Get price history
// @Description  Returns historical price rows for a ticker as JSON or CSV
// @Tags         ticker
// @Produce      json
// @Produce      text/csv
// @Param        ticker    path      string  true   "Ticker symbol" example(AAPL)
// @Param        period    query     string  false  "Lookback period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)" example(1mo)
// @Param        interval  query     string  false  "Sampling interval (1m, 1h, 1d, 1wk, 1mo, ...)" example(1d)
// @Param        start     query     string  false  "Start date in YYYY-MM-DD" example(2024-01-02)
// @Param        end       query     string  false  "End date in YYYY-MM-DD" example(2024-02-10)
// @Param        format    query     string  false  "Output format: json or csv" example(json)
// @Success      200       {array}   dto.HistoryRow     "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse  "Not Found"
// @Failure      500       {object}  dto.ErrorResponse  "Internal Error"
// @Router       /history/{ticker} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	// ─── Validate "ticker" param ──────────────────────────────
	ticker, ok := tickerParam(c)
	if !ok {
		return
	}

	// ─── Validate "format" param ──────────────────────────────
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid format specified. Choose 'json' or 'csv'.", nil))
		return
	}

	// ─── Parse optional "start"/"end" params ──────────────────
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, ok := dateParam(c, "start", startStr)
	if !ok {
		return
	}
	end, ok := dateParam(c, "end", endStr)
	if !ok {
		return
	}

	q := models.HistoryQuery{
		Period:   c.DefaultQuery("period", "1mo"),
		Interval: c.DefaultQuery("interval", "1d"),
		Start:    start,
		End:      end,
	}

	// ─── Query service (with request context) ─────────────────
	rows, err := h.svc.History(c.Request.Context(), ticker, q)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Could not find history for ticker: "+ticker+" with specified parameters.", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("An error occurred while fetching history", err))
		return
	}

	// ─── Serialize in the requested format ────────────────────
	if format == "csv" {
		data, err := dto.HistoryCSV(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("An error occurred while fetching history", err))
			return
		}

		startOrPeriod := q.Period
		if startStr != "" {
			startOrPeriod = startStr
		}
		endOrLatest := "latest"
		if endStr != "" {
			endOrLatest = endStr
		}

		c.Header("Content-Disposition", "attachment; filename="+dto.HistoryFilename(ticker, startOrPeriod, endOrLatest))
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetCalendar handles GET /calendar/{ticker} requests.
//
// Responses:
//   - 200 OK: Mapping of upcoming scheduled events with instants rendered as
//     ISO-8601 strings.
//   - 400 Bad Request: Blank ticker.
//   - 404 Not Found: No calendar data for the ticker.
//   - 500 Internal Server Error: Unexpected payload shape, or upstream failure.
//
// GetCalendar godoc
// @Summary      Get scheduled events
// @Description  Returns upcoming earnings and dividend events for a ticker
// @Tags         ticker
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  map[string]any     "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /calendar/{ticker} [get]
func (h *Handler) GetCalendar(c *gin.Context) {
	// ─── Validate "ticker" param ──────────────────────────────
	ticker, ok := tickerParam(c)
	if !ok {
		return
	}

	// ─── Query service (with request context) ─────────────────
	events, err := h.svc.Calendar(c.Request.Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoData):
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Could not find calendar information for ticker: "+ticker, nil))
		case errors.Is(err, service.ErrUnexpectedShape):
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Unexpected data type received for calendar.", err))
		default:
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("An error occurred while fetching calendar data", err))
		}
		return
	}

	c.JSON(http.StatusOK, events)
}

// tickerParam extracts and validates the ticker path parameter.
// On failure it writes the 400 response and reports ok=false.
func tickerParam(c *gin.Context) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required", nil))
		return "", false
	}
	return ticker, true
}

// dateParam parses an optional YYYY-MM-DD query value.
// On failure it writes the 400 response and reports ok=false.
func dateParam(c *gin.Context, name, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid "+name+" date, expected YYYY-MM-DD", err))
		return nil, false
	}
	return &parsed, true
}
