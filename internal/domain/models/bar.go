package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents a single historical price bar as returned by the provider.
//
// Fields:
//   - Time: start of the sampling interval (UTC).
//   - Open/High/Low/Close: prices for the interval.
//   - AdjClose: close adjusted for splits and dividends.
//   - Volume: number of units traded in the interval.
//
// Prices stay as decimals until the transport layer flattens them, so no
// precision is lost between the provider and the response shaping.
type Bar struct {
	Time     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int64
}
