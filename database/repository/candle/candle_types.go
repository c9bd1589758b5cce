package candle

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errInvalidInput = errors.New("asset, start & end cannot be empty")
	errNoCandleData = errors.New("no candle data provided")
	// ErrNoCandleDataFound returns when no candle data is found
	ErrNoCandleDataFound = errors.New("no candle data found")
)

// Item holds the daily candles of one asset
type Item struct {
	Asset   string
	Candles []Candle
}

// Candle holds one trading day
type Candle struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}
