package data

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoPriceData is returned when no price is known for an asset at or
	// before the requested instant
	ErrNoPriceData = errors.New("no price data")

	errDuplicateBar = errors.New("duplicate bar date")
	errInvalidBar   = errors.New("invalid bar")
)

// Handler resolves the latest known price of an asset at an instant. It must
// never return a price stamped after that instant
type Handler interface {
	LatestPrice(asset string, t time.Time) (decimal.Decimal, error)
}

// Bar is one daily candle. Prices are expected to be split and dividend
// adjusted already
type Bar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// DailyBars holds daily candles per asset in memory. Each bar's open price
// becomes known at the 14:30 UTC market open and its close price at the
// 21:00 UTC market close
type DailyBars struct {
	bars map[string][]Bar
}
