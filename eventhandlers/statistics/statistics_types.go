package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TradingDaysPerYear annualises daily figures
const TradingDaysPerYear = 252

var errReceivedNoData = errors.New("received no data")

// Statistic holds the summary figures of one equity curve. Returns and
// drawdowns are fractions, so 0.1 is ten percent
type Statistic struct {
	StartDate            time.Time       `json:"start-date"`
	EndDate              time.Time       `json:"end-date"`
	Periods              int             `json:"periods"`
	StartingEquity       decimal.Decimal `json:"starting-equity"`
	FinalEquity          decimal.Decimal `json:"final-equity"`
	TotalReturn          float64         `json:"total-return"`
	CAGR                 float64         `json:"cagr"`
	AnnualisedVolatility float64         `json:"annualised-volatility"`
	SharpeRatio          float64         `json:"sharpe-ratio"`
	SortinoRatio         float64         `json:"sortino-ratio"`
	MaxDrawdown          Swing           `json:"max-drawdown"`
	CalmarRatio          float64         `json:"calmar-ratio"`
}

// Swing is a peak to trough movement of the equity curve. Duration is the
// number of samples from the peak until the curve recovered to it, or
// until the end of the curve if it never did
type Swing struct {
	Highest  decimal.Decimal `json:"highest"`
	Lowest   decimal.Decimal `json:"lowest"`
	PeakDate time.Time       `json:"peak-date"`
	Drawdown float64         `json:"drawdown"`
	Duration int             `json:"duration"`
}
