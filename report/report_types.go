package report

import (
	"errors"

	"github.com/replaytrader/replaytrader/eventhandlers/broker"
	"github.com/replaytrader/replaytrader/eventhandlers/statistics"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/shopspring/decimal"
)

var (
	errNilStatistics = errors.New("nil statistics")
	errNoEquity      = errors.New("equity curve is empty")
)

// Data holds everything a finished session produced for reporting
type Data struct {
	Nickname        string
	Goal            string
	Statistics      *statistics.Statistic
	EquityCurve     []equity.Point
	Allocations     []equity.Allocation
	Rejections      []broker.Rejection
	// RealisedPnL and TotalCommission include positions closed during the run
	RealisedPnL     decimal.Decimal
	TotalCommission decimal.Decimal

	EquityChart     *Chart
	DrawdownChart   *Chart
	AllocationChart *Chart
}

// Chart holds chart data along with an axis type for the html template
type Chart struct {
	AxisType string
	Data     []ChartLine
}

// ChartLine holds chart plot data for one named line
type ChartLine struct {
	Name      string
	LinePlots []LinePlot
}

// LinePlot is a single value at a point in time
type LinePlot struct {
	Value     float64
	UnixMilli int64
}
