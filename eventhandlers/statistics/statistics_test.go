package statistics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curve(values ...int64) []equity.Point {
	resp := make([]equity.Point, len(values))
	for i := range values {
		resp[i] = equity.Point{
			Date:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Equity: decimal.NewFromInt(values[i]),
		}
	}
	return resp
}

func TestCalculate(t *testing.T) {
	t.Parallel()
	_, err := Calculate(nil, 0)
	if !errors.Is(err, errReceivedNoData) {
		t.Errorf("expected: %v, received %v", errReceivedNoData, err)
	}

	s, err := Calculate(curve(100, 110), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Periods)
	assert.InDelta(t, 0.1, s.TotalReturn, 1e-12)
	assert.InDelta(t, math.Pow(1.1, 126)-1, s.CAGR, 1e-6)
	assert.Zero(t, s.MaxDrawdown.Drawdown)
	assert.Zero(t, s.CalmarRatio)
	assert.True(t, s.FinalEquity.Equal(decimal.NewFromInt(110)))

	s, err = Calculate(curve(100, 120, 90, 100, 130, 117), 0.02)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s.MaxDrawdown.Drawdown, 1e-12)
	assert.InDelta(t, s.CAGR/0.25, s.CalmarRatio, 1e-9)
	assert.Positive(t, s.AnnualisedVolatility)
	assert.NotZero(t, s.SharpeRatio)

	out, err := s.Serialise()
	require.NoError(t, err)
	assert.Contains(t, out, `"max-drawdown"`)
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Swing{}, MaxDrawdown(nil))
	assert.Zero(t, MaxDrawdown(curve(100, 101, 102)).Drawdown)

	c := curve(100, 120, 90, 100, 130, 117)
	dd := MaxDrawdown(c)
	assert.InDelta(t, 0.25, dd.Drawdown, 1e-12)
	assert.True(t, dd.Highest.Equal(decimal.NewFromInt(120)))
	assert.True(t, dd.Lowest.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, c[1].Date, dd.PeakDate)
	assert.Equal(t, 3, dd.Duration)

	dd = MaxDrawdown(curve(100, 80, 90))
	assert.InDelta(t, 0.2, dd.Drawdown, 1e-12)
	assert.Equal(t, 2, dd.Duration)
}
