package signals

import (
	"errors"
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/universe"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closeAt(day int) time.Time {
	return time.Date(2020, 1, day, 21, 0, 0, 0, time.UTC)
}

func setup(t *testing.T, lookbacks ...int) *Collection {
	t.Helper()
	d := data.NewDailyBars()
	var bars []data.Bar
	for i, c := range []int64{100, 110, 121} {
		bars = append(bars, data.Bar{
			Date:  time.Date(2020, 1, []int{2, 3, 6}[i], 0, 0, 0, 0, time.UTC),
			Open:  decimal.NewFromInt(c),
			Close: decimal.NewFromInt(c),
		})
	}
	require.NoError(t, d.Load("SPY", bars))
	u, err := universe.NewStatic("SPY", "AGG")
	require.NoError(t, err)
	c, err := New(d, u, lookbacks...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil, nil)
	if !errors.Is(err, common.ErrNilArguments) {
		t.Errorf("expected: %v, received %v", common.ErrNilArguments, err)
	}
	u, err := universe.NewStatic("SPY")
	require.NoError(t, err)
	_, err = New(data.NewDailyBars(), u, 0)
	if !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("expected: %v, received %v", common.ErrConfiguration, err)
	}
	c, err := New(data.NewDailyBars(), u, 3, 12)
	require.NoError(t, err)
	assert.Equal(t, 13, c.bufferSize)
	assert.ErrorIs(t, c.Require(-1), errInvalidLookback)
	require.NoError(t, c.Require(20))
	assert.Equal(t, 21, c.bufferSize)
	require.NoError(t, c.Require(2))
	assert.Equal(t, 21, c.bufferSize)
}

func TestUpdateAndIndicators(t *testing.T) {
	t.Parallel()
	c := setup(t, 2)
	for _, d := range []int{2, 3, 6} {
		require.NoError(t, c.Update(closeAt(d)))
	}
	// same instant twice is ignored
	require.NoError(t, c.Update(closeAt(6)))
	assert.Equal(t, []float64{100, 110, 121}, c.Closes("SPY"))
	assert.Empty(t, c.Closes("AGG"))

	m, err := c.Momentum("SPY", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, m, 1e-9)
	m, err = c.Momentum("SPY", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, m, 1e-9)

	sma, err := c.SMA("SPY", 3)
	require.NoError(t, err)
	assert.InDelta(t, 331.0/3, sma, 1e-9)

	_, err = c.Momentum("SPY", 3)
	assert.ErrorIs(t, err, errInsufficientHistory)
	_, err = c.SMA("AGG", 1)
	assert.ErrorIs(t, err, errUnknownAsset)
	_, err = c.SMA("SPY", 0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBufferIsBounded(t *testing.T) {
	t.Parallel()
	c := setup(t, 1)
	for _, d := range []int{2, 3, 6} {
		require.NoError(t, c.Update(closeAt(d)))
	}
	assert.Equal(t, []float64{110, 121}, c.Closes("SPY"))
}
