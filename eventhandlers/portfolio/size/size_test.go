package size

import (
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func f64(v float64) *float64 {
	return &v
}

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestNew(t *testing.T) {
	t.Parallel()
	p, err := New("long_only", f64(0.05), nil)
	require.NoError(t, err)
	assert.Equal(t, LongOnly{CashBufferPercentage: 0.05}, p)
	p, err = New("Leveraged", nil, f64(2))
	require.NoError(t, err)
	assert.Equal(t, Leveraged{GrossLeverage: 2}, p)

	_, err = New(LongOnlyStr, nil, f64(2))
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.ErrorIs(t, err, errMissingCashBuffer)
	_, err = New(LeveragedStr, f64(0.05), nil)
	assert.ErrorIs(t, err, errMissingGrossLeverage)
	_, err = New("kelly", nil, nil)
	assert.ErrorIs(t, err, errUnknownPolicy)
	_, err = New(LongOnlyStr, f64(1), nil)
	assert.ErrorIs(t, err, errInvalidCashBuffer)
	_, err = New(LeveragedStr, nil, f64(-1))
	assert.ErrorIs(t, err, errInvalidGrossLeverage)
}

func TestLongOnlyWeights(t *testing.T) {
	t.Parallel()
	w, err := LongOnly{}.Weights(map[string]float64{"SPY": 3, "AGG": 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, w["SPY"], 1e-12)
	assert.InDelta(t, 0.25, w["AGG"], 1e-12)

	w, err = LongOnly{}.Weights(map[string]float64{"SPY": 0})
	require.NoError(t, err)
	assert.Zero(t, w["SPY"])

	_, err = LongOnly{}.Weights(map[string]float64{"SPY": -1})
	assert.ErrorIs(t, err, errNegativeWeight)
}

func TestLeveragedWeights(t *testing.T) {
	t.Parallel()
	w, err := Leveraged{GrossLeverage: 2}.Weights(map[string]float64{"SPY": 3, "TLT": -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, w["SPY"], 1e-12)
	assert.InDelta(t, -0.25, w["TLT"], 1e-12)
}

func TestCappedWeights(t *testing.T) {
	t.Parallel()
	w, err := CappedWeights(LongOnly{}, map[string]float64{"SPY": 0.5, "AGG": 0.25})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"SPY": 0.5, "AGG": 0.25}, w)

	w, err = CappedWeights(Leveraged{GrossLeverage: 2}, map[string]float64{"SPY": 3, "TLT": -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, w["SPY"], 1e-12)
	assert.InDelta(t, -0.25, w["TLT"], 1e-12)

	_, err = CappedWeights(LongOnly{}, map[string]float64{"SPY": -0.5})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, errNegativeWeight)
}

func TestTargetQuantities(t *testing.T) {
	t.Parallel()
	prices := map[string]decimal.Decimal{"SPY": d(300), "AGG": d(110)}
	q, err := TargetQuantities(LongOnly{CashBufferPercentage: 0.05}, map[string]float64{"SPY": 0.6, "AGG": 0.4}, d(100000), prices, nil)
	require.NoError(t, err)
	// 95000 * 0.6 / 300 = 190, 95000 * 0.4 / 110 = 345.45
	assert.True(t, q["SPY"].Equal(d(190)), q["SPY"].String())
	assert.True(t, q["AGG"].Equal(d(345)), q["AGG"].String())

	withFee := fee.FixedPlusPercent{Fixed: d(2), Percent: d(0.002)}
	q, err = TargetQuantities(LongOnly{CashBufferPercentage: 0.05}, map[string]float64{"SPY": 0.6, "AGG": 0.4}, d(100000), prices, withFee)
	require.NoError(t, err)
	// 57000 - (2 + 0.002 * 57000) = 56884 / 300 = 189.6
	assert.True(t, q["SPY"].Equal(d(189)), q["SPY"].String())

	q, err = TargetQuantities(Leveraged{GrossLeverage: 2}, map[string]float64{"SPY": 0.75, "AGG": -0.25}, d(100000), prices, nil)
	require.NoError(t, err)
	assert.True(t, q["SPY"].Equal(d(500)))
	assert.True(t, q["AGG"].Equal(d(-454)), q["AGG"].String())

	_, err = TargetQuantities(LongOnly{}, map[string]float64{"QQQ": 1}, d(1000), prices, nil)
	assert.ErrorIs(t, err, errMissingPrice)

	q, err = TargetQuantities(LongOnly{}, map[string]float64{"QQQ": 0}, d(1000), prices, nil)
	require.NoError(t, err)
	assert.True(t, q["QQQ"].IsZero())
}

func TestCashBufferIsNeverBreached(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		buffer := float64(rapid.IntRange(0, 99).Draw(rt, "bufferPct")) / 100
		policy := LongOnly{CashBufferPercentage: buffer}
		equity := decimal.NewFromInt(rapid.Int64Range(0, 10000000).Draw(rt, "equity"))
		assets := []string{"A", "B", "C", "D"}
		signals := make(map[string]float64)
		prices := make(map[string]decimal.Decimal)
		for _, a := range assets {
			signals[a] = float64(rapid.IntRange(0, 100).Draw(rt, "signal"+a))
			prices[a] = decimal.New(rapid.Int64Range(1, 1000000).Draw(rt, "cents"+a), -2)
		}
		fm := fee.FixedPlusPercent{Fixed: d(1), Percent: d(0.001)}
		w, err := policy.Weights(signals)
		if err != nil {
			rt.Fatal(err)
		}
		q, err := TargetQuantities(policy, w, equity, prices, fm)
		if err != nil {
			rt.Fatal(err)
		}
		committed := decimal.Zero
		for a, qty := range q {
			if qty.IsNegative() {
				rt.Fatalf("long only produced a short in %s", a)
			}
			committed = committed.Add(qty.Mul(prices[a])).Add(fm.CalculateFee(qty, prices[a]))
		}
		limit := equity.Mul(decimal.NewFromFloat(1 - buffer))
		if committed.GreaterThan(limit) {
			rt.Fatalf("committed %s exceeds %s", committed, limit)
		}
	})
}

func TestGenerateOrders(t *testing.T) {
	t.Parallel()
	tt := time.Date(2020, 1, 8, 21, 0, 0, 0, time.UTC)
	current := map[string]decimal.Decimal{"SPY": d(10), "AGG": d(5), "IEF": d(3)}
	target := map[string]decimal.Decimal{"SPY": d(4), "AGG": d(5), "TLT": d(7), "GLD": d(2)}
	orders, err := GenerateOrders(tt, "000001", current, target)
	require.NoError(t, err)
	require.Len(t, orders, 4)
	got := make([]string, len(orders))
	for i := range orders {
		got[i] = orders[i].Asset + ":" + orders[i].Quantity.String()
		assert.Equal(t, tt, orders[i].Time)
		assert.Equal(t, "000001", orders[i].PortfolioID)
	}
	assert.Equal(t, []string{"IEF:-3", "SPY:-6", "GLD:2", "TLT:7"}, got)

	orders, err = GenerateOrders(tt, "000001", current, current)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
