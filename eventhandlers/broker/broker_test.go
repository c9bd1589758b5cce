package broker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/replaytrader/replaytrader/eventtypes/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fixedPrices map[string]decimal.Decimal

func (f fixedPrices) LatestPrice(asset string, _ time.Time) (decimal.Decimal, error) {
	p, ok := f[asset]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s", data.ErrNoPriceData, asset)
	}
	return p, nil
}

var (
	wednesdayClose = time.Date(2020, 1, 8, 21, 0, 0, 0, time.UTC)
	prices         = fixedPrices{"SPY": decimal.NewFromInt(100), "AGG": decimal.NewFromInt(50)}
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func newFunded(t *testing.T, s Settings, e exchange.Exchange, feeModel any) *Broker {
	t.Helper()
	b, err := New(s, prices, e, feeModel)
	require.NoError(t, err)
	require.NoError(t, b.SubscribeFundsToAccount(d(100000)))
	require.NoError(t, b.CreatePortfolio("000001", "test"))
	require.NoError(t, b.SubscribeFundsToPortfolio("000001", d(10000)))
	return b
}

func newOrder(t *testing.T, asset string, qty float64, at time.Time) *order.Order {
	t.Helper()
	o, err := order.New("000001", asset, d(qty), at)
	require.NoError(t, err)
	return o
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(Settings{}, nil, exchange.AlwaysOpen{}, nil)
	assert.ErrorIs(t, err, common.ErrNilArguments)
	_, err = New(Settings{Currency: "XXXX"}, prices, exchange.AlwaysOpen{}, nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = New(Settings{}, prices, exchange.AlwaysOpen{}, "two percent")
	assert.ErrorIs(t, err, common.ErrCapabilityMismatch)

	b, err := New(Settings{Currency: "gbp"}, prices, exchange.AlwaysOpen{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GBP", b.Settings().Currency)
	assert.Equal(t, DefaultName, b.Settings().Name)
	assert.Equal(t, DefaultAccountID, b.Settings().AccountID)
	assert.IsType(t, fee.Zero{}, b.fee)

	require.NoError(t, b.SetFeeModel(fee.Percent{Commission: d(0.01)}))
	assert.IsType(t, fee.Percent{}, b.FeeModel())
	assert.ErrorIs(t, b.SetFeeModel(42), common.ErrCapabilityMismatch)
	require.NoError(t, b.SetFeeModel(nil))
	assert.IsType(t, fee.Zero{}, b.fee)
}

func TestAccountFunds(t *testing.T) {
	t.Parallel()
	b, err := New(Settings{}, prices, exchange.AlwaysOpen{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, b.SubscribeFundsToAccount(d(-1)), common.ErrValidation)
	require.NoError(t, b.SubscribeFundsToAccount(d(1234.56)))
	require.NoError(t, b.SubscribeFundsToAccount(d(100)))
	require.NoError(t, b.WithdrawFundsFromAccount(d(100)))
	assert.True(t, b.UnallocatedCash().Equal(d(1234.56)))
	err = b.WithdrawFundsFromAccount(d(2000))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.True(t, b.AccountTotalEquity().Equal(d(1234.56)))
}

func TestPortfolios(t *testing.T) {
	t.Parallel()
	b := newFunded(t, Settings{}, exchange.AlwaysOpen{}, nil)
	assert.ErrorIs(t, b.CreatePortfolio("000001", "dupe"), errDuplicatePortfolio)
	assert.ErrorIs(t, b.CreatePortfolio("", "none"), common.ErrValidation)
	require.NoError(t, b.CreatePortfolio("000002", "second"))
	assert.Equal(t, []string{"000001", "000002"}, b.ListPortfolios())

	assert.ErrorIs(t, b.SubscribeFundsToPortfolio("nope", d(1)), errUnknownPortfolio)
	_, err := b.PortfolioCashBalance("nope")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, b.SubscribeFundsToPortfolio("000002", d(1000000)), common.ErrValidation)

	require.NoError(t, b.SubscribeFundsToPortfolio("000002", d(500)))
	require.NoError(t, b.WithdrawFundsFromPortfolio("000002", d(500)))
	cash, err := b.PortfolioCashBalance("000002")
	require.NoError(t, err)
	assert.True(t, cash.IsZero())
	assert.ErrorIs(t, b.WithdrawFundsFromPortfolio("000002", d(1)), common.ErrValidation)

	assert.True(t, b.UnallocatedCash().Equal(d(90000)))
	assert.True(t, b.AccountCashBalance().Equal(d(100000)))
}

func TestSubmitOrderExecutesWhenOpen(t *testing.T) {
	t.Parallel()
	b := newFunded(t, Settings{LongOnly: true}, exchange.AlwaysOpen{}, fee.Percent{Commission: d(0.001)})
	require.NoError(t, b.SubmitOrder("000001", newOrder(t, "SPY", 10, wednesdayClose)))

	cash, err := b.PortfolioCashBalance("000001")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d(10000-1000-1)), cash.String())
	holdings, err := b.PortfolioHoldings("000001")
	require.NoError(t, err)
	assert.True(t, holdings["SPY"].Equal(d(10)))
	nonCash, err := b.PortfolioTotalNonCashEquity("000001")
	require.NoError(t, err)
	assert.True(t, nonCash.Equal(d(1000)))
	equity, err := b.PortfolioTotalEquity("000001")
	require.NoError(t, err)
	assert.True(t, equity.Equal(d(9999)))

	fills, err := b.PortfolioFills("000001")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.True(t, fills[0].Commission.Equal(d(1)))
	history, err := b.PortfolioHistory("000001")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	positions, err := b.PortfolioPositions("000001")
	require.NoError(t, err)
	assert.True(t, positions["SPY"].AverageCost.Equal(d(100)))
}

func TestSubmitOrderQueuesWhenClosed(t *testing.T) {
	t.Parallel()
	session, err := exchange.NewSession(exchange.DefaultOpen, exchange.DefaultClose)
	require.NoError(t, err)
	b := newFunded(t, Settings{LongOnly: true}, session, nil)

	postMarket := wednesdayClose.Add(2*time.Hour + 59*time.Minute)
	first := newOrder(t, "SPY", 10, postMarket)
	second := newOrder(t, "AGG", 20, postMarket)
	require.NoError(t, b.SubmitOrder("000001", first))
	require.NoError(t, b.SubmitOrder("000001", second))
	queued, err := b.OpenOrders("000001")
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, first.ID, queued[0].ID)
	holdings, err := b.PortfolioHoldings("000001")
	require.NoError(t, err)
	assert.Empty(t, holdings)

	// still closed overnight
	b.Update(wednesdayClose.Add(3 * time.Hour))
	queued, err = b.OpenOrders("000001")
	require.NoError(t, err)
	assert.Len(t, queued, 2)

	open := time.Date(2020, 1, 9, 14, 30, 0, 0, time.UTC)
	b.Update(open)
	assert.Equal(t, open, b.CurrentTime())
	queued, err = b.OpenOrders("000001")
	require.NoError(t, err)
	assert.Empty(t, queued)
	fills, err := b.PortfolioFills("000001")
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, first.ID, fills[0].OrderID, "queued orders drain in FIFO order")
	assert.Equal(t, open, fills[0].Time)

	b.Update(open.Add(time.Hour))
	fills, err = b.PortfolioFills("000001")
	require.NoError(t, err)
	assert.Len(t, fills, 2, "queued orders execute exactly once")
}

func TestLongOnlyRejections(t *testing.T) {
	t.Parallel()
	b := newFunded(t, Settings{LongOnly: true}, exchange.AlwaysOpen{}, nil)
	before := b.AccountTotalEquity()

	err := b.SubmitOrder("000001", newOrder(t, "SPY", -1, wednesdayClose))
	assert.ErrorIs(t, err, common.ErrOrderRejected)
	assert.ErrorIs(t, err, errShortInLongOnly)

	err = b.SubmitOrder("000001", newOrder(t, "SPY", 101, wednesdayClose))
	assert.ErrorIs(t, err, errInsufficientCash)

	err = b.SubmitOrder("000001", newOrder(t, "QQQ", 1, wednesdayClose))
	assert.ErrorIs(t, err, data.ErrNoPriceData)
	assert.ErrorIs(t, err, common.ErrOrderRejected)

	err = b.SubmitOrder("missing", newOrder(t, "SPY", 1, wednesdayClose))
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.True(t, b.AccountTotalEquity().Equal(before), "rejections must not change the ledger")
	assert.Len(t, b.Rejections(), 4)
	assert.True(t, errors.Is(b.Rejections()[0].Reason, errShortInLongOnly))
}

func TestLongOnlyCountsQueuedSells(t *testing.T) {
	t.Parallel()
	session, err := exchange.NewSession(exchange.DefaultOpen, exchange.DefaultClose)
	require.NoError(t, err)
	b := newFunded(t, Settings{LongOnly: true}, session, nil)
	require.NoError(t, b.SubmitOrder("000001", newOrder(t, "SPY", 10, wednesdayClose)))
	night := wednesdayClose.Add(time.Hour)
	require.NoError(t, b.SubmitOrder("000001", newOrder(t, "SPY", -6, night)))
	err = b.SubmitOrder("000001", newOrder(t, "SPY", -6, night))
	assert.ErrorIs(t, err, errShortInLongOnly)
}

func TestLeveragedAllowsShortsAndMargin(t *testing.T) {
	t.Parallel()
	b := newFunded(t, Settings{}, exchange.AlwaysOpen{}, nil)
	require.NoError(t, b.SubmitOrder("000001", newOrder(t, "AGG", -100, wednesdayClose)))
	require.NoError(t, b.SubmitOrder("000001", newOrder(t, "SPY", 140, wednesdayClose)))
	cash, err := b.PortfolioCashBalance("000001")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d(10000+5000-14000)))
	equity, err := b.PortfolioTotalEquity("000001")
	require.NoError(t, err)
	assert.True(t, equity.Equal(d(10000)))
}

func TestUpdateMarksToMarket(t *testing.T) {
	t.Parallel()
	moving := fixedPrices{"SPY": d(100)}
	b, err := New(Settings{}, moving, exchange.AlwaysOpen{}, nil)
	require.NoError(t, err)
	require.NoError(t, b.SubscribeFundsToAccount(d(1000)))
	require.NoError(t, b.CreatePortfolio("p", "p"))
	require.NoError(t, b.SubscribeFundsToPortfolio("p", d(1000)))
	o, err := order.New("p", "SPY", d(5), wednesdayClose)
	require.NoError(t, err)
	require.NoError(t, b.SubmitOrder("p", o))

	moving["SPY"] = d(120)
	b.Update(wednesdayClose.Add(time.Hour))
	assert.True(t, b.AccountTotalNonCashEquity().Equal(d(600)))
	assert.True(t, b.AccountTotalEquity().Equal(d(1100)))

	delete(moving, "SPY")
	b.Update(wednesdayClose.Add(2 * time.Hour))
	assert.True(t, b.AccountTotalEquity().Equal(d(1100)), "missing prices keep the previous mark")
}

func TestClosedPositionsKeepRealisedPnL(t *testing.T) {
	t.Parallel()
	moving := fixedPrices{"SPY": d(100)}
	b, err := New(Settings{LongOnly: true}, moving, exchange.AlwaysOpen{}, fee.Percent{Commission: d(0.001)})
	require.NoError(t, err)
	require.NoError(t, b.SubscribeFundsToAccount(d(10000)))
	require.NoError(t, b.CreatePortfolio("p", "p"))
	require.NoError(t, b.SubscribeFundsToPortfolio("p", d(10000)))
	o, err := order.New("p", "SPY", d(10), wednesdayClose)
	require.NoError(t, err)
	require.NoError(t, b.SubmitOrder("p", o))

	moving["SPY"] = d(120)
	b.Update(wednesdayClose.Add(time.Hour))
	o, err = order.New("p", "SPY", d(-10), wednesdayClose.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, b.SubmitOrder("p", o))

	positions, err := b.PortfolioPositions("p")
	require.NoError(t, err)
	assert.Empty(t, positions)
	closed, err := b.PortfolioClosedPositions("p")
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.True(t, closed[0].RealisedPnL.Equal(d(200)), closed[0].RealisedPnL.String())

	pnl, commission, err := b.PortfolioRealisedPnL("p")
	require.NoError(t, err)
	assert.True(t, pnl.Equal(d(200)))
	// 0.1% of 1000 bought and 1200 sold
	assert.True(t, commission.Equal(d(2.2)), commission.String())

	_, err = b.PortfolioClosedPositions("missing")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, _, err = b.PortfolioRealisedPnL("missing")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestEquityInvariantProperty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		b, err := New(Settings{LongOnly: rapid.Bool().Draw(rt, "longOnly")}, prices, exchange.AlwaysOpen{}, fee.Percent{Commission: d(0.001)})
		if err != nil {
			rt.Fatal(err)
		}
		_ = b.SubscribeFundsToAccount(d(float64(rapid.IntRange(0, 1000000).Draw(rt, "seed"))))
		ids := []string{"a", "b", "c"}
		for _, id := range ids {
			_ = b.CreatePortfolio(id, id)
		}
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(rt, "portfolio")
			amount := d(float64(rapid.IntRange(0, 50000).Draw(rt, "amount")))
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				_ = b.SubscribeFundsToPortfolio(id, amount)
			case 1:
				_ = b.WithdrawFundsFromPortfolio(id, amount)
			case 2, 3:
				asset := rapid.SampledFrom([]string{"SPY", "AGG"}).Draw(rt, "asset")
				qty := rapid.IntRange(-50, 50).Draw(rt, "qty")
				if qty == 0 {
					continue
				}
				o, err := order.New(id, asset, decimal.NewFromInt(int64(qty)), wednesdayClose)
				if err != nil {
					rt.Fatal(err)
				}
				_ = b.SubmitOrder(id, o)
			case 4:
				b.Update(wednesdayClose)
			}
			sum := b.UnallocatedCash()
			for _, pid := range b.ListPortfolios() {
				eq, err := b.PortfolioTotalEquity(pid)
				if err != nil {
					rt.Fatal(err)
				}
				sum = sum.Add(eq)
			}
			if !b.AccountTotalEquity().Equal(sum) {
				rt.Fatalf("account equity %s != unallocated + portfolios %s", b.AccountTotalEquity(), sum)
			}
			if !b.AccountTotalEquity().Equal(b.AccountCashBalance().Add(b.AccountTotalNonCashEquity())) {
				rt.Fatalf("equity is not cash + non cash")
			}
		}
	})
}

func TestRoundTripProperty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		b, err := New(Settings{}, prices, exchange.AlwaysOpen{}, nil)
		if err != nil {
			rt.Fatal(err)
		}
		cents := rapid.Int64Range(0, 1<<40).Draw(rt, "seed")
		_ = b.SubscribeFundsToAccount(decimal.New(cents, -2))
		_ = b.CreatePortfolio("p", "p")
		before := b.UnallocatedCash()
		amount := decimal.New(rapid.Int64Range(0, 1<<40).Draw(rt, "amount"), -2)
		if err := b.SubscribeFundsToAccount(amount); err != nil {
			rt.Fatal(err)
		}
		if err := b.WithdrawFundsFromAccount(amount); err != nil {
			rt.Fatal(err)
		}
		if !b.UnallocatedCash().Equal(before) {
			rt.Fatalf("account round trip changed cash %s -> %s", before, b.UnallocatedCash())
		}
		if amount.GreaterThan(before) {
			return
		}
		if err := b.SubscribeFundsToPortfolio("p", amount); err != nil {
			rt.Fatal(err)
		}
		if err := b.WithdrawFundsFromPortfolio("p", amount); err != nil {
			rt.Fatal(err)
		}
		if !b.UnallocatedCash().Equal(before) {
			rt.Fatalf("portfolio round trip changed cash %s -> %s", before, b.UnallocatedCash())
		}
	})
}
