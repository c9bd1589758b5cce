package candle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/database"
	sqlite "github.com/replaytrader/replaytrader/database/drivers/sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.Instance {
	t.Helper()
	inst := &database.Instance{}
	require.NoError(t, sqlite.Connect(inst, &database.Config{
		Enabled:           true,
		Driver:            database.DBSQLite3,
		ConnectionDetails: database.ConnectionDetails{Database: filepath.Join(t.TempDir(), "candles.db")},
	}))
	t.Cleanup(func() { assert.NoError(t, inst.CloseConnection()) })
	require.NoError(t, inst.Migrate(context.Background()))
	return inst
}

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestInsertAndSeries(t *testing.T) {
	t.Parallel()
	inst := newTestDB(t)
	ctx := context.Background()

	_, err := Insert(ctx, inst, &Item{Asset: "SPY"})
	assert.ErrorIs(t, err, errNoCandleData)

	item := &Item{Asset: "spy"}
	for d := 2; d <= 6; d++ {
		item.Candles = append(item.Candles, Candle{
			Timestamp: day(d),
			Open:      decimal.NewFromInt(int64(d * 10)),
			High:      decimal.NewFromInt(int64(d*10 + 5)),
			Low:       decimal.NewFromInt(int64(d*10 - 5)),
			Close:     decimal.NewFromFloat(float64(d*10) + 0.25),
			Volume:    decimal.NewFromInt(1000),
		})
	}
	n, err := Insert(ctx, inst, item)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	// upsert replaces rather than duplicates
	item.Candles = item.Candles[:1]
	item.Candles[0].Close = decimal.NewFromInt(99)
	_, err = Insert(ctx, inst, item)
	require.NoError(t, err)

	out, err := Series(ctx, inst, "SPY", day(1), day(4))
	require.NoError(t, err)
	require.Len(t, out.Candles, 3)
	assert.Equal(t, "SPY", out.Asset)
	assert.True(t, out.Candles[0].Close.Equal(decimal.NewFromInt(99)))
	assert.True(t, out.Candles[1].Close.Equal(decimal.NewFromFloat(30.25)))
	assert.Equal(t, day(4), out.Candles[2].Timestamp)

	_, err = Series(ctx, inst, "AGG", day(1), day(4))
	assert.ErrorIs(t, err, ErrNoCandleDataFound)
	_, err = Series(ctx, inst, "", day(1), day(4))
	assert.ErrorIs(t, err, errInvalidInput)

	assets, err := Assets(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY"}, assets)
}
