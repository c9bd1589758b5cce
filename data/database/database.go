// Package database loads daily bars from the candle repository
package database

import (
	"context"
	"time"

	"github.com/replaytrader/replaytrader/data"
	dbinstance "github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/repository/candle"
	"github.com/replaytrader/replaytrader/log"
)

// Load reads the candles of each asset between start and end into a new bar
// store
func Load(ctx context.Context, inst *dbinstance.Instance, assets []string, start, end time.Time) (*data.DailyBars, error) {
	bars := data.NewDailyBars()
	for _, a := range assets {
		item, err := candle.Series(ctx, inst, a, start, end)
		if err != nil {
			return nil, err
		}
		if err = bars.Load(a, ToBars(item.Candles)); err != nil {
			return nil, err
		}
		log.Infof(log.Data, "loaded %d daily bars for %s from database", len(item.Candles), a)
	}
	return bars, nil
}

// ToBars converts stored candles into bars
func ToBars(candles []candle.Candle) []data.Bar {
	out := make([]data.Bar, len(candles))
	for i := range candles {
		out[i] = data.Bar{
			Date:   candles[i].Timestamp,
			Open:   candles[i].Open,
			High:   candles[i].High,
			Low:    candles[i].Low,
			Close:  candles[i].Close,
			Volume: candles[i].Volume,
		}
	}
	return out
}

// FromBars converts bars into candles ready for insertion
func FromBars(asset string, bars []data.Bar) *candle.Item {
	item := &candle.Item{Asset: asset, Candles: make([]candle.Candle, len(bars))}
	for i := range bars {
		item.Candles[i] = candle.Candle{
			Timestamp: bars[i].Date,
			Open:      bars[i].Open,
			High:      bars[i].High,
			Low:       bars[i].Low,
			Close:     bars[i].Close,
			Volume:    bars[i].Volume,
		}
	}
	return item
}
