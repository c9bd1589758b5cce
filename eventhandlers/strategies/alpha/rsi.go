package alpha

import (
	"fmt"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
	"github.com/replaytrader/replaytrader/log"
	"github.com/thrasher-corp/gct-ta/indicators"
)

// NewRSI returns an RSI mean reversion model
func NewRSI(c *signals.Collection, period int, low, high float64) (*RSI, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errSignalsRequired)
	}
	if low <= 0 || high >= 100 || low >= high {
		return nil, fmt.Errorf("%w: %w rsi thresholds must satisfy 0 < low < high < 100, received %v and %v", common.ErrConfiguration, ErrInvalidCustomSettings, low, high)
	}
	if err := c.Require(period); err != nil {
		return nil, err
	}
	return &RSI{
		collection: c,
		period:     period,
		low:        low,
		high:       high,
		last:       make(map[string]float64),
	}, nil
}

func newRSI(custom map[string]any, c *signals.Collection) (*RSI, error) {
	period, low, high := 14, 30.0, 70.0
	var err error
	for k, v := range custom {
		switch k {
		case rsiPeriod:
			period, err = positiveInt(k, v)
		case rsiLowKey, rsiHighKey:
			f, ok := toFloat(v)
			if !ok || f <= 0 {
				err = fmt.Errorf("%w: %w provided %v value could not be parsed: %v", common.ErrConfiguration, ErrInvalidCustomSettings, k, v)
			} else if k == rsiLowKey {
				low = f
			} else {
				high = f
			}
		default:
			err = unrecognised(k, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return NewRSI(c, period, low, high)
}

// Name returns the model name
func (r *RSI) Name() string { return RSIName }

// Description describes the model
func (r *RSI) Description() string {
	return `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
}

// Signals returns one for assets at or below the low threshold, zero at or
// above the high threshold and the previous signal otherwise
func (r *RSI) Signals(t time.Time, assets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		closes := r.collection.Closes(a)
		if len(closes) <= r.period {
			log.Debugf(log.Strategy, "%v not enough data for rsi at %v", a, t)
			out[a] = r.last[a]
			continue
		}
		rsi := indicators.RSI(closes, r.period)
		latest := rsi[len(rsi)-1]
		switch {
		case latest >= r.high:
			r.last[a] = 0
		case latest <= r.low:
			r.last[a] = 1
		}
		out[a] = r.last[a]
	}
	return out, nil
}
