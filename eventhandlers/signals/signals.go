package signals

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/log"
	"github.com/replaytrader/replaytrader/universe"
)

// New returns a signals collection able to serve every lookback passed in
func New(d data.Handler, u universe.Universe, lookbacks ...int) (*Collection, error) {
	if d == nil || u == nil {
		return nil, common.ErrNilArguments
	}
	size := 1
	for _, l := range lookbacks {
		if l <= 0 {
			return nil, fmt.Errorf("%w: %w, received %d", common.ErrConfiguration, errInvalidLookback, l)
		}
		// momentum over l periods needs l+1 closes
		size = max(size, l+1)
	}
	return &Collection{
		data:       d,
		universe:   u,
		bufferSize: size,
		closes:     make(map[string][]float64),
	}, nil
}

// Require grows the buffers so a lookback of l periods can be served. It
// should be called before the first Update
func (c *Collection) Require(l int) error {
	if l <= 0 {
		return fmt.Errorf("%w: %w, received %d", common.ErrConfiguration, errInvalidLookback, l)
	}
	c.bufferSize = max(c.bufferSize, l+1)
	return nil
}

// Update appends the latest price of every universe asset at t. It is
// expected to be called once per market close; repeated or older
// timestamps are ignored
func (c *Collection) Update(t time.Time) error {
	if !t.After(c.lastUpdate) {
		return nil
	}
	c.lastUpdate = t
	for _, a := range c.universe.Assets(t) {
		price, err := c.data.LatestPrice(a, t)
		if err != nil {
			if errors.Is(err, data.ErrNoPriceData) {
				log.Debugf(log.Strategy, "no price for %v at %v, signal buffer not updated", a, t)
				continue
			}
			return err
		}
		buf := append(c.closes[a], price.InexactFloat64())
		if len(buf) > c.bufferSize {
			buf = buf[len(buf)-c.bufferSize:]
		}
		c.closes[a] = buf
	}
	return nil
}

// Closes returns a copy of the buffered close prices of an asset, oldest
// first
func (c *Collection) Closes(asset string) []float64 {
	return slices.Clone(c.closes[asset])
}

// Momentum returns the cumulative return of an asset over the last lookback
// periods as a fraction
func (c *Collection) Momentum(asset string, lookback int) (float64, error) {
	closes, err := c.window(asset, lookback, lookback+1)
	if err != nil {
		return 0, err
	}
	roc := talib.Roc(closes, lookback)
	return roc[len(roc)-1] / 100, nil
}

// SMA returns the simple moving average of the last period closes
func (c *Collection) SMA(asset string, period int) (float64, error) {
	closes, err := c.window(asset, period, period)
	if err != nil {
		return 0, err
	}
	sma := talib.Sma(closes, period)
	return sma[len(sma)-1], nil
}

func (c *Collection) window(asset string, lookback, required int) ([]float64, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: %w, received %d", common.ErrValidation, errInvalidLookback, lookback)
	}
	closes, ok := c.closes[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errUnknownAsset, asset)
	}
	if len(closes) < required {
		return nil, fmt.Errorf("%w: %v has %d of %d closes", errInsufficientHistory, asset, len(closes), required)
	}
	return closes[len(closes)-required:], nil
}
