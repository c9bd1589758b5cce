package signals

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/universe"
)

var (
	errInvalidLookback     = errors.New("lookback must be greater than zero")
	errInsufficientHistory = errors.New("insufficient price history")
	errUnknownAsset        = errors.New("asset has no price history")
)

// Collection keeps rolling buffers of market close prices for every asset
// in a universe and computes indicators over them. Buffers are sized to the
// largest lookback requested at construction
type Collection struct {
	data       data.Handler
	universe   universe.Universe
	bufferSize int
	closes     map[string][]float64
	lastUpdate time.Time
}
