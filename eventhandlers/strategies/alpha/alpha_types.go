package alpha

import (
	"errors"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
)

// Model names as they appear in configuration
const (
	FixedName    = "fixed"
	SingleName   = "single"
	MomentumName = "momentum"
	RSIName      = "rsi"
	ScriptName   = "script"

	signalsKey  = "signals"
	signalKey   = "signal"
	lookbackKey = "lookback"
	topNKey     = "top-n"
	rsiPeriod   = "rsi-period"
	rsiLowKey   = "rsi-low"
	rsiHighKey  = "rsi-high"
	scriptKey   = "script"
	sourceKey   = "source"
	timeoutKey  = "timeout"

	defaultScriptTimeout = 5 * time.Second
)

var (
	// ErrInvalidCustomSettings is returned when a model's custom settings
	// cannot be applied
	ErrInvalidCustomSettings = errors.New("invalid custom settings")

	errUnknownModel         = errors.New("unknown alpha model")
	errSignalsRequired      = errors.New("alpha model requires a signals collection")
	errScriptOutput         = errors.New("script did not produce a signals map")
	errScriptSignalNotFloat = errors.New("script signal is not a number")
)

// Model produces a signal per asset at an instant. Signals are
// dimensionless and are normalised into weights by the sizing policy
type Model interface {
	Name() string
	Description() string
	Signals(t time.Time, assets []string) (map[string]float64, error)
}

// Fixed returns a constant signal per asset. Assets it has no signal for
// receive zero
type Fixed struct {
	signals map[string]float64
}

// Single returns the same signal for every asset
type Single struct {
	signal float64
}

// Momentum gives a signal of one to the top N assets ranked by trailing
// return and zero to the rest. Assets without enough history are skipped
type Momentum struct {
	collection *signals.Collection
	lookback   int
	topN       int
}

// RSI is a mean reversion model. An asset is bought when its relative
// strength index falls to the low threshold and exited at the high one;
// between them its previous signal is held
type RSI struct {
	collection *signals.Collection
	period     int
	low        float64
	high       float64
	last       map[string]float64
}

// Script runs a tengo script which must assign a map of asset to signal
// to the global variable signals. The script sees the globals assets, now
// and closes
type Script struct {
	name       string
	compiled   *tengo.Compiled
	collection *signals.Collection
	timeout    time.Duration
}
