package alpha

import (
	"fmt"
	"strings"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
)

// New builds an alpha model by name from its custom settings. Models that
// need price history register their lookback with the collection, which
// must then be non nil
func New(name string, custom map[string]any, c *signals.Collection) (Model, error) {
	switch strings.ToLower(name) {
	case FixedName:
		return newFixed(custom)
	case SingleName:
		return newSingle(custom)
	case MomentumName:
		return newMomentum(custom, c)
	case RSIName:
		return newRSI(custom, c)
	case ScriptName:
		return newScript(custom, c)
	}
	return nil, fmt.Errorf("%w: %w %q", common.ErrConfiguration, errUnknownModel, name)
}

// NeedsSignals reports whether the named model reads price history
func NeedsSignals(name string) bool {
	switch strings.ToLower(name) {
	case MomentumName, RSIName, ScriptName:
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func positiveInt(key string, v any) (int, error) {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %w provided %v value could not be parsed: %v", common.ErrConfiguration, ErrInvalidCustomSettings, key, v)
	}
	return int(f), nil
}

func unrecognised(k string, v any) error {
	return fmt.Errorf("%w: %w unrecognised custom setting key %v with value %v. Cannot apply", common.ErrConfiguration, ErrInvalidCustomSettings, k, v)
}
