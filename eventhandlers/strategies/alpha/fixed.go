package alpha

import (
	"fmt"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

// NewFixed returns a model with a constant signal per asset
func NewFixed(s map[string]float64) *Fixed {
	f := &Fixed{signals: make(map[string]float64, len(s))}
	for a, v := range s {
		f.signals[a] = v
	}
	return f
}

func newFixed(custom map[string]any) (*Fixed, error) {
	s := make(map[string]float64)
	for k, v := range custom {
		if k != signalsKey {
			return nil, unrecognised(k, v)
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %w %v must be a map of asset to signal", common.ErrConfiguration, ErrInvalidCustomSettings, signalsKey)
		}
		for a, raw := range m {
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %w signal for %v could not be parsed: %v", common.ErrConfiguration, ErrInvalidCustomSettings, a, raw)
			}
			// viper lower cases map keys
			s[strings.ToUpper(a)] = f
		}
	}
	return NewFixed(s), nil
}

// Name returns the model name
func (f *Fixed) Name() string { return FixedName }

// Description describes the model
func (f *Fixed) Description() string {
	return "Constant signals per asset, useful for static allocations such as 60/40"
}

// Signals returns the configured signal of every asset passed in
func (f *Fixed) Signals(_ time.Time, assets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		out[a] = f.signals[a]
	}
	return out, nil
}

// NewSingle returns a model giving every asset the same signal
func NewSingle(signal float64) *Single {
	return &Single{signal: signal}
}

func newSingle(custom map[string]any) (*Single, error) {
	s := NewSingle(1)
	for k, v := range custom {
		if k != signalKey {
			return nil, unrecognised(k, v)
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: %w provided %v value could not be parsed: %v", common.ErrConfiguration, ErrInvalidCustomSettings, signalKey, v)
		}
		s.signal = f
	}
	return s, nil
}

// Name returns the model name
func (s *Single) Name() string { return SingleName }

// Description describes the model
func (s *Single) Description() string {
	return "The same signal for every asset in the universe"
}

// Signals returns the single signal for every asset
func (s *Single) Signals(_ time.Time, assets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		out[a] = s.signal
	}
	return out, nil
}
