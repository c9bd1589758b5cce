package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

// NewConcentration validates and returns a concentration model
func NewConcentration(maximumHoldingRatio float64) (*Concentration, error) {
	if math.IsNaN(maximumHoldingRatio) || maximumHoldingRatio <= 0 || maximumHoldingRatio > 1 {
		return nil, fmt.Errorf("%w: %w, received %v", common.ErrConfiguration, errInvalidHoldingRatio, maximumHoldingRatio)
	}
	return &Concentration{MaximumHoldingRatio: maximumHoldingRatio}, nil
}

// Adjust converts signals into shares of the gross signal with no share
// above the maximum holding ratio. Weight taken from a capped asset is handed
// to the uncapped assets in proportion to their signals, repeating until no
// share exceeds the cap. When every asset is capped the shares sum to less
// than one and the remainder is left in cash
func (c *Concentration) Adjust(_ time.Time, signals map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(signals))
	capped := make(map[string]bool, len(signals))
	budget := 1.0
	for {
		var free float64
		for a, s := range signals {
			if !capped[a] {
				free += math.Abs(s)
			}
		}
		if free == 0 {
			break
		}
		var clipped bool
		for a, s := range signals {
			if !capped[a] && budget*math.Abs(s)/free > c.MaximumHoldingRatio {
				capped[a] = true
				clipped = true
			}
		}
		if !clipped {
			break
		}
		budget = math.Max(0, 1-c.MaximumHoldingRatio*float64(len(capped)))
	}

	var free float64
	for a, s := range signals {
		if !capped[a] {
			free += math.Abs(s)
		}
	}
	for a, s := range signals {
		switch {
		case capped[a]:
			out[a] = math.Copysign(c.MaximumHoldingRatio, s)
		case free == 0:
			out[a] = 0
		default:
			out[a] = budget * s / free
		}
	}
	return out, nil
}
