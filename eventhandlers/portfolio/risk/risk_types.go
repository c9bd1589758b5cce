package risk

import (
	"errors"
	"time"
)

var errInvalidHoldingRatio = errors.New("maximum holding ratio must be within (0, 1]")

// Model adjusts alpha signals before sizing. Implementations must return a
// mapping with the same assets as the input
type Model interface {
	Adjust(t time.Time, signals map[string]float64) (map[string]float64, error)
}

// Concentration caps the share any one asset may take of the gross signal
type Concentration struct {
	MaximumHoldingRatio float64
}
