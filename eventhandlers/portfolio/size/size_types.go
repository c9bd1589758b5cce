package size

import "errors"

// Policy names as they appear in configuration
const (
	LongOnlyStr  = "long_only"
	LeveragedStr = "leveraged"
)

var (
	errNegativeWeight         = errors.New("long only sizing received a negative signal")
	errInvalidCashBuffer      = errors.New("cash buffer percentage must be within [0, 1)")
	errInvalidGrossLeverage   = errors.New("gross leverage must be positive")
	errMissingPrice           = errors.New("no positive price to size against")
	errMissingCashBuffer      = errors.New("long only sizing requires a cash buffer percentage")
	errMissingGrossLeverage   = errors.New("leveraged sizing requires a gross leverage")
	errUnknownPolicy          = errors.New("unknown sizing policy")
	errCommittedExceedsBudget = errors.New("sized orders exceed the capital budget")
)

// Policy converts signals into target quantities. It is a closed set of
// variants: LongOnly and Leveraged
type Policy interface {
	// Validate checks the variant's parameters
	Validate() error
	// Weights normalises signals into target weights
	Weights(signals map[string]float64) (map[string]float64, error)
	policy()
}

// LongOnly commits at most (1 - CashBufferPercentage) of equity, split in
// proportion to non negative signals
type LongOnly struct {
	CashBufferPercentage float64
}

// Leveraged scales gross exposure, longs plus absolute shorts, to
// GrossLeverage times equity
type Leveraged struct {
	GrossLeverage float64
}
