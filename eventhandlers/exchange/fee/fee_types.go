package fee

import "github.com/shopspring/decimal"

// Model calculates the transaction cost of trading quantity units at price.
// Implementations are stateless beyond their configuration
type Model interface {
	CalculateFee(quantity, price decimal.Decimal) decimal.Decimal
}

// Zero charges nothing. It is the broker default
type Zero struct{}

// Percent charges a commission and a tax, both expressed as fractions of the
// absolute trade notional
type Percent struct {
	Commission decimal.Decimal
	Tax        decimal.Decimal
}

// FixedPlusPercent charges a flat amount per trade plus a fraction of the
// absolute trade notional
type FixedPlusPercent struct {
	Fixed   decimal.Decimal
	Percent decimal.Decimal
}
