package fee

import (
	"fmt"
	"strings"

	"github.com/replaytrader/replaytrader/common"
	"github.com/shopspring/decimal"
)

// Fee model names accepted by New
const (
	ZeroName             = "zero"
	PercentName          = "percent"
	FixedPlusPercentName = "fixed_plus_percent"
)

// CalculateFee returns zero
func (Zero) CalculateFee(_, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// CalculateFee returns |quantity × price| × (commission + tax)
func (p Percent) CalculateFee(quantity, price decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price).Abs().Mul(p.Commission.Add(p.Tax))
}

// CalculateFee returns fixed + |quantity × price| × percent. A zero quantity
// is not a trade and costs nothing
func (f FixedPlusPercent) CalculateFee(quantity, price decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return f.Fixed.Add(quantity.Mul(price).Abs().Mul(f.Percent))
}

// New builds a fee model from its config name. Rates are fractions, so
// 0.002 is 0.2%
func New(name string, fixed, commission, tax decimal.Decimal) (Model, error) {
	if fixed.IsNegative() || commission.IsNegative() || tax.IsNegative() {
		return nil, fmt.Errorf("%w: fee rates cannot be negative", common.ErrConfiguration)
	}
	switch strings.ToLower(name) {
	case "", ZeroName:
		return Zero{}, nil
	case PercentName:
		return Percent{Commission: commission, Tax: tax}, nil
	case FixedPlusPercentName:
		return FixedPlusPercent{Fixed: fixed, Percent: commission}, nil
	}
	return nil, fmt.Errorf("%w: unknown fee model %q", common.ErrConfiguration, name)
}
