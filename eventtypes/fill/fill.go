package fill

import "github.com/shopspring/decimal"

// Notional returns the signed traded value before fees
func (f *Fill) Notional() decimal.Decimal {
	return f.Quantity.Mul(f.Price)
}

// CashFlow returns the signed change in cash caused by the fill. Buys are
// negative, sells positive and the commission is always paid
func (f *Fill) CashFlow() decimal.Decimal {
	return f.Notional().Neg().Sub(f.Commission)
}
