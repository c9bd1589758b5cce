package size

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/replaytrader/replaytrader/eventtypes/order"
	"github.com/shopspring/decimal"
)

func (LongOnly) policy()  {}
func (Leveraged) policy() {}

// New builds a policy from configuration. The parameter the policy needs
// must be present, the other must be absent
func New(name string, cashBufferPercentage, grossLeverage *float64) (Policy, error) {
	var p Policy
	switch strings.ToLower(name) {
	case LongOnlyStr:
		if cashBufferPercentage == nil {
			return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errMissingCashBuffer)
		}
		p = LongOnly{CashBufferPercentage: *cashBufferPercentage}
	case LeveragedStr:
		if grossLeverage == nil {
			return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errMissingGrossLeverage)
		}
		p = Leveraged{GrossLeverage: *grossLeverage}
	default:
		return nil, fmt.Errorf("%w: %w %q", common.ErrConfiguration, errUnknownPolicy, name)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the cash buffer is within [0, 1)
func (l LongOnly) Validate() error {
	if math.IsNaN(l.CashBufferPercentage) || l.CashBufferPercentage < 0 || l.CashBufferPercentage >= 1 {
		return fmt.Errorf("%w: %w, received %v", common.ErrConfiguration, errInvalidCashBuffer, l.CashBufferPercentage)
	}
	return nil
}

// Weights rejects negative signals and normalises the rest to sum to one
func (l LongOnly) Weights(signals map[string]float64) (map[string]float64, error) {
	var total float64
	for a, s := range signals {
		if s < 0 {
			return nil, fmt.Errorf("%w: %s %v %w", common.ErrValidation, a, s, errNegativeWeight)
		}
		total += s
	}
	return normalise(signals, total), nil
}

// Validate checks gross leverage is positive
func (l Leveraged) Validate() error {
	if math.IsNaN(l.GrossLeverage) || l.GrossLeverage <= 0 {
		return fmt.Errorf("%w: %w, received %v", common.ErrConfiguration, errInvalidGrossLeverage, l.GrossLeverage)
	}
	return nil
}

// Weights normalises signals so their absolute values sum to one
func (l Leveraged) Weights(signals map[string]float64) (map[string]float64, error) {
	var gross float64
	for _, s := range signals {
		gross += math.Abs(s)
	}
	return normalise(signals, gross), nil
}

// CappedWeights applies the policy's checks but scales signals down only
// when their gross exceeds one. Signals that already are weights, such as
// those from a risk model, keep their values and any gross short of one
// stays in cash
func CappedWeights(p Policy, signals map[string]float64) (map[string]float64, error) {
	var gross float64
	for a, s := range signals {
		if _, ok := p.(LongOnly); ok && s < 0 {
			return nil, fmt.Errorf("%w: %s %v %w", common.ErrValidation, a, s, errNegativeWeight)
		}
		gross += math.Abs(s)
	}
	return normalise(signals, math.Max(gross, 1)), nil
}

func normalise(signals map[string]float64, total float64) map[string]float64 {
	out := make(map[string]float64, len(signals))
	for a, s := range signals {
		if total == 0 {
			out[a] = 0
			continue
		}
		out[a] = s / total
	}
	return out
}

// Budget returns the capital the policy may deploy for a given equity
func Budget(p Policy, equity decimal.Decimal) decimal.Decimal {
	switch v := p.(type) {
	case LongOnly:
		return equity.Mul(decimal.NewFromFloat(1 - v.CashBufferPercentage))
	case Leveraged:
		return equity.Mul(decimal.NewFromFloat(v.GrossLeverage))
	}
	return decimal.Zero
}

// TargetQuantities converts normalised weights into whole unit quantities.
// The estimated fee of each position is deducted from its dollar weight
// before flooring, so the committed capital including fees never exceeds
// the policy budget
func TargetQuantities(p Policy, weights map[string]float64, equity decimal.Decimal, prices map[string]decimal.Decimal, fm fee.Model) (map[string]decimal.Decimal, error) {
	if fm == nil {
		fm = fee.Zero{}
	}
	budget := Budget(p, equity)
	if budget.IsNegative() {
		budget = decimal.Zero
	}
	out := make(map[string]decimal.Decimal, len(weights))
	committed := decimal.Zero
	for _, a := range sortedKeys(weights) {
		w := weights[a]
		if w == 0 {
			out[a] = decimal.Zero
			continue
		}
		price, ok := prices[a]
		if !ok || !price.IsPositive() {
			return nil, fmt.Errorf("%w: %s %w", common.ErrValidation, a, errMissingPrice)
		}
		dollar := budget.Mul(decimal.NewFromFloat(math.Abs(w)))
		estimate := dollar.Div(price).Floor()
		estFee := fm.CalculateFee(estimate, price)
		qty := dollar.Sub(estFee).Div(price).Floor()
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		committed = committed.Add(qty.Mul(price)).Add(fm.CalculateFee(qty, price))
		if w < 0 {
			qty = qty.Neg()
		}
		out[a] = qty
	}
	if committed.GreaterThan(budget) {
		return nil, fmt.Errorf("%w: committed %s budget %s", errCommittedExceedsBudget, committed, budget)
	}
	return out, nil
}

// GenerateOrders diffs target quantities against current holdings. Assets
// held but absent from target are sold to zero. Sells are returned before
// buys, each group ordered by asset
func GenerateOrders(t time.Time, portfolioID string, current, target map[string]decimal.Decimal) ([]*order.Order, error) {
	assets := make(map[string]struct{}, len(current)+len(target))
	for a := range current {
		assets[a] = struct{}{}
	}
	for a := range target {
		assets[a] = struct{}{}
	}
	names := make([]string, 0, len(assets))
	for a := range assets {
		names = append(names, a)
	}
	sort.Strings(names)

	var sells, buys []*order.Order
	for _, a := range names {
		diff := target[a].Sub(current[a])
		if diff.IsZero() {
			continue
		}
		o, err := order.New(portfolioID, a, diff, t)
		if err != nil {
			return nil, err
		}
		if o.IsSell() {
			sells = append(sells, o)
		} else {
			buys = append(buys, o)
		}
	}
	return append(sells, buys...), nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
