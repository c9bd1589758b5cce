package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventtypes/fill"
	"github.com/shopspring/decimal"
)

// New creates an empty portfolio
func New(id, name, currency string, t time.Time) *Portfolio {
	return &Portfolio{
		ID:        id,
		Name:      name,
		Currency:  currency,
		Created:   t,
		positions: make(map[string]*Position),
	}
}

// SubscribeFunds credits cash to the portfolio
func (p *Portfolio) SubscribeFunds(amount decimal.Decimal, t time.Time) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: subscription %s %w", common.ErrValidation, amount, errNegativeAmount)
	}
	p.cash = p.cash.Add(amount)
	p.history = append(p.history, HistoryEvent{
		Time:        t,
		Type:        Subscription,
		Description: fmt.Sprintf("subscription of %s %s", amount, p.Currency),
		Credit:      amount,
		Balance:     p.cash,
	})
	return nil
}

// WithdrawFunds debits cash from the portfolio
func (p *Portfolio) WithdrawFunds(amount decimal.Decimal, t time.Time) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal %s %w", common.ErrValidation, amount, errNegativeAmount)
	}
	if amount.GreaterThan(p.cash) {
		return fmt.Errorf("%w: portfolio %s withdrawal of %s exceeds cash %s %w",
			common.ErrValidation, p.ID, amount, p.cash, ErrInsufficientFunds)
	}
	p.cash = p.cash.Sub(amount)
	p.history = append(p.history, HistoryEvent{
		Time:        t,
		Type:        Withdrawal,
		Description: fmt.Sprintf("withdrawal of %s %s", amount, p.Currency),
		Debit:       amount,
		Balance:     p.cash,
	})
	return nil
}

// TransactAsset applies an executed fill to cash and the asset position.
// Cash checks are the broker's responsibility
func (p *Portfolio) TransactAsset(f *fill.Fill) error {
	if f == nil {
		return common.ErrNilEvent
	}
	if f.Asset == "" {
		return fmt.Errorf("%w: %w", common.ErrValidation, errAssetUnset)
	}
	if f.Quantity.IsZero() {
		return fmt.Errorf("%w: %s %w", common.ErrValidation, f.Asset, errZeroQuantity)
	}
	pos, ok := p.positions[f.Asset]
	if !ok {
		pos = &Position{Asset: f.Asset}
		p.positions[f.Asset] = pos
	}
	pos.transact(f)
	if pos.Quantity.IsZero() {
		p.closed = append(p.closed, *pos)
		delete(p.positions, f.Asset)
	}

	flow := f.CashFlow()
	p.cash = p.cash.Add(flow)
	h := HistoryEvent{
		Time: f.Time,
		Type: AssetTransaction,
		Description: fmt.Sprintf("%s %s %s at %s, commission %s",
			direction(f.Quantity), f.Quantity.Abs(), f.Asset, f.Price, f.Commission),
		Balance: p.cash,
	}
	if flow.IsNegative() {
		h.Debit = flow.Neg()
	} else {
		h.Credit = flow
	}
	p.history = append(p.history, h)
	p.fills = append(p.fills, *f)
	return nil
}

// UpdateMarketValue marks an asset position to price
func (p *Portfolio) UpdateMarketValue(asset string, price decimal.Decimal, t time.Time) {
	if pos, ok := p.positions[asset]; ok {
		pos.LatestPrice = price
		pos.Updated = t
	}
}

// Cash returns the cash balance
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// TotalMarketValue returns Σ quantity × latest price over all positions
func (p *Portfolio) TotalMarketValue() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.positions {
		total = total.Add(pos.MarketValue())
	}
	return total
}

// TotalEquity returns cash plus the market value of all positions
func (p *Portfolio) TotalEquity() decimal.Decimal {
	return p.cash.Add(p.TotalMarketValue())
}

// Holdings returns the quantity held of each asset
func (p *Portfolio) Holdings() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.positions))
	for a, pos := range p.positions {
		out[a] = pos.Quantity
	}
	return out
}

// Quantity returns the quantity held of asset, zero if none
func (p *Portfolio) Quantity(asset string) decimal.Decimal {
	if pos, ok := p.positions[asset]; ok {
		return pos.Quantity
	}
	return decimal.Zero
}

// Assets returns the held assets in sorted order
func (p *Portfolio) Assets() []string {
	out := make([]string, 0, len(p.positions))
	for a := range p.positions {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Position returns a copy of the position in asset
func (p *Portfolio) Position(asset string) (Position, bool) {
	pos, ok := p.positions[asset]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// ClosedPositions returns copies of every position that was closed to zero,
// in the order they closed. An asset that is reopened and closed again
// appears once per round trip
func (p *Portfolio) ClosedPositions() []Position {
	out := make([]Position, len(p.closed))
	copy(out, p.closed)
	return out
}

// RealisedPnL returns the realised gain of open and closed positions
func (p *Portfolio) RealisedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.positions {
		total = total.Add(pos.RealisedPnL)
	}
	for i := range p.closed {
		total = total.Add(p.closed[i].RealisedPnL)
	}
	return total
}

// TotalCommission returns the commission paid on open and closed positions
func (p *Portfolio) TotalCommission() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.positions {
		total = total.Add(pos.TotalCommission)
	}
	for i := range p.closed {
		total = total.Add(p.closed[i].TotalCommission)
	}
	return total
}

// History returns a copy of the cash ledger
func (p *Portfolio) History() []HistoryEvent {
	out := make([]HistoryEvent, len(p.history))
	copy(out, p.history)
	return out
}

// Fills returns a copy of the executed fills
func (p *Portfolio) Fills() []fill.Fill {
	out := make([]fill.Fill, len(p.fills))
	copy(out, p.fills)
	return out
}

// MarketValue returns quantity × latest price
func (pos *Position) MarketValue() decimal.Decimal {
	return pos.Quantity.Mul(pos.LatestPrice)
}

// UnrealisedPnL returns the mark to market gain of the open quantity
func (pos *Position) UnrealisedPnL() decimal.Decimal {
	return pos.LatestPrice.Sub(pos.AverageCost).Mul(pos.Quantity)
}

func (pos *Position) transact(f *fill.Fill) {
	q, dq := pos.Quantity, f.Quantity
	switch {
	case q.IsZero() || q.Sign() == dq.Sign():
		// opening or adding: weighted average of old cost and fill price
		total := q.Abs().Add(dq.Abs())
		pos.AverageCost = pos.AverageCost.Mul(q.Abs()).Add(f.Price.Mul(dq.Abs())).Div(total)
	default:
		closing := decimal.Min(q.Abs(), dq.Abs())
		pnl := f.Price.Sub(pos.AverageCost).Mul(closing)
		if q.IsNegative() {
			pnl = pnl.Neg()
		}
		pos.RealisedPnL = pos.RealisedPnL.Add(pnl)
		if dq.Abs().GreaterThan(q.Abs()) {
			// flipped through zero, the remainder opens at the fill price
			pos.AverageCost = f.Price
		}
	}
	pos.Quantity = q.Add(dq)
	if pos.Quantity.IsZero() {
		pos.AverageCost = decimal.Zero
	}
	if dq.IsPositive() {
		pos.BoughtQuantity = pos.BoughtQuantity.Add(dq)
	} else {
		pos.SoldQuantity = pos.SoldQuantity.Add(dq.Abs())
	}
	pos.TotalCommission = pos.TotalCommission.Add(f.Commission)
	pos.LatestPrice = f.Price
	pos.Updated = f.Time
}

func direction(q decimal.Decimal) string {
	if q.IsNegative() {
		return "sold"
	}
	return "bought"
}
