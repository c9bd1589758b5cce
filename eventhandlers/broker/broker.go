package broker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/eventhandlers/broker/portfolio"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/replaytrader/replaytrader/eventtypes/fill"
	"github.com/replaytrader/replaytrader/eventtypes/order"
	"github.com/replaytrader/replaytrader/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// New creates a broker account. feeModel may be nil for the zero fee model,
// otherwise it must implement fee.Model
func New(s Settings, d data.Handler, e exchange.Exchange, feeModel any) (*Broker, error) {
	if d == nil || e == nil {
		return nil, fmt.Errorf("%w: broker requires a data handler and an exchange", common.ErrNilArguments)
	}
	if s.AccountID == "" {
		s.AccountID = DefaultAccountID
	}
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.ToUpper(s.Currency))
	if err != nil {
		return nil, fmt.Errorf("%w: currency %q: %w", common.ErrConfiguration, s.Currency, err)
	}
	s.Currency = unit.String()
	b := &Broker{
		settings:   s,
		portfolios: make(map[string]*portfolio.Portfolio),
		openOrders: make(map[string][]*order.Order),
		data:       d,
		exchange:   e,
		fee:        fee.Zero{},
	}
	if err = b.SetFeeModel(feeModel); err != nil {
		return nil, err
	}
	return b, nil
}

// SetFeeModel replaces the fee model. nil restores the zero fee model
func (b *Broker) SetFeeModel(m any) error {
	if m == nil {
		b.fee = fee.Zero{}
		return nil
	}
	fm, ok := m.(fee.Model)
	if !ok {
		return fmt.Errorf("%w: %T does not implement fee.Model", common.ErrCapabilityMismatch, m)
	}
	b.fee = fm
	return nil
}

// FeeModel returns the fee model used to cost executions
func (b *Broker) FeeModel() fee.Model {
	return b.fee
}

// Settings returns the account settings
func (b *Broker) Settings() Settings {
	return b.settings
}

// CurrentTime returns the time of the last Update
func (b *Broker) CurrentTime() time.Time {
	return b.currentTime
}

// SubscribeFundsToAccount credits unallocated account cash
func (b *Broker) SubscribeFundsToAccount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: subscription %s %w", common.ErrValidation, amount, errNegativeAmount)
	}
	b.cash = b.cash.Add(amount)
	log.Debugf(log.Broker, "subscribed %s %s to account, unallocated cash %s", amount, b.settings.Currency, b.cash)
	return nil
}

// WithdrawFundsFromAccount debits unallocated account cash
func (b *Broker) WithdrawFundsFromAccount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal %s %w", common.ErrValidation, amount, errNegativeAmount)
	}
	if amount.GreaterThan(b.cash) {
		return fmt.Errorf("%w: account withdrawal of %s exceeds unallocated cash %s %w",
			common.ErrValidation, amount, b.cash, portfolio.ErrInsufficientFunds)
	}
	b.cash = b.cash.Sub(amount)
	log.Debugf(log.Broker, "withdrew %s %s from account, unallocated cash %s", amount, b.settings.Currency, b.cash)
	return nil
}

// CreatePortfolio adds an empty portfolio to the account
func (b *Broker) CreatePortfolio(id, name string) error {
	if id == "" {
		return fmt.Errorf("%w: %w", common.ErrValidation, errPortfolioIDUnset)
	}
	if _, ok := b.portfolios[id]; ok {
		return fmt.Errorf("%w: %w %q", common.ErrValidation, errDuplicatePortfolio, id)
	}
	b.portfolios[id] = portfolio.New(id, name, b.settings.Currency, b.currentTime)
	log.Infof(log.Broker, "created portfolio %s %q", id, name)
	return nil
}

// ListPortfolios returns the portfolio ids in sorted order
func (b *Broker) ListPortfolios() []string {
	ids := make([]string, 0, len(b.portfolios))
	for id := range b.portfolios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Broker) portfolio(id string) (*portfolio.Portfolio, error) {
	p, ok := b.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", common.ErrValidation, errUnknownPortfolio, id)
	}
	return p, nil
}

// SubscribeFundsToPortfolio moves unallocated account cash into a portfolio
func (b *Broker) SubscribeFundsToPortfolio(id string, amount decimal.Decimal) error {
	p, err := b.portfolio(id)
	if err != nil {
		return err
	}
	if err = b.WithdrawFundsFromAccount(amount); err != nil {
		return err
	}
	return p.SubscribeFunds(amount, b.currentTime)
}

// WithdrawFundsFromPortfolio moves portfolio cash back to unallocated
// account cash
func (b *Broker) WithdrawFundsFromPortfolio(id string, amount decimal.Decimal) error {
	p, err := b.portfolio(id)
	if err != nil {
		return err
	}
	if err = p.WithdrawFunds(amount, b.currentTime); err != nil {
		return err
	}
	return b.SubscribeFundsToAccount(amount)
}

// UnallocatedCash returns account cash not assigned to any portfolio
func (b *Broker) UnallocatedCash() decimal.Decimal {
	return b.cash
}

// AccountCashBalance returns unallocated cash plus all portfolio cash
func (b *Broker) AccountCashBalance() decimal.Decimal {
	total := b.cash
	for _, p := range b.portfolios {
		total = total.Add(p.Cash())
	}
	return total
}

// AccountTotalNonCashEquity returns the market value of every holding
func (b *Broker) AccountTotalNonCashEquity() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.portfolios {
		total = total.Add(p.TotalMarketValue())
	}
	return total
}

// AccountTotalEquity returns unallocated cash plus every portfolio's equity
func (b *Broker) AccountTotalEquity() decimal.Decimal {
	total := b.cash
	for _, p := range b.portfolios {
		total = total.Add(p.TotalEquity())
	}
	return total
}

// PortfolioCashBalance returns the cash of one portfolio
func (b *Broker) PortfolioCashBalance(id string) (decimal.Decimal, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Cash(), nil
}

// PortfolioTotalNonCashEquity returns the market value of one portfolio's
// holdings
func (b *Broker) PortfolioTotalNonCashEquity(id string) (decimal.Decimal, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.TotalMarketValue(), nil
}

// PortfolioTotalEquity returns cash plus holdings value of one portfolio
func (b *Broker) PortfolioTotalEquity(id string) (decimal.Decimal, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.TotalEquity(), nil
}

// PortfolioHoldings returns the asset quantities of one portfolio
func (b *Broker) PortfolioHoldings(id string) (map[string]decimal.Decimal, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return nil, err
	}
	return p.Holdings(), nil
}

// PortfolioPositions returns copies of one portfolio's positions keyed by
// asset
func (b *Broker) PortfolioPositions(id string) (map[string]portfolio.Position, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]portfolio.Position)
	for _, a := range p.Assets() {
		out[a], _ = p.Position(a)
	}
	return out, nil
}

// PortfolioClosedPositions returns the positions of one portfolio that
// were closed to zero, in closing order
func (b *Broker) PortfolioClosedPositions(id string) ([]portfolio.Position, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return nil, err
	}
	return p.ClosedPositions(), nil
}

// PortfolioRealisedPnL returns the realised gain and commission paid over
// every position one portfolio has held
func (b *Broker) PortfolioRealisedPnL(id string) (pnl, commission decimal.Decimal, err error) {
	p, err := b.portfolio(id)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return p.RealisedPnL(), p.TotalCommission(), nil
}

// PortfolioHistory returns the cash ledger of one portfolio
func (b *Broker) PortfolioHistory(id string) ([]portfolio.HistoryEvent, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return nil, err
	}
	return p.History(), nil
}

// PortfolioFills returns the executed fills of one portfolio
func (b *Broker) PortfolioFills(id string) ([]fill.Fill, error) {
	p, err := b.portfolio(id)
	if err != nil {
		return nil, err
	}
	return p.Fills(), nil
}

// OpenOrders returns a copy of a portfolio's queued orders in FIFO order
func (b *Broker) OpenOrders(id string) ([]*order.Order, error) {
	if _, err := b.portfolio(id); err != nil {
		return nil, err
	}
	out := make([]*order.Order, len(b.openOrders[id]))
	copy(out, b.openOrders[id])
	return out, nil
}

// Rejections returns every order that failed and was discarded
func (b *Broker) Rejections() []Rejection {
	out := make([]Rejection, len(b.rejections))
	copy(out, b.rejections)
	return out
}

// SubmitOrder executes o immediately when the exchange is open at the
// order's time, otherwise appends it to the portfolio's open order queue.
// Any failure is recorded as a rejection and returned
func (b *Broker) SubmitOrder(id string, o *order.Order) error {
	if o == nil {
		return common.ErrNilEvent
	}
	if err := b.submit(id, o); err != nil {
		b.reject(o, o.Time, err)
		return err
	}
	return nil
}

func (b *Broker) submit(id string, o *order.Order) error {
	p, err := b.portfolio(id)
	if err != nil {
		return err
	}
	o.PortfolioID = id
	if b.settings.LongOnly {
		pending := p.Quantity(o.Asset)
		for _, q := range b.openOrders[id] {
			if q.Asset == o.Asset {
				pending = pending.Add(q.Quantity)
			}
		}
		if pending.Add(o.Quantity).IsNegative() {
			return fmt.Errorf("%w: %s %w", common.ErrOrderRejected, o, errShortInLongOnly)
		}
	}
	if !b.exchange.IsOpen(o.Time) {
		b.openOrders[id] = append(b.openOrders[id], o)
		log.Debugf(log.Broker, "exchange closed, queued %s", o)
		return nil
	}
	return b.execute(p, o, o.Time)
}

func (b *Broker) execute(p *portfolio.Portfolio, o *order.Order, t time.Time) error {
	if b.settings.LongOnly && p.Quantity(o.Asset).Add(o.Quantity).IsNegative() {
		return fmt.Errorf("%w: %s %w", common.ErrOrderRejected, o, errShortInLongOnly)
	}
	price, err := b.data.LatestPrice(o.Asset, t)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrOrderRejected, o, err)
	}
	commission := b.fee.CalculateFee(o.Quantity, price)
	cost := o.Quantity.Mul(price).Add(commission)
	if b.settings.LongOnly && o.Quantity.IsPositive() && cost.GreaterThan(p.Cash()) {
		return fmt.Errorf("%w: %s costs %s, cash %s %w", common.ErrOrderRejected, o, cost, p.Cash(), errInsufficientCash)
	}
	f := &fill.Fill{
		OrderID:     o.ID,
		PortfolioID: p.ID,
		Asset:       o.Asset,
		Quantity:    o.Quantity,
		Price:       price,
		Commission:  commission,
		Time:        t,
	}
	if err = p.TransactAsset(f); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrOrderRejected, o, err)
	}
	log.Infof(log.Broker, "(%s) - executed order: %s, qty: %s, price: %s, commission: %s",
		t.UTC().Format(common.SimpleTimeFormatWithTime), o.Asset, o.Quantity, price.StringFixed(2), commission.StringFixed(2))
	return nil
}

func (b *Broker) reject(o *order.Order, t time.Time, err error) {
	b.rejections = append(b.rejections, Rejection{Order: *o, Time: t, Reason: err})
	if errors.Is(err, common.ErrOrderRejected) {
		log.Warnf(log.Broker, "%v", err)
		return
	}
	log.Errorf(log.Broker, "order %s failed: %v", o.ID, err)
}

// Update advances the broker to t. Queued orders are executed in FIFO order
// if the exchange is open at t, each exactly once, then every holding is
// marked to its latest price
func (b *Broker) Update(t time.Time) {
	b.currentTime = t
	ids := b.ListPortfolios()
	if b.exchange.IsOpen(t) {
		for _, id := range ids {
			queue := b.openOrders[id]
			if len(queue) == 0 {
				continue
			}
			delete(b.openOrders, id)
			p := b.portfolios[id]
			for _, o := range queue {
				if err := b.execute(p, o, t); err != nil {
					b.reject(o, t, err)
				}
			}
		}
	}
	for _, id := range ids {
		p := b.portfolios[id]
		for _, a := range p.Assets() {
			price, err := b.data.LatestPrice(a, t)
			if err != nil {
				log.Debugf(log.Broker, "%s keeping previous mark: %v", a, err)
				continue
			}
			p.UpdateMarketValue(a, price, t)
		}
	}
}
