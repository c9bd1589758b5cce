package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/eventhandlers/broker"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/size"
	"github.com/replaytrader/replaytrader/eventhandlers/rebalance"
	"github.com/replaytrader/replaytrader/eventhandlers/simulation"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/replaytrader/replaytrader/eventtypes/event"
	"github.com/replaytrader/replaytrader/log"
	"github.com/shopspring/decimal"
)

// NewSession validates settings, builds the schedule, simulation engine and
// broker, then funds the session portfolio. Every configuration problem is
// reported here, before any event is simulated
func NewSession(s Settings, c Collaborators) (*Session, error) {
	if c.Universe == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errNilUniverse)
	}
	if c.Alpha == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errNilAlpha)
	}
	if c.Data == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errNilData)
	}
	if s.Sizing == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errNilSizing)
	}
	if err := s.Sizing.Validate(); err != nil {
		return nil, err
	}
	if s.Start.IsZero() {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errStartUnset)
	}
	s.Start, s.End = s.Start.UTC(), s.End.UTC()
	applyDefaults(&s)
	if s.InitialCash.IsNegative() {
		return nil, fmt.Errorf("%w: %w, received %s", common.ErrValidation, errNegativeCash, s.InitialCash)
	}

	schedule, err := rebalance.New(s.Rebalance.Frequency, s.Start, s.Rebalance.Weekday, s.Rebalance.PreMarket)
	if err != nil {
		return nil, err
	}
	eng, err := simulation.New(s.Start, s.End, s.Simulation)
	if err != nil {
		return nil, err
	}
	if s.Rebalance.PreMarket && !s.Simulation.MarketOpen {
		log.Warnln(log.Session, "pre-market rebalancing needs market open events, none are enabled so the schedule will never trigger")
	}
	if !s.Rebalance.PreMarket && !s.Simulation.MarketClose {
		log.Warnln(log.Session, "post-market rebalancing needs market close events, none are enabled so the schedule will never trigger")
	}

	ex := c.Exchange
	if ex == nil {
		ex = exchange.AlwaysOpen{}
	}
	b := c.Broker
	if b == nil {
		_, longOnly := s.Sizing.(size.LongOnly)
		b, err = broker.New(broker.Settings{
			AccountID: s.AccountID,
			Name:      s.AccountName,
			Currency:  s.Currency,
			LongOnly:  longOnly,
		}, c.Data, ex, c.FeeModel)
		if err != nil {
			return nil, err
		}
	} else if c.FeeModel != nil {
		if err = b.SetFeeModel(c.FeeModel); err != nil {
			return nil, err
		}
	}
	if err = b.CreatePortfolio(s.PortfolioID, s.PortfolioName); err != nil {
		return nil, err
	}
	if err = b.SubscribeFundsToAccount(s.InitialCash); err != nil {
		return nil, err
	}
	if err = b.SubscribeFundsToPortfolio(s.PortfolioID, s.InitialCash); err != nil {
		return nil, err
	}

	log.Infof(log.Session, "session %s to %s, %s rebalance, %s initial cash",
		s.Start.Format(common.SimpleTimeFormatWithTime), s.End.Format(common.SimpleTimeFormatWithTime), schedule, s.InitialCash)
	return &Session{
		settings: s,
		state:    Initialising,
		schedule: schedule,
		engine:   eng,
		broker:   b,
		universe: c.Universe,
		alpha:    c.Alpha,
		risk:     c.Risk,
		signals:  c.Signals,
		data:     c.Data,
	}, nil
}

func applyDefaults(s *Settings) {
	if s.PortfolioID == "" {
		s.PortfolioID = DefaultPortfolioID
	}
	if s.PortfolioName == "" {
		s.PortfolioName = DefaultPortfolioName
	}
	if s.AccountName == "" {
		s.AccountName = broker.DefaultName
	}
	if s.Currency == "" {
		s.Currency = broker.DefaultCurrency
	}
	if s.Rebalance.Frequency == "" {
		s.Rebalance.Frequency = DefaultFrequency
	}
	if s.InitialCash.IsZero() {
		s.InitialCash = DefaultInitialCash
	}
	if s.Simulation == (simulation.Settings{}) {
		s.Simulation = simulation.DefaultSettings()
	}
	if s.BurnIn != nil {
		b := s.BurnIn.UTC()
		s.BurnIn = &b
	}
}

// Run consumes every simulation event in order. Individual order failures
// are recorded and skipped, anything else aborts the run. The context is
// checked between events, a cancelled run finishes with the equity curve
// sampled so far
func (s *Session) Run(ctx context.Context) error {
	if s.state != Initialising {
		return errNotRunnable
	}
	s.state = Running
	defer func() { s.state = Finished }()

	for ev, ok := s.engine.Next(); ok; ev, ok = s.engine.Next() {
		if err := ctx.Err(); err != nil {
			log.Warnf(log.Session, "session stopped before %s, %d equity samples recorded", ev, len(s.equity))
			return fmt.Errorf("%w: %w", errRunCancelled, err)
		}
		if err := s.handleEvent(ev); err != nil {
			return fmt.Errorf("%s: %w", ev, err)
		}
	}
	log.Infof(log.Session, "session complete, %d equity samples, %d rebalances, %d rejected orders, final equity %s",
		len(s.equity), len(s.allocations), len(s.broker.Rejections()), s.broker.AccountTotalEquity().StringFixed(2))
	return nil
}

func (s *Session) handleEvent(ev event.Event) error {
	dt := ev.GetTime()
	if s.settings.PrintEvents {
		log.Infof(log.Session, "%s", ev)
	}
	s.broker.Update(dt)

	if ev.IsMarketClose() && s.signals != nil {
		if err := s.signals.Update(dt); err != nil {
			return err
		}
	}

	if s.pastBurnIn(dt) && s.isRebalance(dt) {
		if s.settings.PrintEvents {
			log.Infof(log.Session, "(%s) - triggering rebalance", dt.Format(common.SimpleTimeFormatWithTime))
		}
		if err := s.rebalance(dt); err != nil {
			return err
		}
	}

	if ev.IsMarketClose() && s.pastBurnIn(dt) {
		s.equity = append(s.equity, equity.Point{
			Date:   common.Date(dt),
			Equity: s.broker.AccountTotalEquity(),
		})
	}
	return nil
}

func (s *Session) pastBurnIn(dt time.Time) bool {
	return s.settings.BurnIn == nil || !dt.Before(*s.settings.BurnIn)
}

// isRebalance consults the schedule. A buy and hold schedule is latched
// after its first trigger unless repeating was requested
func (s *Session) isRebalance(dt time.Time) bool {
	if s.latched || !s.schedule.IsRebalanceEvent(dt) {
		return false
	}
	if s.schedule.Kind() == rebalance.BuyAndHold && !s.settings.RepeatBuyAndHold {
		s.latched = true
	}
	return true
}

// rebalance runs alpha, risk and sizing over the universe plus current
// holdings, then submits the difference as orders, sells first
func (s *Session) rebalance(dt time.Time) error {
	id := s.settings.PortfolioID
	assets := s.universe.Assets(dt)
	signals, err := s.alpha.Signals(dt, assets)
	if err != nil {
		return fmt.Errorf("alpha model %s: %w", s.alpha.Name(), err)
	}
	if s.risk != nil {
		if signals, err = s.risk.Adjust(dt, signals); err != nil {
			return fmt.Errorf("risk model: %w", err)
		}
	}

	current, err := s.broker.PortfolioHoldings(id)
	if err != nil {
		return err
	}
	full := make(map[string]float64, len(assets)+len(current))
	for _, a := range assets {
		full[a] = signals[a]
	}
	for a := range current {
		full[a] = signals[a]
	}

	prices := make(map[string]decimal.Decimal, len(full))
	var unpriced []string
	for a := range full {
		price, err := s.data.LatestPrice(a, dt)
		if err != nil {
			if !errors.Is(err, data.ErrNoPriceData) {
				return err
			}
			unpriced = append(unpriced, a)
			continue
		}
		prices[a] = price
	}
	sort.Strings(unpriced)
	for _, a := range unpriced {
		log.Warnf(log.Session, "(%s) - no price for %s, holding left unchanged", dt.Format(common.SimpleTimeFormatWithTime), a)
		delete(full, a)
	}

	var weights map[string]float64
	if s.risk != nil {
		// risk adjusted signals are already capped weights
		weights, err = size.CappedWeights(s.settings.Sizing, full)
	} else {
		weights, err = s.settings.Sizing.Weights(full)
	}
	if err != nil {
		return err
	}
	total, err := s.broker.PortfolioTotalEquity(id)
	if err != nil {
		return err
	}
	target, err := size.TargetQuantities(s.settings.Sizing, weights, total, prices, s.broker.FeeModel())
	if err != nil {
		return err
	}
	for _, a := range unpriced {
		if q, ok := current[a]; ok {
			target[a] = q
		}
	}
	orders, err := size.GenerateOrders(dt, id, current, target)
	if err != nil {
		return err
	}
	for _, o := range orders {
		// failures are recorded by the broker and do not stop the batch
		if err = s.broker.SubmitOrder(id, o); err != nil {
			log.Debugf(log.Session, "order %s skipped", o.ID)
		}
	}
	s.allocations = append(s.allocations, equity.Allocation{Date: common.Date(dt), Weights: weights})
	return nil
}

// State returns the lifecycle stage
func (s *Session) State() State {
	return s.state
}

// Broker returns the broker the session trades through
func (s *Session) Broker() *broker.Broker {
	return s.broker
}

// PortfolioID returns the id of the session portfolio
func (s *Session) PortfolioID() string {
	return s.settings.PortfolioID
}

// Settings returns the settings with defaults applied
func (s *Session) Settings() Settings {
	return s.settings
}

// Schedule returns the rebalance schedule
func (s *Session) Schedule() rebalance.Schedule {
	return s.schedule
}

// EquityCurve returns total account equity per market close after burn-in,
// ordered by date
func (s *Session) EquityCurve() []equity.Point {
	out := make([]equity.Point, len(s.equity))
	copy(out, s.equity)
	return out
}

// TargetAllocations returns the target weights forward filled onto the
// equity curve dates. Dates before the first rebalance carry zero weights
// for every asset ever targeted
func (s *Session) TargetAllocations() []equity.Allocation {
	assets := make(map[string]struct{})
	for i := range s.allocations {
		for a := range s.allocations[i].Weights {
			assets[a] = struct{}{}
		}
	}
	out := make([]equity.Allocation, 0, len(s.equity))
	next := 0
	latest := make(map[string]float64, len(assets))
	for a := range assets {
		latest[a] = 0
	}
	for i := range s.equity {
		d := s.equity[i].Date
		for next < len(s.allocations) && !s.allocations[next].Date.After(d) {
			for a := range latest {
				latest[a] = 0
			}
			for a, w := range s.allocations[next].Weights {
				latest[a] = w
			}
			next++
		}
		w := make(map[string]float64, len(latest))
		for a, v := range latest {
			w[a] = v
		}
		out = append(out, equity.Allocation{Date: d, Weights: w})
	}
	return out
}

// RejectedOrders returns every order the broker rejected or failed to
// execute, in the order they occurred
func (s *Session) RejectedOrders() []broker.Rejection {
	return s.broker.Rejections()
}

// String returns the state name
func (st State) String() string {
	switch st {
	case Initialising:
		return "initialising"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}
