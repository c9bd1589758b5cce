package engine

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/eventhandlers/broker"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/risk"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/size"
	"github.com/replaytrader/replaytrader/eventhandlers/rebalance"
	"github.com/replaytrader/replaytrader/eventhandlers/simulation"
	"github.com/replaytrader/replaytrader/eventhandlers/strategies/alpha"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/replaytrader/replaytrader/universe"
	"github.com/shopspring/decimal"
)

// State is the lifecycle stage of a session
type State uint8

// Session states
const (
	Initialising State = iota
	Running
	Finished
)

// Defaults applied to unset settings
const (
	DefaultPortfolioID   = "000001"
	DefaultPortfolioName = "Backtest Simulated Broker Portfolio"
	DefaultFrequency     = rebalance.WeeklyStr
)

// DefaultInitialCash is subscribed to the account when no amount is set
var DefaultInitialCash = decimal.NewFromInt(1000000)

var (
	errNilUniverse  = errors.New("session requires a universe")
	errNilAlpha     = errors.New("session requires an alpha model")
	errNilData      = errors.New("session requires a data handler")
	errNilSizing    = errors.New("session requires a sizing policy")
	errStartUnset   = errors.New("session start unset")
	errNotRunnable  = errors.New("session can only run once, from the initialising state")
	errRunCancelled = errors.New("session run cancelled")
	errNegativeCash = errors.New("initial cash cannot be negative")
)

// RebalanceSettings selects the rebalance schedule
type RebalanceSettings struct {
	Frequency string
	// Weekday is a three letter code, required for weekly rebalancing
	Weekday string
	// PreMarket rebalances at the 14:30 UTC open instead of the 21:00 UTC close
	PreMarket bool
}

// Settings configures a session. Zero values take the defaults above
type Settings struct {
	Start time.Time
	End   time.Time
	// BurnIn suppresses rebalancing and equity sampling before it
	BurnIn        *time.Time
	InitialCash   decimal.Decimal
	AccountID     string
	AccountName   string
	Currency      string
	PortfolioID   string
	PortfolioName string
	Rebalance     RebalanceSettings
	Sizing        size.Policy
	Simulation    simulation.Settings
	// PrintEvents logs every simulation event and rebalance
	PrintEvents bool
	// RepeatBuyAndHold rebalances a buy and hold schedule on every matching
	// instant instead of only the first
	RepeatBuyAndHold bool
}

// SignalUpdater advances indicator state at each market close
type SignalUpdater interface {
	Update(t time.Time) error
}

// Collaborators are the pluggable components a session drives. Risk,
// Signals, Exchange, FeeModel and Broker are optional
type Collaborators struct {
	Universe universe.Universe
	Alpha    alpha.Model
	Risk     risk.Model
	Signals  SignalUpdater
	Data     data.Handler
	Exchange exchange.Exchange
	// FeeModel must implement fee.Model when set
	FeeModel any
	// Broker is built from the settings when nil. A broker must never be
	// shared between sessions
	Broker *broker.Broker
}

// Session replays simulated market time and rebalances a portfolio at the
// instants its schedule selects. It is single use and not safe for
// concurrent use
type Session struct {
	settings    Settings
	state       State
	schedule    rebalance.Schedule
	engine      *simulation.Engine
	broker      *broker.Broker
	universe    universe.Universe
	alpha       alpha.Model
	risk        risk.Model
	signals     SignalUpdater
	data        data.Handler
	latched     bool
	equity      []equity.Point
	allocations []equity.Allocation
}
