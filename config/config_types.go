package config

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/eventhandlers/simulation"
	"github.com/shopspring/decimal"
)

// EnvPrefix prefixes environment variables overriding config values, for
// example REPLAYTRADER_INITIAL_CASH
const EnvPrefix = "REPLAYTRADER"

// Data sources
const (
	CSVDataSource      = "csv"
	DatabaseDataSource = "database"
)

var (
	errFileNotFound       = errors.New("file not found")
	errStartEndUnset      = errors.New("start and end dates must be set")
	errBadDate            = errors.New("start date must be before end date")
	errBurnInOutsideRange = errors.New("burn-in date must be within the start and end dates")
	errNoAssets           = errors.New("universe has no assets")
	errUnsetStrategy      = errors.New("alpha model name unset")
	errUnknownDataSource  = errors.New("unknown data source")
	errDataDirectoryUnset = errors.New("csv data source requires a directory")
	errDatabaseUnset      = errors.New("database data source requires an enabled database config")
	errBadInitialCash     = errors.New("initial cash cannot be negative")
)

// Config defines a single simulation run
type Config struct {
	Nickname    string              `json:"nickname" mapstructure:"nickname"`
	Goal        string              `json:"goal" mapstructure:"goal"`
	StartDate   time.Time           `json:"start-date" mapstructure:"start-date"`
	EndDate     time.Time           `json:"end-date" mapstructure:"end-date"`
	BurnInDate  *time.Time          `json:"burn-in-date,omitempty" mapstructure:"burn-in-date"`
	InitialCash decimal.Decimal     `json:"initial-cash" mapstructure:"initial-cash"`
	Account     AccountSettings     `json:"account" mapstructure:"account"`
	Portfolio   PortfolioSettings   `json:"portfolio" mapstructure:"portfolio"`
	Universe    UniverseSettings    `json:"universe" mapstructure:"universe"`
	Rebalance   RebalanceSettings   `json:"rebalance" mapstructure:"rebalance"`
	Sizing      SizingSettings      `json:"sizing" mapstructure:"sizing"`
	Strategy    StrategySettings    `json:"strategy" mapstructure:"strategy"`
	Risk        *RiskSettings       `json:"risk,omitempty" mapstructure:"risk"`
	Exchange    ExchangeSettings    `json:"exchange" mapstructure:"exchange"`
	Simulation  simulation.Settings `json:"simulation" mapstructure:"simulation"`
	Data        DataSettings        `json:"data" mapstructure:"data"`
	Output      OutputSettings      `json:"output" mapstructure:"output"`
}

// AccountSettings names the simulated broker account
type AccountSettings struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Currency string `json:"currency" mapstructure:"currency"`
}

// PortfolioSettings names the portfolio the strategy trades
type PortfolioSettings struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// UniverseSettings lists tradeable assets. When StartDates is set the
// universe is dynamic and Assets is ignored
type UniverseSettings struct {
	Assets     []string             `json:"assets" mapstructure:"assets"`
	StartDates map[string]time.Time `json:"start-dates,omitempty" mapstructure:"start-dates"`
}

// RebalanceSettings selects the rebalance schedule
type RebalanceSettings struct {
	Frequency        string `json:"frequency" mapstructure:"frequency"`
	Weekday          string `json:"weekday,omitempty" mapstructure:"weekday"`
	PreMarket        bool   `json:"pre-market" mapstructure:"pre-market"`
	// RepeatBuyAndHold rebalances a buy and hold schedule on every matching
	// instant instead of only the first
	RepeatBuyAndHold bool   `json:"repeat-buy-and-hold" mapstructure:"repeat-buy-and-hold"`
}

// SizingSettings selects the sizing policy. Exactly the parameter the
// policy needs must be set
type SizingSettings struct {
	Policy               string   `json:"policy" mapstructure:"policy"`
	CashBufferPercentage *float64 `json:"cash-buffer-percentage,omitempty" mapstructure:"cash-buffer-percentage"`
	GrossLeverage        *float64 `json:"gross-leverage,omitempty" mapstructure:"gross-leverage"`
}

// StrategySettings selects the alpha model and its custom settings
type StrategySettings struct {
	Name           string         `json:"name" mapstructure:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty" mapstructure:"custom-settings"`
}

// RiskSettings enables the concentration risk model
type RiskSettings struct {
	MaximumHoldingRatio float64 `json:"maximum-holding-ratio" mapstructure:"maximum-holding-ratio"`
}

// ExchangeSettings selects trading hours and the fee model
type ExchangeSettings struct {
	Name string        `json:"name" mapstructure:"name"`
	Fee  FeeSettings   `json:"fee" mapstructure:"fee"`
	Open time.Duration `json:"open,omitempty" mapstructure:"open"`
	// Close is only used by the session exchange
	Close time.Duration `json:"close,omitempty" mapstructure:"close"`
}

// FeeSettings configures the fee model
type FeeSettings struct {
	Model      string          `json:"model" mapstructure:"model"`
	Fixed      decimal.Decimal `json:"fixed" mapstructure:"fixed"`
	Commission decimal.Decimal `json:"commission" mapstructure:"commission"`
	Tax        decimal.Decimal `json:"tax" mapstructure:"tax"`
}

// DataSettings selects where daily bars are loaded from
type DataSettings struct {
	Source    string           `json:"source" mapstructure:"source"`
	Directory string           `json:"directory,omitempty" mapstructure:"directory"`
	Database  *database.Config `json:"database,omitempty" mapstructure:"database"`
}

// OutputSettings controls what a run reports and stores
type OutputSettings struct {
	PrintEvents  bool             `json:"print-events" mapstructure:"print-events"`
	RiskFreeRate float64          `json:"risk-free-rate" mapstructure:"risk-free-rate"`
	Results      *database.Config `json:"results,omitempty" mapstructure:"results"`
}
