package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/data"
	csvdata "github.com/replaytrader/replaytrader/data/csv"
	dbdata "github.com/replaytrader/replaytrader/data/database"
	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/drivers"
	"github.com/replaytrader/replaytrader/engine"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/risk"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
	"github.com/replaytrader/replaytrader/eventhandlers/strategies/alpha"
	"github.com/replaytrader/replaytrader/log"
	"github.com/replaytrader/replaytrader/universe"
)

// Assets returns every asset the config can trade, upper cased and sorted
func (c *Config) Assets() []string {
	seen := make(map[string]struct{})
	for _, a := range c.Universe.Assets {
		seen[strings.ToUpper(a)] = struct{}{}
	}
	for a := range c.Universe.StartDates {
		seen[strings.ToUpper(a)] = struct{}{}
	}
	resp := make([]string, 0, len(seen))
	for a := range seen {
		resp = append(resp, a)
	}
	sort.Strings(resp)
	return resp
}

// BuildUniverse returns a dynamic universe when start dates are configured
// and a static one otherwise
func (c *Config) BuildUniverse() (universe.Universe, error) {
	if len(c.Universe.StartDates) > 0 {
		starts := make(map[string]time.Time, len(c.Universe.StartDates))
		for a, t := range c.Universe.StartDates {
			starts[strings.ToUpper(a)] = t
		}
		return universe.NewDynamic(starts)
	}
	return universe.NewStatic(c.Assets()...)
}

// LoadData loads the daily bars of every configured asset from the
// configured source
func (c *Config) LoadData(ctx context.Context) (*data.DailyBars, error) {
	assets := c.Assets()
	switch strings.ToLower(c.Data.Source) {
	case "", CSVDataSource:
		return csvdata.LoadDirectory(c.Data.Directory, assets)
	case DatabaseDataSource:
		inst := &database.Instance{}
		if err := drivers.Connect(inst, c.Data.Database); err != nil {
			return nil, err
		}
		defer func() {
			if err := inst.CloseConnection(); err != nil {
				log.Errorf(log.Database, "closing data connection: %v", err)
			}
		}()
		if err := inst.Migrate(ctx); err != nil {
			return nil, err
		}
		return dbdata.Load(ctx, inst, assets, c.StartDate, c.EndDate)
	}
	return nil, fmt.Errorf("%w %q", errUnknownDataSource, c.Data.Source)
}

// SessionSettings converts the config into session settings
func (c *Config) SessionSettings() (engine.Settings, error) {
	policy, err := c.SizingPolicy()
	if err != nil {
		return engine.Settings{}, err
	}
	return engine.Settings{
		Start:         c.StartDate,
		End:           c.EndDate,
		BurnIn:        c.BurnInDate,
		InitialCash:   c.InitialCash,
		AccountID:     c.Account.ID,
		AccountName:   c.Account.Name,
		Currency:      c.Account.Currency,
		PortfolioID:   c.Portfolio.ID,
		PortfolioName: c.Portfolio.Name,
		Rebalance: engine.RebalanceSettings{
			Frequency: c.rebalanceFrequency(),
			Weekday:   c.Rebalance.Weekday,
			PreMarket: c.Rebalance.PreMarket,
		},
		Sizing:           policy,
		Simulation:       c.Simulation,
		PrintEvents:      c.Output.PrintEvents,
		RepeatBuyAndHold: c.Rebalance.RepeatBuyAndHold,
	}, nil
}

// BuildSession validates the config and wires a session over d
func (c *Config) BuildSession(d data.Handler) (*engine.Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := c.SessionSettings()
	if err != nil {
		return nil, err
	}
	u, err := c.BuildUniverse()
	if err != nil {
		return nil, err
	}
	collaborators := engine.Collaborators{Universe: u, Data: d}

	var col *signals.Collection
	if alpha.NeedsSignals(c.Strategy.Name) {
		col, err = signals.New(d, u)
		if err != nil {
			return nil, err
		}
		collaborators.Signals = col
	}
	collaborators.Alpha, err = alpha.New(c.Strategy.Name, c.Strategy.CustomSettings, col)
	if err != nil {
		return nil, err
	}
	if c.Risk != nil {
		rm, err := risk.NewConcentration(c.Risk.MaximumHoldingRatio)
		if err != nil {
			return nil, err
		}
		collaborators.Risk = rm
	}
	if collaborators.Exchange, err = c.BuildExchange(); err != nil {
		return nil, err
	}
	fm, err := c.FeeModel()
	if err != nil {
		return nil, err
	}
	collaborators.FeeModel = fm
	return engine.NewSession(s, collaborators)
}
