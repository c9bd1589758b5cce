package main

import (
	"fmt"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/config"
	"github.com/replaytrader/replaytrader/eventhandlers/rebalance"
	"github.com/replaytrader/replaytrader/eventhandlers/simulation"
	"github.com/urfave/cli/v2"
)

var scheduleCommand = &cli.Command{
	Name:  "schedule",
	Usage: "list the session events the config would rebalance on",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "list every simulated event, not only rebalances",
		},
	},
	Action: printSchedule,
}

func printSchedule(c *cli.Context) error {
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	s, err := cfg.SessionSettings()
	if err != nil {
		return err
	}
	if s.Simulation == (simulation.Settings{}) {
		s.Simulation = simulation.DefaultSettings()
	}
	schedule, err := rebalance.New(s.Rebalance.Frequency, s.Start, s.Rebalance.Weekday, s.Rebalance.PreMarket)
	if err != nil {
		return err
	}
	eng, err := simulation.New(s.Start, s.End, s.Simulation)
	if err != nil {
		return err
	}
	all := c.Bool("all")
	for ev, ok := eng.Next(); ok; ev, ok = eng.Next() {
		isRebalance := schedule.IsRebalanceEvent(ev.Time)
		if !all && !isRebalance {
			continue
		}
		marker := ""
		if isRebalance {
			marker = " rebalance"
		}
		fmt.Fprintf(c.App.Writer, "%s %s%s\n", ev.Time.Format(common.SimpleTimeFormatWithTime), ev.Type, marker)
		if !all && schedule.Kind() == rebalance.BuyAndHold && !cfg.Rebalance.RepeatBuyAndHold {
			break
		}
	}
	return nil
}
