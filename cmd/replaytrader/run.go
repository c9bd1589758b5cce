package main

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/replaytrader/replaytrader/config"
	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/drivers"
	"github.com/replaytrader/replaytrader/database/repository/results"
	"github.com/replaytrader/replaytrader/engine"
	"github.com/replaytrader/replaytrader/eventhandlers/statistics"
	"github.com/replaytrader/replaytrader/log"
	"github.com/replaytrader/replaytrader/report"
	"github.com/replaytrader/replaytrader/writer"
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "run the simulation described by the config",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "report-dir",
			Usage: "write an html report into this directory",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the statistics as json",
		},
	},
	Action: runSimulation,
}

func runSimulation(c *cli.Context) error {
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	cfg.PrintSetting()

	runID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	var w *writer.Writer
	if cfg.Output.Results != nil && cfg.Output.Results.Enabled {
		if w, err = writer.SetupWriter(runID.String()); err != nil {
			return err
		}
		if err = w.Attach(); err != nil {
			return err
		}
		defer func() {
			if err := w.Detach(); err != nil {
				log.Errorln(log.Global, err)
			}
		}()
	}

	d, err := cfg.LoadData(c.Context)
	if err != nil {
		return err
	}
	s, err := cfg.BuildSession(d)
	if err != nil {
		return err
	}
	if err = s.Run(c.Context); err != nil {
		return err
	}
	stats, err := statistics.Calculate(s.EquityCurve(), cfg.Output.RiskFreeRate)
	if err != nil {
		return err
	}
	rep, err := report.New(cfg.Nickname, cfg.Goal, s, stats)
	if err != nil {
		return err
	}
	rep.PrintResults()
	if c.Bool("json") {
		out, err := stats.Serialise()
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	if dir := c.String("report-dir"); dir != "" {
		if _, err = rep.GenerateReport(dir); err != nil {
			return err
		}
	}
	if w == nil {
		return nil
	}
	w.DeActivate()
	return storeRun(c.Context, cfg.Output.Results, runID, cfg, s, w.String())
}

func storeRun(ctx context.Context, dbCfg *database.Config, id uuid.UUID, cfg *config.Config, s *engine.Session, logs string) error {
	inst := &database.Instance{}
	if err := drivers.Connect(inst, dbCfg); err != nil {
		return err
	}
	defer func() {
		if err := inst.CloseConnection(); err != nil {
			log.Errorln(log.Database, err)
		}
	}()
	if err := inst.Migrate(ctx); err != nil {
		return err
	}
	fills, err := s.Broker().PortfolioFills(s.PortfolioID())
	if err != nil {
		return err
	}
	settings := s.Settings()
	run := &results.Run{
		ID:          id,
		Strategy:    cfg.Strategy.Name,
		Start:       settings.Start,
		End:         settings.End,
		InitialCash: settings.InitialCash,
		FinalEquity: s.Broker().AccountTotalEquity(),
		Log:         logs,
		Equity:      s.EquityCurve(),
		Allocations: s.TargetAllocations(),
		Fills:       fills,
	}
	if err = results.Insert(ctx, inst, run); err != nil {
		return err
	}
	log.Infof(log.Database, "stored run %v", run.ID)
	return nil
}
