package main

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/config"
	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/drivers"
	"github.com/replaytrader/replaytrader/database/repository/results"
	"github.com/replaytrader/replaytrader/eventhandlers/statistics"
	"github.com/replaytrader/replaytrader/log"
	"github.com/urfave/cli/v2"
)

var errRunIDRequired = errors.New("run id required")

var resultsCommand = &cli.Command{
	Name:  "results",
	Usage: "inspect runs stored in the config's results database",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "list stored runs",
			Action: listResults,
		},
		{
			Name:      "show",
			Usage:     "show the statistics of a stored run",
			ArgsUsage: "<run id>",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  "risk-free-rate",
					Usage: "annual risk free rate used for the sharpe and sortino ratios",
				},
				&cli.BoolFlag{
					Name:  "log",
					Usage: "print the captured run log",
				},
			},
			Action: showResult,
		},
	},
}

func openResults(c *cli.Context) (*database.Instance, error) {
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}
	inst := &database.Instance{}
	if err = drivers.Connect(inst, cfg.Output.Results); err != nil {
		return nil, err
	}
	if err = inst.Migrate(c.Context); err != nil {
		return nil, errors.Join(err, inst.CloseConnection())
	}
	return inst, nil
}

func closeResults(inst *database.Instance) {
	if err := inst.CloseConnection(); err != nil {
		log.Errorln(log.Database, err)
	}
}

func listResults(c *cli.Context) error {
	inst, err := openResults(c)
	if err != nil {
		return err
	}
	defer closeResults(inst)
	runs, err := results.List(c.Context, inst)
	if err != nil {
		return err
	}
	for i := range runs {
		fmt.Fprintf(c.App.Writer, "%v %-10s %s to %s initial %s final %s\n",
			runs[i].ID,
			runs[i].Strategy,
			runs[i].Start.Format(common.SimpleTimeFormat),
			runs[i].End.Format(common.SimpleTimeFormat),
			runs[i].InitialCash.StringFixed(2),
			runs[i].FinalEquity.StringFixed(2))
	}
	return nil
}

func showResult(c *cli.Context) error {
	if c.NArg() == 0 {
		return errRunIDRequired
	}
	id, err := uuid.FromString(c.Args().First())
	if err != nil {
		return err
	}
	inst, err := openResults(c)
	if err != nil {
		return err
	}
	defer closeResults(inst)
	run, err := results.Get(c.Context, inst, id)
	if err != nil {
		return err
	}
	stats, err := statistics.Calculate(run.Equity, c.Float64("risk-free-rate"))
	if err != nil {
		return err
	}
	out, err := stats.Serialise()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	if c.Bool("log") {
		fmt.Fprint(c.App.Writer, run.Log)
	}
	return nil
}
