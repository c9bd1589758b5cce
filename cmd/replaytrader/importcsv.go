package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/replaytrader/replaytrader/config"
	csvdata "github.com/replaytrader/replaytrader/data/csv"
	dbdata "github.com/replaytrader/replaytrader/data/database"
	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/drivers"
	"github.com/replaytrader/replaytrader/database/repository/candle"
	"github.com/replaytrader/replaytrader/log"
	"github.com/urfave/cli/v2"
)

var errNoImportFiles = errors.New("no csv files to import")

var importCSVCommand = &cli.Command{
	Name:      "import-csv",
	Usage:     "seed the config's data database with daily bars from csv files",
	ArgsUsage: "<file.csv>...",
	Description: "each file is named after its asset, SPY.csv holds SPY. With no arguments " +
		"every universe asset is read from the config's data directory",
	Action: importCSV,
}

func importCSV(c *cli.Context) error {
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	files := c.Args().Slice()
	if len(files) == 0 && cfg.Data.Directory != "" {
		for _, a := range cfg.Assets() {
			files = append(files, filepath.Join(cfg.Data.Directory, a+".csv"))
		}
	}
	if len(files) == 0 {
		return errNoImportFiles
	}

	inst := &database.Instance{}
	if err = drivers.Connect(inst, cfg.Data.Database); err != nil {
		return err
	}
	defer func() {
		if err := inst.CloseConnection(); err != nil {
			log.Errorln(log.Database, err)
		}
	}()
	if err = inst.Migrate(c.Context); err != nil {
		return err
	}
	for _, f := range files {
		asset := strings.ToUpper(strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
		bars, err := csvdata.ReadFile(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		n, err := candle.Insert(c.Context, inst, dbdata.FromBars(asset, bars))
		if err != nil {
			return fmt.Errorf("%s: %w", asset, err)
		}
		log.Infof(log.Database, "imported %d daily bars for %s", n, asset)
	}
	return nil
}
