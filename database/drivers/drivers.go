// Package drivers connects a database instance using the driver named in
// its config
package drivers

import (
	"fmt"

	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/database/drivers/postgres"
	sqlite "github.com/replaytrader/replaytrader/database/drivers/sqlite3"
	"github.com/replaytrader/replaytrader/log"
)

// Connect opens cfg against inst and checks it responds. Disabled configs
// return database.ErrDatabaseSupportDisabled
func Connect(inst *database.Instance, cfg *database.Config) error {
	if cfg == nil || !cfg.Enabled {
		return database.ErrDatabaseSupportDisabled
	}
	var err error
	switch cfg.Driver {
	case database.DBSQLite3:
		err = sqlite.Connect(inst, cfg)
	case database.DBPostgreSQL:
		err = postgres.Connect(inst, cfg)
	default:
		return fmt.Errorf("%w: unsupported database driver %q", database.ErrFailedToConnect, cfg.Driver)
	}
	if err != nil {
		return err
	}
	if err = inst.Ping(); err != nil {
		return fmt.Errorf("%w: %w", database.ErrFailedToConnect, err)
	}
	log.Debugf(log.Database, "connected to %s database %s", cfg.Driver, cfg.Database)
	return nil
}
