package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/replaytrader/replaytrader/database"
)

// Connect opens the sqlite database file named by cfg.Database, creating its
// directory if required, and attaches it to inst
func Connect(inst *database.Instance, cfg *database.Config) error {
	if cfg == nil || cfg.Database == "" {
		return database.ErrNoDatabaseProvided
	}
	if err := inst.SetConfig(cfg); err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.Database); dir != "." {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return err
		}
	}
	dbConn, err := sql.Open(database.DBSQLite3, cfg.Database)
	if err != nil {
		return fmt.Errorf("%w: %w", database.ErrFailedToConnect, err)
	}
	if err = inst.SetSQLiteConnection(dbConn); err != nil {
		return err
	}
	inst.SetConnected(true)
	return nil
}
