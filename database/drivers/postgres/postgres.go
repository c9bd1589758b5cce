package postgres

import (
	"database/sql"
	"fmt"

	// import postgres driver
	_ "github.com/lib/pq"
	"github.com/replaytrader/replaytrader/database"
)

// DSN builds a lib/pq connection string from the config
func DSN(cfg *database.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode)
}

// Connect establishes a connection pool to the database and attaches it to
// inst
func Connect(inst *database.Instance, cfg *database.Config) error {
	if cfg == nil || cfg.Database == "" {
		return database.ErrNoDatabaseProvided
	}
	if err := inst.SetConfig(cfg); err != nil {
		return err
	}
	dbConn, err := sql.Open(database.DBPostgreSQL, DSN(cfg))
	if err != nil {
		return fmt.Errorf("%w: %w", database.ErrFailedToConnect, err)
	}
	if err = inst.SetPostgresConnection(dbConn); err != nil {
		return err
	}
	inst.SetConnected(true)
	return nil
}
