package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/log"
)

// SetConfig safely sets the database instance's config
func (i *Instance) SetConfig(cfg *Config) error {
	if i == nil {
		return errNilInstance
	}
	if cfg == nil {
		return errNilConfig
	}
	switch cfg.Driver {
	case DBSQLite3, DBPostgreSQL:
	default:
		return fmt.Errorf("%w %q", errUnsupportedDriver, cfg.Driver)
	}
	i.m.Lock()
	i.config = cfg
	i.m.Unlock()
	return nil
}

// SetSQLiteConnection safely sets the database instance's connection
// to use SQLite
func (i *Instance) SetSQLiteConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(1)
	return nil
}

// SetPostgresConnection safely sets the database instance's connection
// to use Postgres
func (i *Instance) SetPostgresConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	if err := con.Ping(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToConnect, err)
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(2)
	i.SQL.SetMaxIdleConns(1)
	i.SQL.SetConnMaxLifetime(time.Hour)
	return nil
}

// SetConnected safely sets the database instance's connected status
func (i *Instance) SetConnected(v bool) {
	i.m.Lock()
	i.connected = v
	i.m.Unlock()
}

// CloseConnection safely disconnects the database instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if i.SQL == nil {
		return errNilSQL
	}
	i.connected = false
	return i.SQL.Close()
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// GetConfig safely returns a copy of the config
func (i *Instance) GetConfig() *Config {
	i.m.RLock()
	defer i.m.RUnlock()
	if i.config == nil {
		return nil
	}
	cpy := *i.config
	return &cpy
}

// Ping pings the database
func (i *Instance) Ping() error {
	if i == nil {
		return errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return errNilSQL
	}
	return i.SQL.Ping()
}

// GetSQL returns the connection if the instance is connected
func (i *Instance) GetSQL() (*sql.DB, error) {
	if i == nil {
		return nil, errNilInstance
	}
	if !i.IsConnected() {
		return nil, ErrDatabaseSupportDisabled
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return nil, errNilSQL
	}
	return i.SQL, nil
}

// Dialect returns the configured driver name, defaulting to sqlite3
func (i *Instance) Dialect() string {
	i.m.RLock()
	defer i.m.RUnlock()
	if i.config == nil || i.config.Driver == "" {
		return DBSQLite3
	}
	return i.config.Driver
}

// Rebind rewrites ? placeholders into the form the dialect expects
func (i *Instance) Rebind(query string) string {
	if i.Dialect() != DBPostgreSQL {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Migrate creates any missing tables for the configured dialect
func (i *Instance) Migrate(ctx context.Context) error {
	db, err := i.GetSQL()
	if err != nil {
		return err
	}
	statements := sqliteSchema
	if i.Dialect() == DBPostgreSQL {
		statements = postgresSchema
	}
	for x := range statements {
		if _, err = db.ExecContext(ctx, statements[x]); err != nil {
			return fmt.Errorf("migration %d: %w", x, err)
		}
	}
	if i.GetConfig() != nil && i.GetConfig().Verbose {
		log.Debugf(log.Database, "applied %d schema statements", len(statements))
	}
	return nil
}

// Trace writes query to the database sub logger when verbose is enabled
func (i *Instance) Trace(query string, args ...any) {
	if cfg := i.GetConfig(); cfg == nil || !cfg.Verbose {
		return
	}
	_, _ = fmt.Fprintf(Logger{}, "%s %v", strings.Join(strings.Fields(query), " "), args)
}
