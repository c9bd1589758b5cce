package database

import (
	"database/sql"
	"errors"
	"sync"
)

// Supported database drivers
const (
	DBSQLite3    = "sqlite3"
	DBPostgreSQL = "postgres"
)

var (
	// DB is the process wide database instance used by the CLI
	DB = &Instance{}

	// ErrDatabaseSupportDisabled is returned when database support is off
	ErrDatabaseSupportDisabled = errors.New("database support disabled")
	// ErrNoDatabaseProvided is returned when no database name or path is set
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrFailedToConnect is returned when a connection cannot be established
	ErrFailedToConnect = errors.New("database failed to connect")

	errNilInstance       = errors.New("database instance is nil")
	errNilConfig         = errors.New("received nil config")
	errNilSQL            = errors.New("database SQL connection is nil")
	errUnsupportedDriver = errors.New("unsupported database driver")
)

// Config holds all database configurable options
type Config struct {
	Enabled           bool   `json:"enabled" mapstructure:"enabled"`
	Verbose           bool   `json:"verbose" mapstructure:"verbose"`
	Driver            string `json:"driver" mapstructure:"driver"`
	ConnectionDetails `mapstructure:",squash"`
}

// ConnectionDetails holds DSN information. For sqlite3 only Database is
// used and holds the file path
type ConnectionDetails struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     uint16 `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// Instance holds the database connection and its configuration
type Instance struct {
	SQL       *sql.DB
	config    *Config
	connected bool
	m         sync.RWMutex
}
