package log

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	defaultLevels   = "INFO|WARN|DEBUG|ERROR"
	defaultOutput   = "console"
)

var (
	globalLogConfig = GenDefaultSettings()

	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds configuration settings for the logger
type Config struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	SubLoggerConfig `mapstructure:",squash"`
	// Structured switches the output from the human readable console format
	// to one JSON object per line
	Structured      bool              `json:"structured" mapstructure:"structured"`
	TimestampFormat string            `json:"timestamp-format" mapstructure:"timestamp-format"`
	SubLoggers      []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

// SubLoggerConfig holds sub logger configuration settings
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty" mapstructure:"name"`
	Level  string `json:"level" mapstructure:"level"`
	Output string `json:"output" mapstructure:"output"`
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines a named sub logger with its own levels and output
type SubLogger struct {
	name string
	Levels
	output *multiWriter
	zl     zerolog.Logger
}

type multiWriter struct {
	writers []io.Writer
	mu      sync.RWMutex
}
