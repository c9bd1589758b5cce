package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
)

func getWriters(s *SubLoggerConfig) (*multiWriter, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	if s.Output == "" {
		return mw, nil
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(strings.TrimSpace(outputWriters[x])) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: true,
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: defaultOutput,
		},
		TimestampFormat: timestampFormat,
	}
}

// SetupGlobalLogger applies cfg to every registered sub logger, then applies
// any sub logger specific overrides
func SetupGlobalLogger(cfg *Config) error {
	if cfg == nil {
		return errSubloggerConfigIsNil
	}
	mu.Lock()
	defer mu.Unlock()
	globalLogConfig = *cfg
	if globalLogConfig.TimestampFormat == "" {
		globalLogConfig.TimestampFormat = timestampFormat
	}
	for _, sl := range subLoggers {
		output, err := getWriters(&globalLogConfig.SubLoggerConfig)
		if err != nil {
			return err
		}
		sl.Levels = splitLevel(globalLogConfig.Level)
		sl.output = output
		sl.zl = newZerolog(sl.name, output)
	}
	return setupSubLoggers(globalLogConfig.SubLoggers)
}

func setupSubLoggers(s []SubLoggerConfig) error {
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			return err
		}
		sl, ok := subLoggers[strings.ToUpper(s[x].Name)]
		if !ok {
			return fmt.Errorf("%w: %v", errSubLoggerNotFound, s[x].Name)
		}
		sl.Levels = splitLevel(s[x].Level)
		sl.output = output
		sl.zl = newZerolog(sl.name, output)
	}
	return nil
}

// AddWriter attaches w to the output of every sub logger
func AddWriter(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	for _, sl := range subLoggers {
		if err := sl.output.Add(w); err != nil {
			return err
		}
	}
	return nil
}

// RemoveWriter detaches w from the output of every sub logger
func RemoveWriter(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	for _, sl := range subLoggers {
		if err := sl.output.Remove(w); err != nil {
			return err
		}
	}
	return nil
}

func newZerolog(name string, w io.Writer) zerolog.Logger {
	if !globalLogConfig.Structured {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: globalLogConfig.TimestampFormat,
		}
	}
	return zerolog.New(w).With().Timestamp().Str("sublogger", name).Logger()
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(strings.TrimSpace(enabledLevels[x])) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	name := strings.ToUpper(subLogger)
	output, _ := MultiWriter(os.Stdout)
	temp := SubLogger{
		name:   name,
		output: output,
		Levels: splitLevel(defaultLevels),
	}
	temp.zl = newZerolog(name, output)
	subLoggers[name] = &temp
	return &temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	Session = registerNewSubLogger("SESSION")
	Broker = registerNewSubLogger("BROKER")
	Simulation = registerNewSubLogger("SIMULATION")
	Rebalance = registerNewSubLogger("REBALANCE")
	Strategy = registerNewSubLogger("STRATEGY")
	Data = registerNewSubLogger("DATA")
	Database = registerNewSubLogger("DATABASE")
	Report = registerNewSubLogger("REPORT")
	ConfigMgr = registerNewSubLogger("CONFIG")
}
