package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	levelInfo  = "info"
	levelWarn  = "warn"
	levelDebug = "debug"
	levelError = "error"
)

// Info takes a pointer subLogger struct and string and emits it at info level
func Info(sl *SubLogger, data string) {
	emit(sl, levelInfo, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface and emits at info level
func Infoln(sl *SubLogger, v ...any) {
	emit(sl, levelInfo, func() string { return fmt.Sprint(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats and emits at info level
func Infof(sl *SubLogger, data string, v ...any) {
	emit(sl, levelInfo, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string and emits it at debug level
func Debug(sl *SubLogger, data string) {
	emit(sl, levelDebug, func() string { return data })
}

// Debugln takes a pointer subLogger struct and interface and emits at debug level
func Debugln(sl *SubLogger, v ...any) {
	emit(sl, levelDebug, func() string { return fmt.Sprint(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats and emits at debug level
func Debugf(sl *SubLogger, data string, v ...any) {
	emit(sl, levelDebug, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct and string and emits it at warn level
func Warn(sl *SubLogger, data string) {
	emit(sl, levelWarn, func() string { return data })
}

// Warnln takes a pointer subLogger struct and interface and emits at warn level
func Warnln(sl *SubLogger, v ...any) {
	emit(sl, levelWarn, func() string { return fmt.Sprint(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface formats and emits at warn level
func Warnf(sl *SubLogger, data string, v ...any) {
	emit(sl, levelWarn, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct and string and emits it at error level
func Error(sl *SubLogger, data string) {
	emit(sl, levelError, func() string { return data })
}

// Errorln takes a pointer subLogger struct and interface and emits at error level
func Errorln(sl *SubLogger, v ...any) {
	emit(sl, levelError, func() string { return fmt.Sprint(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats and emits at error level
func Errorf(sl *SubLogger, data string, v ...any) {
	emit(sl, levelError, func() string { return fmt.Sprintf(data, v...) })
}

// enabled checks if the log level is enabled
func (sl *SubLogger) enabled(level string) bool {
	switch level {
	case levelInfo:
		return sl.Info
	case levelWarn:
		return sl.Warn
	case levelError:
		return sl.Error
	case levelDebug:
		return sl.Debug
	}
	return false
}

// emit formats only when the level is enabled, so callers can pass
// expensive arguments without guarding every call
func emit(sl *SubLogger, level string, msg func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !globalLogConfig.Enabled || !sl.enabled(level) {
		return
	}
	data := msg()
	if customLogHook != nil && customLogHook(level, sl.name, data) {
		return
	}
	var e *zerolog.Event
	switch level {
	case levelInfo:
		e = sl.zl.Info()
	case levelWarn:
		e = sl.zl.Warn()
	case levelDebug:
		e = sl.zl.Debug()
	default:
		e = sl.zl.Error()
	}
	e.Msg(data)
}
