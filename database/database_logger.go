package database

import "github.com/replaytrader/replaytrader/log"

// Logger implements io.Writer to redirect driver debug output to the
// database sub logger
type Logger struct{}

// Write takes input and sends it to the database sub logger
func (l Logger) Write(p []byte) (n int, err error) {
	log.Debugf(log.Database, "SQL: %s", p)
	return len(p), nil
}
