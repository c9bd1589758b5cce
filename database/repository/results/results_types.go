package results

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/replaytrader/replaytrader/eventtypes/fill"
	"github.com/shopspring/decimal"
)

var (
	errNilRun = errors.New("nil run")
	// ErrRunNotFound is returned when no run has the requested id
	ErrRunNotFound = errors.New("run not found")
)

// Run is one persisted simulation with its outputs
type Run struct {
	ID          uuid.UUID
	Strategy    string
	Start       time.Time
	End         time.Time
	InitialCash decimal.Decimal
	FinalEquity decimal.Decimal
	Log         string
	CreatedAt   time.Time
	Equity      []equity.Point
	Allocations []equity.Allocation
	Fills       []fill.Fill
}
