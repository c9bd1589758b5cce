package event

import "time"

// Type names a session event within a business day
type Type uint8

// Session event types in the order they occur during a day
const (
	PreMarket Type = iota + 1
	MarketOpen
	MarketClose
	PostMarket
)

// Event is a single timestamped session event produced by the simulation
// engine. Events are values and are never mutated after creation
type Event struct {
	Time time.Time
	Type Type
}
