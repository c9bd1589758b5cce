package rebalance

import (
	"errors"
	"time"
)

// Kind identifies the variant of a Schedule
type Kind uint8

// Schedule variants
const (
	BuyAndHold Kind = iota + 1
	Daily
	Weekly
	EndOfMonth
)

// Frequency names as they appear in configuration
const (
	BuyAndHoldStr = "buy_and_hold"
	DailyStr      = "daily"
	WeeklyStr     = "weekly"
	EndOfMonthStr = "end_of_month"
)

var (
	errUnknownFrequency = errors.New("unknown rebalance frequency")
	errMissingWeekday   = errors.New("weekly rebalance requires a weekday")
	errInvalidWeekday   = errors.New("invalid weekday code")
)

var weekdays = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// marketTime is the time of day, UTC, at which a schedule can trigger
type marketTime struct {
	hour, minute, second int
}

var (
	preMarketTime  = marketTime{14, 30, 0}
	postMarketTime = marketTime{21, 0, 0}
)

// Schedule is a pure predicate deciding whether an instant triggers a
// rebalance. It holds only configuration and may be queried with timestamps
// in any order
type Schedule struct {
	kind      Kind
	start     time.Time
	weekday   time.Weekday
	preMarket bool
	at        marketTime
}
