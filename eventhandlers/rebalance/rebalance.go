package rebalance

import (
	"fmt"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

func newSchedule(k Kind, start time.Time, preMarket bool) Schedule {
	s := Schedule{
		kind:      k,
		start:     start.UTC(),
		preMarket: preMarket,
		at:        postMarketTime,
	}
	if preMarket {
		s.at = preMarketTime
	}
	return s
}

// NewBuyAndHold triggers at the market time of every day from start. Callers
// wanting a single rebalance latch after the first trigger
func NewBuyAndHold(start time.Time, preMarket bool) Schedule {
	return newSchedule(BuyAndHold, start, preMarket)
}

// NewDaily triggers at the market time of every business day from start
func NewDaily(start time.Time, preMarket bool) Schedule {
	return newSchedule(Daily, start, preMarket)
}

// NewWeekly triggers at the market time of the given weekday each week from
// start. The weekday is a three letter code such as MON or wed
func NewWeekly(start time.Time, weekday string, preMarket bool) (Schedule, error) {
	wd, err := ParseWeekday(weekday)
	if err != nil {
		return Schedule{}, err
	}
	s := newSchedule(Weekly, start, preMarket)
	s.weekday = wd
	return s, nil
}

// NewEndOfMonth triggers at the market time of the last calendar day of each
// month from start
func NewEndOfMonth(start time.Time, preMarket bool) Schedule {
	return newSchedule(EndOfMonth, start, preMarket)
}

// New builds a schedule from its configuration frequency name
func New(frequency string, start time.Time, weekday string, preMarket bool) (Schedule, error) {
	switch strings.ToLower(frequency) {
	case BuyAndHoldStr:
		return NewBuyAndHold(start, preMarket), nil
	case DailyStr:
		return NewDaily(start, preMarket), nil
	case WeeklyStr:
		if weekday == "" {
			return Schedule{}, fmt.Errorf("%w: %w", common.ErrConfiguration, errMissingWeekday)
		}
		return NewWeekly(start, weekday, preMarket)
	case EndOfMonthStr:
		return NewEndOfMonth(start, preMarket), nil
	}
	return Schedule{}, fmt.Errorf("%w: %w %q", common.ErrConfiguration, errUnknownFrequency, frequency)
}

// ParseWeekday converts a case insensitive three letter weekday code
func ParseWeekday(code string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToUpper(code)]
	if !ok {
		return 0, fmt.Errorf("%w: %w %q", common.ErrValidation, errInvalidWeekday, code)
	}
	return wd, nil
}

// IsRebalanceEvent reports whether t is a rebalance instant
func (s Schedule) IsRebalanceEvent(t time.Time) bool {
	u := t.UTC()
	if u.Before(s.start) || !s.at.matches(u) {
		return false
	}
	switch s.kind {
	case BuyAndHold:
		return true
	case Daily:
		return common.IsBusinessDay(u)
	case Weekly:
		return u.Weekday() == s.weekday
	case EndOfMonth:
		return u.AddDate(0, 0, 1).Month() != u.Month()
	}
	return false
}

// Kind returns the schedule variant
func (s Schedule) Kind() Kind {
	return s.kind
}

// Start returns the earliest instant the schedule can trigger
func (s Schedule) Start() time.Time {
	return s.start
}

// String describes the schedule for logs
func (s Schedule) String() string {
	at := fmt.Sprintf("%02d:%02d:%02d", s.at.hour, s.at.minute, s.at.second)
	if s.kind == Weekly {
		return fmt.Sprintf("%s on %s at %s", s.kind, strings.ToUpper(s.weekday.String()[:3]), at)
	}
	return fmt.Sprintf("%s at %s", s.kind, at)
}

// String returns the configuration name of the kind
func (k Kind) String() string {
	switch k {
	case BuyAndHold:
		return BuyAndHoldStr
	case Daily:
		return DailyStr
	case Weekly:
		return WeeklyStr
	case EndOfMonth:
		return EndOfMonthStr
	}
	return "unknown"
}

func (m marketTime) matches(t time.Time) bool {
	return t.Hour() == m.hour && t.Minute() == m.minute && t.Second() == m.second
}
