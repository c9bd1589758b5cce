package rebalance

import (
	"errors"
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	t.Parallel()
	for _, f := range []string{BuyAndHoldStr, DailyStr, "End_Of_Month"} {
		s, err := New(f, start, "", false)
		require.NoError(t, err, f)
		assert.NotZero(t, s.Kind())
	}
	s, err := New(WeeklyStr, start, "wed", true)
	require.NoError(t, err)
	assert.Equal(t, Weekly, s.Kind())
	assert.Equal(t, "weekly on WED at 14:30:00", s.String())

	_, err = New("hourly", start, "", false)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.ErrorIs(t, err, errUnknownFrequency)

	_, err = New(WeeklyStr, start, "", false)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.ErrorIs(t, err, errMissingWeekday)

	_, err = New(WeeklyStr, start, "WEDNESDAY", false)
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("expected: %v, received %v", common.ErrValidation, err)
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()
	wd, err := ParseWeekday("sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)
	_, err = ParseWeekday("")
	assert.ErrorIs(t, err, errInvalidWeekday)
}

func TestBuyAndHold(t *testing.T) {
	t.Parallel()
	s := NewBuyAndHold(at(2020, 1, 2, 0, 0), false)
	assert.False(t, s.IsRebalanceEvent(at(2020, 1, 1, 21, 0)), "before start")
	assert.True(t, s.IsRebalanceEvent(at(2020, 1, 2, 21, 0)))
	assert.False(t, s.IsRebalanceEvent(at(2020, 1, 2, 14, 30)), "wrong market time")
	// the predicate keeps firing on every matching day after start
	assert.True(t, s.IsRebalanceEvent(at(2020, 6, 13, 21, 0)))
}

func TestDaily(t *testing.T) {
	t.Parallel()
	s := NewDaily(start, true)
	assert.True(t, s.IsRebalanceEvent(at(2020, 1, 3, 14, 30)))
	assert.False(t, s.IsRebalanceEvent(at(2020, 1, 4, 14, 30)), "saturday")
	assert.False(t, s.IsRebalanceEvent(at(2020, 1, 3, 21, 0)))
	assert.False(t, s.IsRebalanceEvent(at(2019, 12, 31, 14, 30)))
}

func TestEndOfMonth(t *testing.T) {
	t.Parallel()
	s := NewEndOfMonth(start, false)
	assert.True(t, s.IsRebalanceEvent(at(2020, 1, 31, 21, 0)))
	assert.True(t, s.IsRebalanceEvent(at(2020, 2, 29, 21, 0)), "leap year")
	assert.False(t, s.IsRebalanceEvent(at(2020, 2, 28, 21, 0)))
	assert.False(t, s.IsRebalanceEvent(at(2020, 3, 31, 14, 30)))
}

func TestQueryOrderIndependence(t *testing.T) {
	t.Parallel()
	s, err := NewWeekly(start, "FRI", false)
	require.NoError(t, err)
	a, b := at(2020, 3, 6, 21, 0), at(2020, 1, 3, 21, 0)
	first := []bool{s.IsRebalanceEvent(a), s.IsRebalanceEvent(b)}
	second := []bool{s.IsRebalanceEvent(b), s.IsRebalanceEvent(a)}
	assert.Equal(t, []bool{first[1], first[0]}, second)
	assert.Equal(t, []bool{true, true}, first)
}

func TestWeeklyProperty(t *testing.T) {
	t.Parallel()
	codes := []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
	rapid.Check(t, func(t *rapid.T) {
		wd := rapid.IntRange(0, 6).Draw(t, "weekday")
		preMarket := rapid.Bool().Draw(t, "preMarket")
		s, err := NewWeekly(start, codes[wd], preMarket)
		if err != nil {
			t.Fatal(err)
		}
		day := rapid.IntRange(-30, 3*365).Draw(t, "day")
		hour := rapid.SampledFrom([]int{0, 14, 21, 23}).Draw(t, "hour")
		minute := rapid.SampledFrom([]int{0, 30, 59}).Draw(t, "minute")
		ts := start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

		wantTime := (preMarket && hour == 14 && minute == 30) || (!preMarket && hour == 21 && minute == 0)
		want := int(ts.Weekday()) == wd && wantTime && !ts.Before(start)
		if got := s.IsRebalanceEvent(ts); got != want {
			t.Fatalf("IsRebalanceEvent(%v) = %v, want %v", ts, got, want)
		}
	})
}

func TestEndOfMonthFiresOncePerMonth(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1990, 2040).Draw(t, "year")
		month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
		preMarket := rapid.Bool().Draw(t, "preMarket")
		s := NewEndOfMonth(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), preMarket)
		h, m := 21, 0
		if preMarket {
			h, m = 14, 30
		}
		var fired []int
		for d := time.Date(year, month, 1, h, m, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
			if s.IsRebalanceEvent(d) {
				fired = append(fired, d.Day())
			}
			if s.IsRebalanceEvent(d.Add(time.Hour)) {
				t.Fatalf("fired off market time at %v", d.Add(time.Hour))
			}
		}
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if len(fired) != 1 || fired[0] != last {
			t.Fatalf("expected a single firing on day %d, got %v", last, fired)
		}
	})
}
