// Package schedule computes future occurrences of fixed-cadence recurring
// contest series. Everything here is a pure function of the reference
// instant passed in, which keeps the calendar arithmetic testable without
// touching the wall clock.
package schedule

import (
	"sort"
	"time"
)

// LeetCode runs both series at 14:30 UTC with a 90 minute duration.
const (
	contestDuration = 5400 // seconds

	weeklyName   = "LeetCode Weekly Contest"
	biweeklyName = "LeetCode Biweekly Contest"
	platformName = "LeetCode"

	categoryWeekly   = "Weekly"
	categoryBiweekly = "Biweekly"
)

// Occurrence is one computed contest occurrence.
type Occurrence struct {
	PlatformName string
	Name         string
	StartTime    int64
	Duration     int64
	CategoryName string
}

// Anchor pins a weekly series to a weekday and time-of-day in UTC.
type Anchor struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// NextAfter returns the smallest instant >= now that falls on the anchor
// weekday at the anchor time-of-day. When now is already on the anchor
// weekday the comparison is against the anchor time on that same day, so
// an occurrence later today is not skipped.
func (a Anchor) NextAfter(now time.Time) time.Time {
	now = now.UTC()
	days := (int(a.Weekday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+days, a.Hour, a.Minute, 0, 0, time.UTC)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// BiweeklyRule pins a series to a fixed origin instant with a 14 day period.
type BiweeklyRule struct {
	Origin time.Time
}

const biweeklyPeriod = 14 * 24 * time.Hour

// NextAfter returns the first occurrence strictly after now. The result is
// always an exact integer multiple of 14 days from the origin.
func (r BiweeklyRule) NextAfter(now time.Time) time.Time {
	now = now.UTC()
	if now.Before(r.Origin) {
		return r.Origin
	}
	periods := now.Sub(r.Origin) / biweeklyPeriod
	candidate := r.Origin.Add(periods * biweeklyPeriod)
	if !candidate.After(now) {
		candidate = candidate.Add(biweeklyPeriod)
	}
	return candidate
}

// Calendar bundles the two LeetCode series rules.
type Calendar struct {
	Weekly   Anchor
	Biweekly BiweeklyRule
}

// DefaultCalendar matches the published LeetCode cadence: weekly contests on
// Sunday 14:30 UTC, biweekly contests every second Saturday anchored to
// 2022-01-08 14:30 UTC.
func DefaultCalendar() Calendar {
	return Calendar{
		Weekly:   Anchor{Weekday: time.Sunday, Hour: 14, Minute: 30},
		Biweekly: BiweeklyRule{Origin: time.Date(2022, time.January, 8, 14, 30, 0, 0, time.UTC)},
	}
}

// Upcoming computes the next two weekly and two biweekly occurrences,
// keeps only the strictly-future ones, sorts them ascending by start time
// and returns at most three. The two-of-each-then-trim-to-three policy is
// a fixed business rule, not an incidental limit.
func (c Calendar) Upcoming(now time.Time) []Occurrence {
	now = now.UTC()

	w1 := c.Weekly.NextAfter(now)
	w2 := w1.AddDate(0, 0, 7)
	b1 := c.Biweekly.NextAfter(now)
	b2 := b1.Add(biweeklyPeriod)

	candidates := []Occurrence{
		{PlatformName: platformName, Name: weeklyName, StartTime: w1.Unix(), Duration: contestDuration, CategoryName: categoryWeekly},
		{PlatformName: platformName, Name: weeklyName, StartTime: w2.Unix(), Duration: contestDuration, CategoryName: categoryWeekly},
		{PlatformName: platformName, Name: biweeklyName, StartTime: b1.Unix(), Duration: contestDuration, CategoryName: categoryBiweekly},
		{PlatformName: platformName, Name: biweeklyName, StartTime: b2.Unix(), Duration: contestDuration, CategoryName: categoryBiweekly},
	}

	nowSec := now.Unix()
	upcoming := make([]Occurrence, 0, len(candidates))
	for _, c := range candidates {
		if c.StartTime > nowSec {
			upcoming = append(upcoming, c)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime < upcoming[j].StartTime
	})

	if len(upcoming) > 3 {
		upcoming = upcoming[:3]
	}
	return upcoming
}
