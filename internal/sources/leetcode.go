package sources

import (
	"context"
	"time"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/schedule"
)

// LeetCodeSource produces occurrences from the computed recurring calendar
// instead of a network API. It cannot fail and is always included in an
// aggregation run.
type LeetCodeSource struct {
	calendar schedule.Calendar
}

// NewLeetCodeSource builds the calendar-backed source.
func NewLeetCodeSource(calendar schedule.Calendar) *LeetCodeSource {
	return &LeetCodeSource{calendar: calendar}
}

// Name implements Source.
func (s *LeetCodeSource) Name() string {
	return "LeetCode"
}

// FetchUpcoming implements Source.
func (s *LeetCodeSource) FetchUpcoming(_ context.Context, now time.Time) ([]Record, error) {
	occurrences := s.calendar.Upcoming(now)
	records := make([]Record, 0, len(occurrences))
	for _, occ := range occurrences {
		records = append(records, Record{
			PlatformName: occ.PlatformName,
			Name:         occ.Name,
			StartTime:    occ.StartTime,
			Duration:     occ.Duration,
			CategoryName: occ.CategoryName,
		})
	}
	return records, nil
}
