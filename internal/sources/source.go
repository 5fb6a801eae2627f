// Package sources maps provider-specific contest listings into the one
// canonical record shape the aggregator consumes.
package sources

import (
	"context"
	"time"
)

// Record is the canonical contest shape every source is normalized into.
// StartTime is epoch seconds, Duration is seconds.
type Record struct {
	PlatformName string
	Name         string
	StartTime    int64
	Duration     int64
	CategoryName string
}

// Source produces upcoming canonical contest records relative to now.
type Source interface {
	Name() string
	FetchUpcoming(ctx context.Context, now time.Time) ([]Record, error)
}
