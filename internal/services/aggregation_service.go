package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/sources"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

// Aggregator orchestrates one contest refresh: fetch from every configured
// source, normalize, resolve foreign keys and atomically replace the
// contest set. Dependencies are injected at construction; there is no
// ambient state, so the job is safely re-entrant.
type Aggregator struct {
	db      *gorm.DB
	sources []sources.Source
	logger  *logrus.Logger
	now     func() time.Time
}

// NewAggregator wires an aggregation job over the given sources.
func NewAggregator(db *gorm.DB, srcs []sources.Source, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		db:      db,
		sources: srcs,
		logger:  logger,
		now:     time.Now,
	}
}

// Run refreshes the contest table and returns the number of contests
// published. A failure in any source aborts the whole run with an
// AggregationError: publishing a contest list that silently misses an
// entire platform is worse than keeping the previous one.
func (a *Aggregator) Run(ctx context.Context) (int, error) {
	startedAt := a.now()
	now := startedAt.UTC()

	var all []sources.Record
	sourceCounts := make(map[string]int, len(a.sources))
	for _, src := range a.sources {
		records, err := src.FetchUpcoming(ctx, now)
		if err != nil {
			a.logger.WithError(err).WithField("source", src.Name()).Error("source fetch failed, aborting run")
			return 0, &types.AggregationError{Err: err}
		}
		sourceCounts[src.Name()] = len(records)
		all = append(all, records...)
	}

	// Resolve each distinct platform name once per run.
	platforms := make(map[string]models.Platform)
	for _, record := range all {
		if _, ok := platforms[record.PlatformName]; ok {
			continue
		}
		platform, err := FindOrCreatePlatform(a.db, record.PlatformName)
		if err != nil {
			return 0, &types.AggregationError{Err: err}
		}
		platforms[record.PlatformName] = platform
	}

	contests := make([]models.Contest, 0, len(all))
	for _, record := range all {
		contests = append(contests, models.Contest{
			Name:          record.Name,
			StartTime:     record.StartTime,
			Duration:      record.Duration,
			PlatformID:    platforms[record.PlatformName].ID,
			ContestTypeID: ContestTypeIDByName(record.CategoryName),
		})
	}

	if err := ReplaceAllContests(a.db, contests); err != nil {
		return 0, &types.AggregationError{Err: err}
	}

	a.recordRun(startedAt, len(contests), sourceCounts)

	a.logger.WithFields(logrus.Fields{
		"contests": len(contests),
		"sources":  sourceCounts,
	}).Info("contest aggregation complete")

	return len(contests), nil
}

// recordRun writes the audit row for a completed aggregation. Audit
// failures are logged, not surfaced: the contest table is already updated.
func (a *Aggregator) recordRun(startedAt time.Time, count int, sourceCounts map[string]int) {
	counts, err := json.Marshal(sourceCounts)
	if err != nil {
		counts = []byte("{}")
	}
	run := models.AggregationRun{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		FinishedAt:   a.now(),
		ContestCount: count,
		SourceCounts: counts,
	}
	if err := a.db.Create(&run).Error; err != nil {
		a.logger.WithError(err).Warn("failed to record aggregation run")
	}
}
