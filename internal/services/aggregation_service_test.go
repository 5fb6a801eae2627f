package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/sources"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

// fakeSource is a canned contest source for aggregator tests.
type fakeSource struct {
	name    string
	records []sources.Record
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchUpcoming(_ context.Context, _ time.Time) ([]sources.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestAggregatorRun(t *testing.T) {
	db := setupTestDB(t)

	codeforces := &fakeSource{
		name: "codeforces",
		records: []sources.Record{
			{PlatformName: "Codeforces", Name: "Codeforces Round (Div. 2)", StartTime: 5000, Duration: 7200, CategoryName: "Div2"},
			{PlatformName: "Codeforces", Name: "Educational Round", StartTime: 9000, Duration: 7200, CategoryName: "Div2"},
		},
	}
	leetcode := &fakeSource{
		name: "leetcode",
		records: []sources.Record{
			{PlatformName: "LeetCode", Name: "Weekly Contest", StartTime: 7000, Duration: 5400, CategoryName: "Weekly"},
		},
	}

	agg := NewAggregator(db, []sources.Source{codeforces, leetcode}, testLogger())
	count, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	contests, err := ListContests(db)
	require.NoError(t, err)
	require.Len(t, contests, 3)
	assert.Equal(t, "Codeforces Round (Div. 2)", contests[0].Name)
	assert.Equal(t, "Codeforces", contests[0].Platform.Name)
	assert.Equal(t, "Div2", contests[0].ContestType.Name)
	assert.Equal(t, "Weekly Contest", contests[1].Name)
	assert.Equal(t, "LeetCode", contests[1].Platform.Name)

	// Both platforms resolved, no duplicates.
	var platformCount int64
	db.Model(&models.Platform{}).Count(&platformCount)
	assert.EqualValues(t, 2, platformCount)

	// The run left an audit record behind.
	var runs []models.AggregationRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].ContestCount)
}

func TestAggregatorRunReplacesPreviousSet(t *testing.T) {
	db := setupTestDB(t)

	src := &fakeSource{
		name: "codeforces",
		records: []sources.Record{
			{PlatformName: "Codeforces", Name: "Round A", StartTime: 5000, Duration: 7200, CategoryName: "Div1"},
		},
	}
	agg := NewAggregator(db, []sources.Source{src}, testLogger())

	_, err := agg.Run(context.Background())
	require.NoError(t, err)

	src.records = []sources.Record{
		{PlatformName: "Codeforces", Name: "Round B", StartTime: 6000, Duration: 7200, CategoryName: "Div3"},
	}
	count, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	contests, err := ListContests(db)
	require.NoError(t, err)
	require.Len(t, contests, 1)
	assert.Equal(t, "Round B", contests[0].Name)
}

func TestAggregatorAbortsOnSourceFailure(t *testing.T) {
	db := setupTestDB(t)

	good := &fakeSource{
		name: "leetcode",
		records: []sources.Record{
			{PlatformName: "LeetCode", Name: "Weekly Contest", StartTime: 7000, Duration: 5400, CategoryName: "Weekly"},
		},
	}
	agg := NewAggregator(db, []sources.Source{good}, testLogger())
	_, err := agg.Run(context.Background())
	require.NoError(t, err)

	// A failing source aborts the whole run and keeps the previous set.
	bad := &fakeSource{name: "codeforces", err: errors.New("upstream down")}
	agg = NewAggregator(db, []sources.Source{bad, good}, testLogger())

	count, err := agg.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, count)
	var aggErr *types.AggregationError
	assert.ErrorAs(t, err, &aggErr)

	contests, listErr := ListContests(db)
	require.NoError(t, listErr)
	require.Len(t, contests, 1)
	assert.Equal(t, "Weekly Contest", contests[0].Name)
}

func TestAggregatorUnknownCategoryFallsBackToOther(t *testing.T) {
	db := setupTestDB(t)

	src := &fakeSource{
		name: "codeforces",
		records: []sources.Record{
			{PlatformName: "Codeforces", Name: "Kotlin Heroes", StartTime: 5000, Duration: 7200, CategoryName: "Kotlin"},
		},
	}
	agg := NewAggregator(db, []sources.Source{src}, testLogger())
	_, err := agg.Run(context.Background())
	require.NoError(t, err)

	contests, err := ListContests(db)
	require.NoError(t, err)
	require.Len(t, contests, 1)
	assert.Equal(t, "Other", contests[0].ContestType.Name)
}
