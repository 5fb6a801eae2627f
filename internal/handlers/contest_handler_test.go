package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/handlers"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Platform{},
		&models.ContestType{},
		&models.Contest{},
		&models.AggregationRun{},
	)
	require.NoError(t, err, "Failed to migrate test database")

	require.NoError(t, services.SeedContestTypes(db))
	return db
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// stubRunner satisfies handlers.AggregationRunner without real sources.
type stubRunner struct {
	count int
	err   error
	calls int
}

func (s *stubRunner) Run(_ context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestGetContestTypes(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.ContestHandler{DB: db, Logger: testLogger()}
	app.Get("/api/contest-types", handler.GetContestTypes)

	req := httptest.NewRequest("GET", "/api/contest-types", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result, 7)
	assert.Equal(t, "Weekly", result[0]["name"])
	assert.Equal(t, "Other", result[6]["name"])
}

func TestListContests(t *testing.T) {
	db := setupTestDB(t)

	platform, err := services.FindOrCreatePlatform(db, "Codeforces")
	require.NoError(t, err)
	require.NoError(t, services.ReplaceAllContests(db, []models.Contest{
		{Name: "Round B", StartTime: 5000, Duration: 7200, PlatformID: platform.ID, ContestTypeID: services.ContestTypeDiv2},
		{Name: "Round A", StartTime: 2000, Duration: 7200, PlatformID: platform.ID, ContestTypeID: services.ContestTypeDiv1},
	}))

	app := fiber.New()
	handler := &handlers.ContestHandler{DB: db, Logger: testLogger()}
	app.Get("/api/contests", handler.ListContests)

	req := httptest.NewRequest("GET", "/api/contests", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result, 2)
	assert.Equal(t, "Round A", result[0]["name"])
	assert.Equal(t, "Codeforces", result[0]["platform"])
	assert.Equal(t, "Div1", result[0]["contestType"])
	assert.Equal(t, "Round B", result[1]["name"])
}

func TestListContestsEmpty(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.ContestHandler{DB: db, Logger: testLogger()}
	app.Get("/api/contests", handler.ListContests)

	req := httptest.NewRequest("GET", "/api/contests", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result)
}

func TestUpdateContests(t *testing.T) {
	db := setupTestDB(t)
	runner := &stubRunner{count: 5}

	app := fiber.New()
	handler := &handlers.ContestHandler{DB: db, Aggregator: runner, Logger: testLogger()}
	app.Post("/api/updateContests", handler.UpdateContests)

	req := httptest.NewRequest("POST", "/api/updateContests", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, runner.calls)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Contests updated", result["message"])
	assert.EqualValues(t, 5, result["count"])
}

func TestUpdateContestsFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := &stubRunner{err: errors.New("source down")}

	app := fiber.New()
	handler := &handlers.ContestHandler{DB: db, Aggregator: runner, Logger: testLogger()}
	app.Post("/api/updateContests", handler.UpdateContests)

	req := httptest.NewRequest("POST", "/api/updateContests", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Failed to update contests", result["error"])
}
