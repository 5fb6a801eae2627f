package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/handlers"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/middleware"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
)

// asUser injects a resolved user the way the auth middleware would.
func asUser(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserContextKey, user)
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user, err := services.FindOrCreateUser(db, "subject-1", "Alice", "alice@example.com")
	require.NoError(t, err)
	return user
}

func TestGetPreferences(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, services.ReplacePreferences(db, user.ID, []uint{services.ContestTypeWeekly, services.ContestTypeDiv2}))

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Get("/api/user/preferences", asUser(user), handler.GetPreferences)

	req := httptest.NewRequest("GET", "/api/user/preferences", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result, 2)
	assert.Equal(t, "Weekly", result[0]["name"])
	assert.Equal(t, "Div2", result[1]["name"])
}

func TestGetPreferencesUnauthenticated(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Get("/api/user/preferences", handler.GetPreferences)

	req := httptest.NewRequest("GET", "/api/user/preferences", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Not authenticated", result["error"])
}

func TestUpdatePreferences(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, services.ReplacePreferences(db, user.ID, []uint{services.ContestTypeWeekly}))

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Post("/api/user/preferences", asUser(user), handler.UpdatePreferences)

	body, _ := json.Marshal(map[string]interface{}{
		"contestTypeIds": []int{3, 4},
	})
	req := httptest.NewRequest("POST", "/api/user/preferences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Preferences updated", result["message"])

	prefs, err := services.PreferencesForUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "Div1", prefs[0].Name)
	assert.Equal(t, "Div2", prefs[1].Name)
}

func TestUpdatePreferencesAcceptsStringIDs(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Post("/api/user/preferences", asUser(user), handler.UpdatePreferences)

	// Clients sometimes send ids as strings; both forms are accepted.
	req := httptest.NewRequest("POST", "/api/user/preferences",
		bytes.NewReader([]byte(`{"contestTypeIds": ["1", 2]}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	prefs, err := services.PreferencesForUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "Weekly", prefs[0].Name)
	assert.Equal(t, "Biweekly", prefs[1].Name)
}

func TestUpdatePreferencesInvalidBody(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Post("/api/user/preferences", asUser(user), handler.UpdatePreferences)

	req := httptest.NewRequest("POST", "/api/user/preferences", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpdatePreferencesUnknownID(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Post("/api/user/preferences", asUser(user), handler.UpdatePreferences)

	body, _ := json.Marshal(map[string]interface{}{
		"contestTypeIds": []int{99},
	})
	req := httptest.NewRequest("POST", "/api/user/preferences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestGetInfo(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, services.ReplacePreferences(db, user.ID, []uint{services.ContestTypeBiweekly}))

	app := fiber.New()
	handler := &handlers.UserHandler{DB: db, Logger: testLogger()}
	app.Get("/api/user/info", asUser(user), handler.GetInfo)

	req := httptest.NewRequest("GET", "/api/user/info", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Alice", result["name"])
	assert.Equal(t, "alice@example.com", result["email"])

	prefs, ok := result["preferences"].([]interface{})
	require.True(t, ok)
	require.Len(t, prefs, 1)
}
