package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authorizerdev/authorizer-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/config"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

func setupAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ContestType{}))

	// Stand-in identity server so client initialization can succeed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AuthzURL:       srv.URL,
		AuthzClientID:  "test-client",
		FrontendOrigin: "http://localhost:3000",
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*types.CustomError); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected", AuthUser(cfg, db), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthUserRejectsMissingCookie(t *testing.T) {
	app := setupAuthTestApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUserAbsent(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := CurrentUser(c)
		assert.False(t, ok)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	_, err := app.Test(req)
	require.NoError(t, err)
}

func TestDisplayName(t *testing.T) {
	given := "Ada"
	family := "Lovelace"
	empty := ""

	tests := []struct {
		name    string
		profile *authorizer.User
		want    string
	}{
		{
			name:    "given and family",
			profile: &authorizer.User{GivenName: &given, FamilyName: &family, Email: "ada@example.com"},
			want:    "Ada Lovelace",
		},
		{
			name:    "given only",
			profile: &authorizer.User{GivenName: &given, Email: "ada@example.com"},
			want:    "Ada",
		},
		{
			name:    "empty names fall back to email local part",
			profile: &authorizer.User{GivenName: &empty, Email: "ada@example.com"},
			want:    "ada",
		},
		{
			name:    "no names",
			profile: &authorizer.User{Email: "ada@example.com"},
			want:    "ada",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, displayName(tc.profile))
		})
	}
}
