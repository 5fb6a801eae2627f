package middleware

import (
	"strings"

	"github.com/authorizerdev/authorizer-go"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/config"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

// UserContextKey is where the resolved local user lands in fiber locals.
const UserContextKey = "user"

// AuthUser validates the session cookie against the identity provider and
// resolves the local user row, creating it on first login. Unauthenticated
// requests are rejected with 401 before any domain logic runs.
func AuthUser(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusInternalServerError,
					Message: "Authentication service unavailable",
					Type:    "auth.init",
				}
			}
		}

		session := c.Cookies("cookie_session")
		if session == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authenticated",
				Type:    "auth.session",
			}
		}

		profile, err := services.ValidateSession(session)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authenticated",
				Type:    "auth.session",
			}
		}

		user, err := services.FindOrCreateUser(db, profile.ID, displayName(profile), profile.Email)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusInternalServerError,
				Message: "Failed to resolve user",
				Type:    "auth.user",
			}
		}

		c.Locals(UserContextKey, user)
		return c.Next()
	}
}

// CurrentUser extracts the local user set by AuthUser.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(UserContextKey).(models.User)
	return user, ok
}

// displayName builds a human name from the provider profile, falling back
// to the email local part when no name fields are set.
func displayName(profile *authorizer.User) string {
	var parts []string
	if profile.GivenName != nil && *profile.GivenName != "" {
		parts = append(parts, *profile.GivenName)
	}
	if profile.FamilyName != nil && *profile.FamilyName != "" {
		parts = append(parts, *profile.FamilyName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if at := strings.Index(profile.Email, "@"); at > 0 {
		return profile.Email[:at]
	}
	return profile.Email
}
