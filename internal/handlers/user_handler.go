package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/middleware"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/utils"
)

// UserHandler handles the session-gated user routes
type UserHandler struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

// preferencesInput is the POST /api/user/preferences request body.
type preferencesInput struct {
	ContestTypeIDs []types.FlexID `json:"contestTypeIds"`
}

// GetPreferences handles GET /api/user/preferences
// @Summary Get reminder preferences
// @Description Get the caller's subscribed contest categories
// @Tags User
// @Produce json
// @Success 200 {array} models.ContestType
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/preferences [get]
func (h *UserHandler) GetPreferences(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrorResponse(c, "Not authenticated", fiber.StatusUnauthorized)
	}

	preferences, err := services.PreferencesForUser(h.DB, user.ID)
	if err != nil {
		h.Logger.WithError(err).Error("failed to load preferences")
		return utils.ErrorResponse(c, "Failed to load preferences", fiber.StatusInternalServerError)
	}
	return utils.SuccessResponse(c, preferences, fiber.StatusOK)
}

// UpdatePreferences handles POST /api/user/preferences
// @Summary Replace reminder preferences
// @Description Overwrite the caller's entire subscription set
// @Tags User
// @Accept json
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/preferences [post]
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrorResponse(c, "Not authenticated", fiber.StatusUnauthorized)
	}

	var input preferencesInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest)
	}

	ids := make([]uint, 0, len(input.ContestTypeIDs))
	for _, id := range input.ContestTypeIDs {
		ids = append(ids, id.Uint())
	}

	if err := services.ReplacePreferences(h.DB, user.ID, ids); err != nil {
		h.Logger.WithError(err).Error("failed to update preferences")
		return utils.ErrorResponse(c, "Update failed", fiber.StatusInternalServerError)
	}
	return utils.MessageResponse(c, "Preferences updated")
}

// GetInfo handles GET /api/user/info
// @Summary Get account info
// @Description Get the caller's name, email and subscribed categories
// @Tags User
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/info [get]
func (h *UserHandler) GetInfo(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrorResponse(c, "Not authenticated", fiber.StatusUnauthorized)
	}

	preferences, err := services.PreferencesForUser(h.DB, user.ID)
	if err != nil {
		h.Logger.WithError(err).Error("failed to load user info")
		return utils.ErrorResponse(c, "Failed to load user info", fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"name":        user.Name,
		"email":       user.Email,
		"preferences": preferences,
	})
}
