package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/utils"
)

// AggregationRunner triggers one contest refresh. Satisfied by
// services.Aggregator; narrowed to an interface so handler tests can stub it.
type AggregationRunner interface {
	Run(ctx context.Context) (int, error)
}

// ContestHandler handles the public contest routes
type ContestHandler struct {
	DB         *gorm.DB
	Aggregator AggregationRunner
	Logger     *logrus.Logger
}

// contestView is the list-endpoint projection of a contest row.
type contestView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	StartTime   int64  `json:"startTime"`
	Duration    int64  `json:"duration"`
	Platform    string `json:"platform"`
	ContestType string `json:"contestType"`
}

// GetContestTypes handles GET /api/contest-types
// @Summary List contest categories
// @Description Get the fixed contest category enumeration
// @Tags Contests
// @Produce json
// @Success 200 {array} models.ContestType
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contest-types [get]
func (h *ContestHandler) GetContestTypes(c *fiber.Ctx) error {
	contestTypes, err := services.ListContestTypes(h.DB)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list contest types")
		return utils.ErrorResponse(c, "Failed to load contest types", fiber.StatusInternalServerError)
	}
	return utils.SuccessResponse(c, contestTypes, fiber.StatusOK)
}

// ListContests handles GET /api/contests
// @Summary List upcoming contests
// @Description Get all contests with platform and category, ordered by start time
// @Tags Contests
// @Produce json
// @Success 200 {array} handlers.contestView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contests [get]
func (h *ContestHandler) ListContests(c *fiber.Ctx) error {
	contests, err := services.ListContests(h.DB)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list contests")
		return utils.ErrorResponse(c, "Failed to load contests", fiber.StatusInternalServerError)
	}

	views := make([]contestView, 0, len(contests))
	for _, contest := range contests {
		views = append(views, contestView{
			ID:          contest.ID,
			Name:        contest.Name,
			StartTime:   contest.StartTime,
			Duration:    contest.Duration,
			Platform:    contest.Platform.Name,
			ContestType: contest.ContestType.Name,
		})
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// UpdateContests handles POST /api/updateContests
// @Summary Refresh the contest table
// @Description Fetch all sources and atomically replace the contest set
// @Tags Contests
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /updateContests [post]
func (h *ContestHandler) UpdateContests(c *fiber.Ctx) error {
	count, err := h.Aggregator.Run(c.Context())
	if err != nil {
		h.Logger.WithError(err).Error("contest update failed")
		return utils.ErrorResponse(c, "Failed to update contests", fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Contests updated",
		"count":   count,
	})
}
