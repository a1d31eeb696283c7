package controllers

import (
	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/stats"

	"github.com/gofiber/fiber/v2"
)

type StatsController struct {
	statsService stats.StatsService
	logger       log.Logger
}

func NewStatsController(statsService stats.StatsService, logger log.Logger) *StatsController {
	return &StatsController{
		statsService: statsService,
		logger:       logger,
	}
}

func (c *StatsController) Route(app *fiber.App, requireAdmin fiber.Handler) {
	app.Get("/api/admin/stats", requireAdmin, c.Dashboard)
}

// Dashboard godoc
// @Summary      Dashboard figures
// @Description  Revenue and units sold over delivered orders, with a seven day revenue chart
// @Tags         admin-stats
// @Produce      json
// @Security     AdminSession
// @Success      200  {object}  stats.Dashboard
// @Failure      401  {object}  models.MessageResponse
// @Failure      503  {object}  models.MessageResponse
// @Router       /api/admin/stats [get]
func (c *StatsController) Dashboard(ctx *fiber.Ctx) error {
	dash, err := c.statsService.Dashboard(ctx.UserContext())
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(dash)
}
