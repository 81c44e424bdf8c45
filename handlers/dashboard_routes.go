package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, auth *services.AuthService, dashboards *services.DashboardService) {
	group := app.Group("/api/dashboard", middleware.Protect(auth))

	group.Get("/family", func(c *fiber.Ctx) error {
		dash, err := dashboards.GetFamilyDashboard(middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Family dashboard", dash)
	})

	group.Get("/child/:childId", func(c *fiber.Ctx) error {
		dash, err := dashboards.GetChildDashboard(middleware.UserID(c), c.Params("childId"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Child dashboard", dash)
	})

	group.Get("/summary", func(c *fiber.Ctx) error {
		summary, err := dashboards.GetSummary(middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Dashboard summary", summary)
	})
}
