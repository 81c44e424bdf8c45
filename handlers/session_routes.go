package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoutes(app *fiber.App, auth *services.AuthService, reading *services.ReadingService) {
	group := app.Group("/api/sessions", middleware.Protect(auth))

	group.Post("/start", func(c *fiber.Ctx) error {
		var req struct {
			ChildID    string `json:"childId"`
			BookID     string `json:"bookId"`
			TotalPages int    `json:"totalPages"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.ChildID == "" || req.BookID == "" {
			return utils.NewValidationError("childId and bookId are required")
		}

		session, err := reading.StartSession(middleware.UserID(c), req.ChildID, req.BookID, req.TotalPages)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Reading session started", session)
	})

	group.Post("/update", func(c *fiber.Ctx) error {
		var req struct {
			SessionID string `json:"sessionId"`
			PagesRead int    `json:"pagesRead"`
			TimeSpent int    `json:"timeSpent"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.SessionID == "" {
			return utils.NewValidationError("sessionId is required")
		}

		update, err := reading.UpdateSession(middleware.UserID(c), req.SessionID, req.PagesRead, req.TimeSpent)
		if err != nil {
			return err
		}

		message := "Reading session updated"
		if update.Completed {
			message = "Book completed! Points awarded"
		}
		return utils.Success(c, fiber.StatusOK, message, update)
	})

	group.Get("/weekly/:childId", func(c *fiber.Ctx) error {
		stats, err := reading.GetWeeklyTime(middleware.UserID(c), c.Params("childId"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Weekly reading time", stats)
	})

	group.Get("/streak/:childId", func(c *fiber.Ctx) error {
		streak, err := reading.GetReadingStreak(middleware.UserID(c), c.Params("childId"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Reading streak", fiber.Map{"streak": streak})
	})
}
