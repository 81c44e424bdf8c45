package handlers

import (
	"time"

	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAssignmentRoutes(app *fiber.App, auth *services.AuthService, assignments *services.AssignmentService) {
	group := app.Group("/api/assignments", middleware.Protect(auth))

	group.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			ChildID string     `json:"childId"`
			StoryID string     `json:"storyId"`
			DueDate *time.Time `json:"dueDate"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.ChildID == "" || req.StoryID == "" {
			return utils.NewValidationError("childId and storyId are required")
		}

		assignment, err := assignments.CreateAssignment(middleware.UserID(c), req.ChildID, req.StoryID, req.DueDate)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Assignment created successfully", assignment)
	})

	group.Get("/child/:childId", func(c *fiber.Ctx) error {
		list, err := assignments.ListChildAssignments(middleware.UserID(c), c.Params("childId"), c.Query("status"))
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Assignments fetched", len(list), list)
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		assignment, err := assignments.GetAssignment(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Assignment fetched", assignment)
	})

	group.Put("/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		assignment, err := assignments.UpdateStatus(middleware.UserID(c), c.Params("id"), req.Status)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Assignment status updated", assignment)
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		if err := assignments.DeleteAssignment(middleware.UserID(c), c.Params("id")); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Assignment deleted", nil)
	})
}
