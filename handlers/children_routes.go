package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupChildrenRoutes(app *fiber.App, auth *services.AuthService, children *services.ChildService) {
	group := app.Group("/api/children", middleware.Protect(auth))

	group.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		child, err := children.AddChild(middleware.UserID(c), req.Name, req.Age)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Child added successfully", child)
	})

	group.Get("/", func(c *fiber.Ctx) error {
		list, err := children.ListChildren(middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Children fetched", len(list), list)
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		child, err := children.GetChild(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Child fetched", child)
	})

	group.Put("/:id", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name"`
			Age  *int   `json:"age"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		child, err := children.UpdateChild(middleware.UserID(c), c.Params("id"), req.Name, req.Age)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Child updated", child)
	})

	group.Post("/:id/avatar", func(c *fiber.Ctx) error {
		file, err := c.FormFile("avatar")
		if err != nil {
			return utils.NewValidationError("avatar file is required")
		}

		child, uploadErr := children.UploadAvatar(middleware.UserID(c), c.Params("id"), file)
		if uploadErr != nil {
			return uploadErr
		}
		return utils.Success(c, fiber.StatusOK, "Avatar uploaded", child)
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		if err := children.RemoveChild(middleware.UserID(c), c.Params("id")); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Child removed", nil)
	})
}
