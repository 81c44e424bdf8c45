package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupFamilyRoutes(app *fiber.App, auth *services.AuthService, families *services.FamilyService) {
	group := app.Group("/api/family", middleware.Protect(auth))

	group.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			FamilyName string `json:"familyName"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		family, err := families.CreateFamily(middleware.UserID(c), req.FamilyName)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Family created successfully", family)
	})

	group.Get("/my", func(c *fiber.Ctx) error {
		family, err := families.GetFamily(middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Family fetched", family)
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		family, err := families.GetFamilyByID(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Family fetched", family)
	})

	group.Put("/:id", func(c *fiber.Ctx) error {
		var req struct {
			FamilyName string `json:"familyName"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		if _, err := families.GetFamilyByID(middleware.UserID(c), c.Params("id")); err != nil {
			return err
		}
		family, err := families.UpdateFamily(middleware.UserID(c), req.FamilyName)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Family updated", family)
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		if _, err := families.GetFamilyByID(middleware.UserID(c), c.Params("id")); err != nil {
			return err
		}
		if err := families.DeleteFamily(middleware.UserID(c)); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Family deleted", nil)
	})
}
