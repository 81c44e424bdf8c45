package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func SetupAuthRoutes(app *fiber.App, auth *services.AuthService) {
	group := app.Group("/api/auth")
	protect := middleware.Protect(auth)
	admin := middleware.AdminOnly()

	group.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		user, token, err := auth.Register(req.Name, req.Email, req.Password)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
			"user":  user,
			"token": token,
		})
	})

	group.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		user, token, err := auth.Login(req.Email, req.Password)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
			"user":  user,
			"token": token,
		})
	})

	group.Get("/me", protect, func(c *fiber.Ctx) error {
		user, err := auth.GetUser(middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "User profile", user)
	})

	group.Put("/profile", protect, func(c *fiber.Ctx) error {
		var req struct {
			Name           string `json:"name"`
			ProfilePicture string `json:"profilePicture"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		user, err := auth.UpdateProfile(middleware.UserID(c), req.Name, req.ProfilePicture)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Profile updated", user)
	})

	group.Get("/users", protect, admin, func(c *fiber.Ctx) error {
		users, err := auth.ListUsers()
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Users fetched", len(users), users)
	})

	group.Delete("/users/:id", protect, admin, func(c *fiber.Ctx) error {
		if err := auth.DeleteUser(c.Params("id")); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "User deleted", nil)
	})
}
