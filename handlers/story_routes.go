package handlers

import (
	"nestory-backend/middleware"
	"nestory-backend/models"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupStoryRoutes(app *fiber.App, auth *services.AuthService, stories *services.StoryService) {
	group := app.Group("/api/stories")
	protect := middleware.Protect(auth)
	admin := middleware.AdminOnly()

	group.Get("/", func(c *fiber.Ctx) error {
		page, err := stories.ListStories(services.StoryFilter{
			AgeGroup:     c.Query("ageGroup"),
			ReadingLevel: c.Query("readingLevel"),
			Genre:        c.Query("genre"),
			Search:       c.Query("search"),
			Page:         c.QueryInt("page"),
			Limit:        c.QueryInt("limit"),
		})
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Stories fetched", len(page.Stories), page)
	})

	group.Get("/google/search", protect, func(c *fiber.Ctx) error {
		books, err := stories.SearchGoogle(c.Query("q"))
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Google Books results", len(books), books)
	})

	group.Post("/google/import/:googleBookId", protect, admin, func(c *fiber.Ctx) error {
		var req struct {
			AgeGroup string `json:"ageGroup"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		story, err := stories.ImportGoogleBook(c.Params("googleBookId"), req.AgeGroup, middleware.UserID(c))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Story imported successfully", story)
	})

	group.Put("/google/sync/:id", protect, admin, func(c *fiber.Ctx) error {
		story, err := stories.SyncGoogleStory(c.Params("id"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Story metadata synced", story)
	})

	group.Get("/:storyId/access/:childId", protect, func(c *fiber.Ctx) error {
		story, child, err := stories.CheckAccess(c.Params("storyId"), c.Params("childId"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Access granted", fiber.Map{
			"story": story,
			"child": child,
		})
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		story, err := stories.GetStory(c.Params("id"))
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Story fetched", story)
	})

	group.Post("/", protect, admin, func(c *fiber.Ctx) error {
		var story models.Story
		if err := c.BodyParser(&story); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if story.Title == "" || story.Author == "" {
			return utils.NewValidationError("title and author are required")
		}

		if err := stories.CreateStory(&story, middleware.UserID(c)); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Story created successfully", story)
	})

	group.Put("/:id", protect, admin, func(c *fiber.Ctx) error {
		var updates map[string]interface{}
		if err := c.BodyParser(&updates); err != nil {
			return utils.NewValidationError("Invalid request body")
		}

		story, err := stories.UpdateStory(c.Params("id"), updates)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Story updated", story)
	})

	group.Post("/:id/cover", protect, admin, func(c *fiber.Ctx) error {
		file, err := c.FormFile("cover")
		if err != nil {
			return utils.NewValidationError("cover file is required")
		}

		story, uploadErr := stories.UploadCover(c.Params("id"), file)
		if uploadErr != nil {
			return uploadErr
		}
		return utils.Success(c, fiber.StatusOK, "Cover uploaded", story)
	})

	group.Delete("/:id", protect, admin, func(c *fiber.Ctx) error {
		if err := stories.DeleteStory(c.Params("id")); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Story deleted", nil)
	})
}
