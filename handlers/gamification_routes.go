package handlers

import (
	"time"

	"nestory-backend/middleware"
	"nestory-backend/models"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// populatedBadge swaps the badge id in an earned entry for catalog detail.
type populatedBadge struct {
	Badge    interface{} `json:"badge"`
	EarnedAt time.Time   `json:"earnedAt"`
}

type populatedAchievement struct {
	Achievement interface{} `json:"achievement"`
	Progress    int         `json:"progress"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt"`
}

type populatedProgress struct {
	*models.UserProgress
	Badges       []populatedBadge       `json:"badges"`
	Achievements []populatedAchievement `json:"achievements"`
}

func SetupGamificationRoutes(app *fiber.App, auth *services.AuthService,
	g *services.GamificationService, badges *services.BadgeService, achievements *services.AchievementService) {

	group := app.Group("/api/gamification", middleware.Protect(auth))
	admin := middleware.AdminOnly()

	group.Get("/progress/:userId", func(c *fiber.Ctx) error {
		prog, err := g.GetProgress(c.Params("userId"), c.Query("childId"))
		if err != nil {
			return err
		}

		populated, err := populateProgress(prog, badges, achievements)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "User progress", populated)
	})

	group.Post("/points/award", func(c *fiber.Ctx) error {
		var req struct {
			UserID      string                 `json:"userId"`
			ChildID     string                 `json:"childId"`
			Points      int                    `json:"points"`
			Source      string                 `json:"source"`
			Description string                 `json:"description"`
			Reference   *models.TransactionRef `json:"reference"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.UserID == "" || req.Source == "" {
			return utils.NewValidationError("userId and source are required")
		}

		ref := models.NoRef()
		if req.Reference != nil {
			ref = *req.Reference
		}

		res, err := g.AwardPoints(req.UserID, req.Points, req.Source, req.Description, req.ChildID, ref)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Points awarded successfully", fiber.Map{
			"transaction":    res.Transaction,
			"currentBalance": res.Progress.TotalPoints,
			"level":          res.Progress.Level,
			"streak":         res.Progress.CurrentStreak,
		})
	})

	group.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		childSpecific := c.QueryBool("childSpecific")

		records, err := g.GetLeaderboard(limit, childSpecific)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Leaderboard fetched", len(records), records)
	})

	group.Get("/badges", func(c *fiber.Ctx) error {
		var isActive *bool
		if c.Query("isActive") != "" {
			v := c.QueryBool("isActive")
			isActive = &v
		}

		list, err := badges.ListBadges(c.Query("category"), c.Query("tier"), isActive)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Badges fetched", len(list), list)
	})

	group.Post("/badges", admin, func(c *fiber.Ctx) error {
		var badge models.Badge
		if err := c.BodyParser(&badge); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if badge.Name == "" || badge.Description == "" {
			return utils.NewValidationError("name and description are required")
		}

		if err := badges.CreateBadge(&badge); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Badge created successfully", badge)
	})

	group.Post("/badges/award", admin, func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"userId"`
			ChildID string `json:"childId"`
			BadgeID string `json:"badgeId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.UserID == "" || req.BadgeID == "" {
			return utils.NewValidationError("userId and badgeId are required")
		}

		badge, prog, err := badges.AwardBadge(g, req.UserID, req.ChildID, req.BadgeID)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, "Badge awarded successfully", fiber.Map{
			"badge":       badge,
			"totalPoints": prog.TotalPoints,
			"level":       prog.Level,
		})
	})

	group.Get("/achievements", func(c *fiber.Ctx) error {
		var isActive *bool
		if c.Query("isActive") != "" {
			v := c.QueryBool("isActive")
			isActive = &v
		}

		list, err := achievements.ListAchievements(c.Query("category"), c.Query("difficulty"), isActive)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Achievements fetched", len(list), list)
	})

	group.Post("/achievements", admin, func(c *fiber.Ctx) error {
		var ach models.Achievement
		if err := c.BodyParser(&ach); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if ach.Name == "" || ach.Description == "" {
			return utils.NewValidationError("name and description are required")
		}

		if err := achievements.CreateAchievement(&ach); err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusCreated, "Achievement created successfully", ach)
	})

	group.Post("/achievements/progress", func(c *fiber.Ctx) error {
		var req struct {
			UserID            string `json:"userId"`
			ChildID           string `json:"childId"`
			AchievementID     string `json:"achievementId"`
			ProgressIncrement int    `json:"progressIncrement"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.NewValidationError("Invalid request body")
		}
		if req.UserID == "" || req.AchievementID == "" {
			return utils.NewValidationError("userId and achievementId are required")
		}

		res, err := achievements.AdvanceAchievement(g, req.UserID, req.ChildID, req.AchievementID, req.ProgressIncrement)
		if err != nil {
			return err
		}

		if res.CompletedNow {
			return utils.Success(c, fiber.StatusOK, "Achievement completed!", fiber.Map{
				"achievement":  res.Achievement,
				"entry":        res.Entry,
				"rewardPoints": res.Achievement.Reward.Points,
				"totalPoints":  res.TotalPoints,
				"level":        res.Level,
			})
		}
		return utils.Success(c, fiber.StatusOK, "Achievement progress updated", fiber.Map{
			"achievement": res.Achievement,
			"entry":       res.Entry,
		})
	})

	group.Get("/transactions/:userId", func(c *fiber.Ctx) error {
		txs, err := g.GetTransactions(
			c.Params("userId"),
			c.Query("childId"),
			c.Query("type"),
			c.Query("source"),
			c.QueryInt("limit", 50),
		)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "Transaction history", len(txs), txs)
	})

	group.Get("/user-badges/:userId", func(c *fiber.Ctx) error {
		prog, err := g.GetProgress(c.Params("userId"), c.Query("childId"))
		if err != nil {
			return err
		}

		earned, err := populateBadges(prog.Badges, badges)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "User badges", len(earned), earned)
	})

	group.Get("/user-achievements/:userId", func(c *fiber.Ctx) error {
		prog, err := g.GetProgress(c.Params("userId"), c.Query("childId"))
		if err != nil {
			return err
		}

		entries, err := populateAchievements(prog.Achievements, achievements)
		if err != nil {
			return err
		}
		return utils.SuccessList(c, "User achievements", len(entries), entries)
	})
}

func populateBadges(earned []models.EarnedBadge, badges *services.BadgeService) ([]populatedBadge, error) {
	ids := make([]string, 0, len(earned))
	for _, b := range earned {
		ids = append(ids, b.Badge)
	}
	catalog, err := badges.GetBadgesByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]populatedBadge, 0, len(earned))
	for _, b := range earned {
		entry := populatedBadge{Badge: b.Badge, EarnedAt: b.EarnedAt}
		if detail, ok := catalog[b.Badge]; ok {
			entry.Badge = detail
		}
		out = append(out, entry)
	}
	return out, nil
}

func populateAchievements(entries []models.AchievementEntry, achievements *services.AchievementService) ([]populatedAchievement, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Achievement)
	}
	catalog, err := achievements.GetAchievementsByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]populatedAchievement, 0, len(entries))
	for _, e := range entries {
		entry := populatedAchievement{
			Achievement: e.Achievement,
			Progress:    e.Progress,
			Completed:   e.Completed,
			CompletedAt: e.CompletedAt,
		}
		if detail, ok := catalog[e.Achievement]; ok {
			entry.Achievement = detail
		}
		out = append(out, entry)
	}
	return out, nil
}

func populateProgress(prog *models.UserProgress, badges *services.BadgeService, achievements *services.AchievementService) (*populatedProgress, error) {
	earned, err := populateBadges(prog.Badges, badges)
	if err != nil {
		return nil, err
	}
	entries, err := populateAchievements(prog.Achievements, achievements)
	if err != nil {
		return nil, err
	}
	return &populatedProgress{UserProgress: prog, Badges: earned, Achievements: entries}, nil
}
