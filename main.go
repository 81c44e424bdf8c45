package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nestory-backend/handlers"
	"nestory-backend/models"
	"nestory-backend/services"
	"nestory-backend/utils"
	"nestory-backend/workers"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, reading environment variables directly")
	}

	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Family{},
		&models.Child{},
		&models.Story{},
		&models.Assignment{},
		&models.ReadingSession{},
		&models.UserProgress{},
		&models.Badge{},
		&models.Achievement{},
		&models.PointTransaction{},
	); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	if err := services.SeedGamification(db); err != nil {
		log.WithError(err).Fatal("failed to seed gamification catalogs")
	}

	if err := utils.InitStorage(); err != nil {
		log.WithError(err).Fatal("failed to initialize object storage client")
	}

	// Redis is optional: without it the leaderboard serves straight from the DB.
	var leaderboard *services.LeaderboardCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache := services.NewLeaderboardCache(addr, os.Getenv("REDIS_PASSWORD"))
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.WithError(err).Warn("redis unreachable, leaderboard cache disabled")
		} else {
			leaderboard = cache
			log.Info("leaderboard cache enabled")
		}
		cancel()
	}

	authService := services.NewAuthService(db)
	gamificationService := services.NewGamificationService(db, leaderboard)
	achievementService := services.NewAchievementService(db)
	familyService := services.NewFamilyService(db)
	childService := services.NewChildService(db)
	storyService := services.NewStoryService(db, services.NewGoogleBooksClient())
	assignmentService := services.NewAssignmentService(db, gamificationService)
	readingService := services.NewReadingService(db, gamificationService)
	dashboardService := services.NewDashboardService(db)

	app := fiber.New(fiber.Config{
		AppName:      "nestory-backend",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupFamilyRoutes(app, authService, familyService)
	handlers.SetupChildrenRoutes(app, authService, childService)
	handlers.SetupStoryRoutes(app, authService, storyService)
	handlers.SetupAssignmentRoutes(app, authService, assignmentService)
	handlers.SetupSessionRoutes(app, authService, readingService)
	handlers.SetupDashboardRoutes(app, authService, dashboardService)
	handlers.SetupGamificationRoutes(app, authService, gamificationService, gamificationService.Badges, achievementService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readingService.StartSessionSweeper()

	syncWorker := workers.NewStorySyncWorker(db, storyService)
	go syncWorker.Run(ctx, 24*time.Hour)

	port := getEnv("PORT", "5000")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Error("server stopped")
		}
	}()
	log.WithField("port", port).Info("server running")

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
