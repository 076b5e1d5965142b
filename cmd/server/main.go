package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jashan-dhillon/mira-matching/internal/config"
	"github.com/jashan-dhillon/mira-matching/internal/domain/fiber/handler"
	"github.com/jashan-dhillon/mira-matching/internal/logger"
	"github.com/jashan-dhillon/mira-matching/internal/mailer"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/jashan-dhillon/mira-matching/internal/middleware"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/jashan-dhillon/mira-matching/internal/repository"
	"github.com/jashan-dhillon/mira-matching/internal/service"
	"github.com/jashan-dhillon/mira-matching/internal/usecase"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	log, err := logger.New(appConfig.Env == "production", appConfig.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(healthcheck.New())
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := connectDB(log)

	itemRepo := repository.NewItemRepository(db)
	expertRepo := repository.NewExpertRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	panelRepo := repository.NewPanelRepository(db)
	runRepo := repository.NewMatchRunRepository(db)

	// Both AI backends are best-effort signal sources: a missing one
	// degrades scoring to its fallback path instead of stopping the server.
	var embedder matching.EmbeddingSource
	if gemini, err := service.NewGeminiService(ctx, log); err != nil {
		log.Warn("embedding source unavailable, geometric scoring disabled", zap.Error(err))
	} else {
		embedder = gemini
	}

	judge := service.NewOllamaService(log)

	engine := matching.NewEngine(embedder, judge, log)
	smtp := mailer.NewSMTPMailer(log)

	uc := usecase.NewMatchingUsecase(
		itemRepo, expertRepo, candidateRepo, panelRepo, runRepo,
		engine, embedder, smtp, log)

	handler.NewMatchingHandler(uc).RegisterRoutes(app)
	handler.NewPanelHandler(uc).RegisterRoutes(app)
	handler.NewItemHandler(uc).RegisterRoutes(app)

	log.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func connectDB(log *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.Item{},
		&model.Expert{},
		&model.Candidate{},
		&model.Panel{},
		&model.MatchRun{},
	)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	return db
}
