package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/thanhng/cv-match/internal/config"
	"github.com/thanhng/cv-match/internal/domain/fiber/handler"
	"github.com/thanhng/cv-match/internal/middleware"
	"github.com/thanhng/cv-match/internal/model"
	"github.com/thanhng/cv-match/internal/repository"
	"github.com/thanhng/cv-match/internal/service"
	"github.com/thanhng/cv-match/internal/usecase"
	"go.uber.org/zap"
	"google.golang.org/genai"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	engineConfig := config.LoadEngineConfig()

	zlog := newLogger(appConfig.Env)
	defer zlog.Sync()

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
	app.Use(logger.New())
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
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB(zlog)

	jobRepo := repository.NewJobRepository(db)
	matchRepo := repository.NewMatchRecordRepository(db)

	extractor := service.NewSkillExtractor(engineConfig.SkillsAssetPath, zlog)

	geminiConfig := config.LoadGeminiConfig()
	var geminiClient *genai.Client
	if geminiConfig.APIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  geminiConfig.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			zlog.Warn("gemini client unavailable, engine runs on lexical fallback", zap.Error(err))
		} else {
			geminiClient = client
		}
	} else {
		zlog.Warn("GEMINI_API_KEY not set, engine runs on lexical fallback")
	}

	var embedder service.Embedder
	if geminiClient != nil {
		embedder = service.NewGeminiEmbedder(geminiClient, zlog)
	}
	embeddings := service.NewEmbeddingService(
		embedder,
		geminiConfig.EmbeddingModel,
		geminiConfig.EmbeddingFallback,
		engineConfig.EmbeddingCacheSize,
		zlog,
	)
	scorer := service.NewScorer(embeddings, zlog)

	var enrichment service.EnrichmentService
	switch engineConfig.EnrichmentProvider {
	case "gemini":
		if geminiClient != nil {
			enrichment = service.NewGeminiEnrichment(geminiClient, geminiConfig.GenerationModel, extractor, zlog)
		} else {
			zlog.Warn("gemini enrichment requested but client is unavailable")
		}
	case "openrouter":
		openRouterConfig := config.LoadOpenRouterConfig()
		if openRouterConfig.APIKey != "" {
			enrichment = service.NewOpenRouterEnrichment(openRouterConfig.APIKey, openRouterConfig.Model, extractor, zlog)
		} else {
			zlog.Warn("openrouter enrichment requested but OPENROUTER_API_KEY is not set")
		}
	}

	uc := usecase.NewMatchUsecase(jobRepo, matchRepo, extractor, embeddings, scorer, enrichment, engineConfig, zlog)
	h := handler.NewMatchHandler(uc)
	h.RegisterRoutes(app)

	zlog.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var zlog *zap.Logger
	var err error
	if env == "production" {
		zlog, err = zap.NewProduction()
	} else {
		zlog, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	return zlog
}

func ConnectDB(zlog *zap.Logger) *gorm.DB {
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
		zlog.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", zap.Error(err))
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

	if err := db.AutoMigrate(&model.Job{}, &model.MatchRecord{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	return db
}
