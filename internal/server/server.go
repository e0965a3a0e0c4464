package server

import (
	"backend-journeystress/internal/analysis"
	"backend-journeystress/internal/auth"
	"backend-journeystress/internal/config"
	"backend-journeystress/internal/dataset"
	"backend-journeystress/internal/modes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Analysis *analysis.Service
}

// NewServer wires the HTTP surface. A nil pool disables /datasets and a nil
// redis client disables result caching.
func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	table, err := modes.LoadTableFile(cfg.ModeIconsFile)
	if err != nil {
		return nil, err
	}

	var cache analysis.Cache
	if redisClient != nil {
		cache = analysis.NewRedisCache(redisClient, cfg.CacheTTL)
	}

	app := fiber.New(fiber.Config{BodyLimit: 32 * 1024 * 1024})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Analysis: analysis.NewService(analysis.FromConfig(cfg), table, cache),
	}

	registerRoutes(s)
	return s, nil
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"datasets": s.DB != nil,
			"cache":    s.Redis != nil,
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	analysis.RegisterRoutes(s.App.Group("/analysis"), s.Analysis, jwtMiddleware)
	if s.DB != nil {
		dataset.RegisterRoutes(s.App.Group("/datasets"), dataset.NewStore(s.DB), s.Analysis)
	}
}
