package server

import (
	"github.com/KpG782/Pacebeats-admin-sub001/internal/auth"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/config"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/notification"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/runner"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/session"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	runner.RegisterRoutes(s.App.Group("/active-runners"), runner.NewService(s.DB))
	session.RegisterRoutes(s.App.Group("/sessions"), session.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	if s.Redis != nil {
		notification.RegisterRoutes(s.App.Group("/notifications"), notification.NewRedisRepository(s.Redis), jwtMiddleware)
	}
}
