package server

import (
	"context"
	"errors"

	"ai-notes-bot/internal/bootstrap"
	"ai-notes-bot/internal/channel/telegram"
	"ai-notes-bot/internal/config"
	"ai-notes-bot/internal/pkg/serverutils"
	"ai-notes-bot/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(ctx context.Context, cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	registerRoutes(ctx, app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Run listens until ctx is done, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.container.Logger.Info("Server", "Server is running", map[string]interface{}{"port": s.cfg.App.Port})
		errCh <- s.app.Listen(":" + s.cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.app.Shutdown()
	}
}

func registerRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok", "store": cfg.Store.Driver})
	})

	app.Get("/metrics", adaptor.HTTPHandler(c.Metrics.Handler()))

	if c.Telegram != nil {
		app.Post("/telegram/webhook", func(fc *fiber.Ctx) error {
			err := c.Telegram.HandleWebhook(ctx, fc.Get(telegram.SecretHeader), fc.Body())
			switch {
			case errors.Is(err, telegram.ErrInvalidSecret):
				return fc.SendStatus(fiber.StatusUnauthorized)
			case err != nil:
				c.Logger.Warn("Server", "Rejected Telegram update", map[string]interface{}{"error": err.Error()})
				return fc.SendStatus(fiber.StatusBadRequest)
			}
			return fc.SendStatus(fiber.StatusOK)
		})
	}

	if c.WebSocketHub != nil && cfg.App.JWTSecret != "" {
		app.Get("/ws",
			websocket.UpgradeRequired,
			serverutils.JwtMiddleware(cfg.App.JWTSecret),
			c.WebSocketHub.Handler(ctx),
		)
	}
}
