package api

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

func NewServer() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "mm-chat-comparison",
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	// Middleware to allow WebSocket upgrade
	app.Use("/room/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	return app
}

// errorHandler maps the error taxonomy to client responses: unknown
// identifiers are 404s, missing model configuration is a 422, everything
// else is a 500. The user never sees a raw stack trace.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var notFound *models.NotFoundError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &notFound):
		code = fiber.StatusNotFound
	case errors.Is(err, models.ErrModelNotConfigured):
		code = fiber.StatusUnprocessableEntity
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	log.Error().Err(err).Int("status", code).Str("path", c.Path()).Msg("request failed")

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StartServer(app *fiber.App, port string) error {
	log.Info().Str("port", port).Msg("server starting")
	return app.Listen(":" + port)
}
