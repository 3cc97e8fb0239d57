// Package api assembles the relay's fiber application.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/handlers"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/middleware"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Dependencies struct {
	LinkedIn service.LinkedInService
	AI       service.AIService
	Cookies  *session.Cookies
	Metrics  *metrics.Metrics
	Log      *logrus.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

func NewApp(cfg config.Config, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    20 * 1024 * 1024, // base64 images
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				deps.Log.WithError(err).WithField("path", c.Path()).Error("Request failed")
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	sessions := middleware.NewSessionMiddleware(deps.Cookies)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Use(sessions.Load())
	api.Get("/health", handlers.Health)

	auth := handlers.NewAuthHandler(cfg, deps.LinkedIn, deps.Cookies, deps.Metrics, deps.Log)
	api.Get("/auth/linkedin", auth.Login)
	api.Get("/auth/linkedin/callback", auth.Callback)
	api.Get("/auth/linkedin/status", auth.Status)
	api.Post("/auth/linkedin/disconnect", auth.Disconnect)

	linkedIn := handlers.NewLinkedInHandler(deps.LinkedIn, deps.Metrics, deps.Log)
	api.Get("/linkedin/posts", sessions.RequireLinkedIn(), linkedIn.Posts)
	api.Post("/linkedin/publish", sessions.RequireLinkedIn(), linkedIn.Publish)

	ai := handlers.NewAIHandler(deps.AI, deps.Metrics, deps.Log)
	api.Post("/ai/generate", ai.Generate)
	api.Get("/ai/models", ai.Models)

	score := handlers.NewScoreHandler(deps.Metrics)
	api.Post("/score", score.Score)

	return app
}
