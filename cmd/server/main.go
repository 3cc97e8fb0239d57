package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/api"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/session"
	"github.com/maheshrc27/linkedin-scheduler/pkg/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()
	log := logging.NewLogger(cfg.LogLevel)
	if envErr != nil {
		log.WithError(envErr).Warn("No .env file loaded")
	}

	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET is not set; sessions cannot be created")
	}
	if !cfg.LinkedInConfigured() {
		log.Warn("LinkedIn client credentials are not set; /api/auth/linkedin will fail")
	}

	codec := session.NewCodec(cfg.SessionSecret)
	cookies := session.NewCookies(codec, cfg.CookieName, cfg.CookieSecure)
	httpClient := &http.Client{Timeout: 60 * time.Second}

	app := api.NewApp(*cfg, api.Dependencies{
		LinkedIn:  service.NewLinkedInService(cfg.LinkedIn, httpClient, log),
		AI:        service.NewAIService(cfg.AI, log),
		Cookies:   cookies,
		Metrics:   metrics.New(),
		Log:       log,
		AccessLog: true,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()
	log.WithFields(logrus.Fields{
		"addr":     addr,
		"frontend": cfg.FrontendURL,
	}).Info("Server is running")

	gracefulShutdown(app, log)
}

func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Fatal("Failed to shut down server")
	}
	log.Info("Server shutdown complete.")
}
