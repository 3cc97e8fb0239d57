package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/middleware"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// LinkedInHandler serves the member's LinkedIn feed. Routes are expected
// behind SessionMiddleware.RequireLinkedIn.
type LinkedInHandler struct {
	s   service.LinkedInService
	m   *metrics.Metrics
	log *logrus.Logger
}

func NewLinkedInHandler(service service.LinkedInService, m *metrics.Metrics, log *logrus.Logger) *LinkedInHandler {
	return &LinkedInHandler{s: service, m: m, log: log}
}

func (h *LinkedInHandler) Posts(c *fiber.Ctx) error {
	auth := middleware.Authenticated(c)
	if auth == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Not authenticated with LinkedIn. Please connect first.")
	}

	timer := prometheus.NewTimer(h.m.LinkedInDuration.WithLabelValues("list_posts"))
	page, err := h.s.ListPosts(c.Context(), auth.AccessToken, auth.Profile.ID, c.QueryInt("start", 0), c.QueryInt("count", 0))
	timer.ObserveDuration()
	if err != nil {
		var scopeErr *service.ScopeError
		if errors.As(err, &scopeErr) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         scopeErr.Message,
				"scopeRequired": scopeErr.Scope,
			})
		}
		h.log.WithError(err).Error("Failed to fetch LinkedIn posts")
		status, message := upstreamStatus(err)
		return errorJSON(c, status, message)
	}

	return c.JSON(page)
}

func (h *LinkedInHandler) Publish(c *fiber.Ctx) error {
	auth := middleware.Authenticated(c)
	if auth == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Not authenticated with LinkedIn. Please connect first.")
	}

	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	timer := prometheus.NewTimer(h.m.LinkedInDuration.WithLabelValues("publish"))
	result, err := h.s.Publish(c.Context(), auth.AccessToken, auth.Profile.ID, req)
	timer.ObserveDuration()
	h.m.Publishes.WithLabelValues(metrics.Outcome(err)).Inc()

	switch {
	case err == nil:
		return c.JSON(result)
	case errors.Is(err, service.ErrEmptyContent):
		return errorJSON(c, fiber.StatusBadRequest, "Post content is required")
	case errors.Is(err, service.ErrContentTooLong):
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("Post content must be at most %d characters", models.MaxContentLength))
	case errors.Is(err, service.ErrInvalidImage):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated):
		return errorJSON(c, fiber.StatusUnauthorized, "Not authenticated with LinkedIn. Please connect first.")
	}

	h.log.WithError(err).WithField("member_id", auth.Profile.ID).Error("Failed to publish to LinkedIn")
	status, message := upstreamStatus(err)
	return errorJSON(c, status, message)
}
