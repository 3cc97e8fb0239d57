package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/llm"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/sirupsen/logrus"
)

type AIHandler struct {
	s   service.AIService
	m   *metrics.Metrics
	log *logrus.Logger
}

func NewAIHandler(service service.AIService, m *metrics.Metrics, log *logrus.Logger) *AIHandler {
	return &AIHandler{s: service, m: m, log: log}
}

func (h *AIHandler) Generate(c *fiber.Ctx) error {
	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	text, err := h.s.Generate(c.Context(), req)
	h.m.Generations.WithLabelValues(providerLabel(req.Provider), metrics.Outcome(err)).Inc()

	switch {
	case err == nil:
		return c.JSON(transfer.GenerateResponse{Text: text})
	case errors.Is(err, service.ErrMissingAPIKey):
		return errorJSON(c, fiber.StatusBadRequest, "API key is required")
	case errors.Is(err, service.ErrMissingPrompt):
		return errorJSON(c, fiber.StatusBadRequest, "Prompt is required")
	case errors.Is(err, llm.ErrUnknownProvider):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	status, message := upstreamStatus(err)
	return errorJSON(c, status, message)
}

// providerLabel keeps the metric's provider label to the known kinds plus
// "default" and "invalid".
func providerLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "default"
	}
	kind, err := llm.ParseProviderKind(name)
	if err != nil {
		return "invalid"
	}
	return string(kind)
}

func (h *AIHandler) Models(c *fiber.Ctx) error {
	kind, models, err := h.s.Models(c.Query("provider"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(transfer.ModelsResponse{Provider: string(kind), Models: models})
}
