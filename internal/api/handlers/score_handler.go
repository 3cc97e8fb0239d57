package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/scoring"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

type ScoreHandler struct {
	m *metrics.Metrics
}

func NewScoreHandler(m *metrics.Metrics) *ScoreHandler {
	return &ScoreHandler{m: m}
}

func (h *ScoreHandler) Score(c *fiber.Ctx) error {
	var req transfer.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result := scoring.Score(req.Content, req.FirstComment)
	h.m.Scores.Observe(float64(result.Score))
	return c.JSON(result)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
