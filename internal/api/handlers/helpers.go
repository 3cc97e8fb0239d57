package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/llm"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// upstreamStatus returns the status carried by a LinkedIn or LLM provider
// error, or 500.
func upstreamStatus(err error) (int, string) {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode, apiErr.Message
	}
	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) && providerErr.StatusCode >= 400 {
		return providerErr.StatusCode, providerErr.Message
	}
	return fiber.StatusInternalServerError, err.Error()
}
