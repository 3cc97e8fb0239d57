package service

import (
	"context"
	"errors"
	"strings"

	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/llm"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrMissingPrompt = errors.New("prompt is required")
)

type AIService interface {
	Generate(ctx context.Context, req transfer.GenerateRequest) (string, error)
	Models(provider string) (llm.ProviderKind, []string, error)
}

type aiService struct {
	cfg config.AI
	log *logrus.Logger
	// newGenerator is swapped in tests.
	newGenerator func(kind llm.ProviderKind, cfg llm.Config) (llm.Generator, error)
}

func NewAIService(cfg config.AI, log *logrus.Logger) AIService {
	return &aiService{
		cfg:          cfg,
		log:          log,
		newGenerator: llm.New,
	}
}

// resolve picks the provider named in the request, falling back to the
// configured default.
func (s *aiService) resolve(provider string) (llm.ProviderKind, error) {
	if strings.TrimSpace(provider) == "" {
		provider = s.cfg.DefaultProvider
	}
	return llm.ParseProviderKind(provider)
}

func (s *aiService) serverKey(kind llm.ProviderKind) (key, url string) {
	switch kind {
	case llm.Gemini:
		return s.cfg.GeminiAPIKey, s.cfg.GeminiURL
	case llm.Claude:
		return s.cfg.AnthropicAPIKey, s.cfg.AnthropicURL
	case llm.OpenAI:
		return s.cfg.OpenAIAPIKey, s.cfg.OpenAIURL
	}
	return "", ""
}

// Generate prefers the caller's API key over the server's.
func (s *aiService) Generate(ctx context.Context, req transfer.GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrMissingPrompt
	}
	kind, err := s.resolve(req.Provider)
	if err != nil {
		return "", err
	}

	key, url := s.serverKey(kind)
	if req.APIKey != "" {
		key = req.APIKey
	}
	if key == "" {
		return "", ErrMissingAPIKey
	}

	gen, err := s.newGenerator(kind, llm.Config{APIKey: key, APIURL: url})
	if err != nil {
		return "", err
	}

	opts := llm.Options{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: llm.DefaultTemperature,
	}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}

	text, err := gen.Generate(ctx, req.Prompt, req.SystemPrompt, opts)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"provider": kind,
			"model":    req.Model,
		}).Error("AI generation failed")
		return "", err
	}
	return text, nil
}

func (s *aiService) Models(provider string) (llm.ProviderKind, []string, error) {
	kind, err := s.resolve(provider)
	if err != nil {
		return "", nil, err
	}
	return kind, llm.Models(kind), nil
}
