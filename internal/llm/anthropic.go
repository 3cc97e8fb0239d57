package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

type AnthropicProvider struct {
	client *http.Client
	apiKey string
	apiURL string
}

func NewAnthropicProvider(cfg Config) *AnthropicProvider {
	return &AnthropicProvider{
		client: httpClient(cfg),
		apiKey: cfg.APIKey,
		apiURL: baseURL(cfg, "https://api.anthropic.com"),
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error) {
	opts = withDefaults(Claude, opts)
	reqBody := anthropicRequest{
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		System:      systemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var out anthropicResponse
	if err := postJSON(ctx, p.client, Claude, p.apiURL+"/v1/messages", headers, reqBody, &out); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("claude: empty response")
	}
	return text.String(), nil
}
