package llm

import (
	"context"
	"errors"
	"net/http"
)

type OpenAIProvider struct {
	client *http.Client
	apiKey string
	apiURL string
}

func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: httpClient(cfg),
		apiKey: cfg.APIKey,
		apiURL: baseURL(cfg, "https://api.openai.com"),
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error) {
	opts = withDefaults(OpenAI, opts)
	messages := make([]openAIMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt})

	reqBody := openAIRequest{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var out openAIResponse
	if err := postJSON(ctx, p.client, OpenAI, p.apiURL+"/v1/chat/completions", headers, reqBody, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("openai: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
