package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

// NewGeminiProvider talks to the Generative Language API through the genai
// REST client. The key is sent in the x-goog-api-key header.
func NewGeminiProvider(cfg Config) *GeminiProvider {
	return &GeminiProvider{
		client:   httpClient(cfg),
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.APIURL, "/"),
	}
}

// apiKeyTransport adds the key itself because option.WithAPIKey is ignored
// once a custom HTTP client is supplied.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("x-goog-api-key", t.key)
	return t.base.RoundTrip(req)
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	base := p.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := &http.Client{
		Transport: &apiKeyTransport{key: p.apiKey, base: base},
		Timeout:   p.client.Timeout,
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	return genai.NewClient(ctx, opts...)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error) {
	opts = withDefaults(Gemini, opts)
	client, err := p.newClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(opts.Model)
	model.SetMaxOutputTokens(int32(opts.MaxTokens))
	model.SetTemperature(float32(opts.Temperature))
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Provider: Gemini, StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	if text.Len() == 0 {
		return "", errors.New("gemini: empty response")
	}
	return text.String(), nil
}
