// Package llm generates text through one of several hosted model providers
// behind a single Generator interface.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ProviderKind string

const (
	Gemini ProviderKind = "gemini"
	Claude ProviderKind = "claude"
	OpenAI ProviderKind = "openai"
)

const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

var ErrUnknownProvider = errors.New("unknown AI provider")

// Options tune a single generation. Zero MaxTokens means DefaultMaxTokens
// and an empty Model means the provider's first listed model.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error)
}

type Config struct {
	APIKey string
	// APIURL overrides the provider's base URL.
	APIURL     string
	HTTPClient *http.Client
}

// ProviderError is a non-2xx answer from a provider.
type ProviderError struct {
	Provider   ProviderKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

type provider struct {
	models []string
	new    func(cfg Config) Generator
}

var providers = map[ProviderKind]provider{
	Gemini: {
		models: []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
		new:    func(cfg Config) Generator { return NewGeminiProvider(cfg) },
	},
	Claude: {
		models: []string{"claude-3-5-sonnet-20241022", "claude-3-opus-20240229", "claude-3-haiku-20240307"},
		new:    func(cfg Config) Generator { return NewAnthropicProvider(cfg) },
	},
	OpenAI: {
		models: []string{"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"},
		new:    func(cfg Config) Generator { return NewOpenAIProvider(cfg) },
	},
}

// ParseProviderKind accepts the provider names used by the composer. The
// empty string is not a provider.
func ParseProviderKind(s string) (ProviderKind, error) {
	kind := ProviderKind(strings.ToLower(strings.TrimSpace(s)))
	if kind == "anthropic" {
		kind = Claude
	}
	if _, ok := providers[kind]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownProvider, s)
	}
	return kind, nil
}

func New(kind ProviderKind, cfg Config) (Generator, error) {
	p, ok := providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, kind)
	}
	return p.new(cfg), nil
}

// Models lists the selectable models for kind, default first.
func Models(kind ProviderKind) []string {
	return append([]string(nil), providers[kind].models...)
}

func DefaultModel(kind ProviderKind) string {
	if m := providers[kind].models; len(m) > 0 {
		return m[0]
	}
	return ""
}

func withDefaults(kind ProviderKind, opts Options) Options {
	if opts.Model == "" {
		opts.Model = DefaultModel(kind)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return opts
}

func httpClient(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func baseURL(cfg Config, fallback string) string {
	if u := strings.TrimRight(cfg.APIURL, "/"); u != "" {
		return u
	}
	return fallback
}

// postJSON sends body and decodes a 2xx answer into out. Error bodies are
// parsed for {"error":{"message":...}}.
func postJSON(ctx context.Context, client *http.Client, kind ProviderKind, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", kind, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ProviderError{Provider: kind, StatusCode: resp.StatusCode, Message: errorMessage(raw, kind)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", kind, err)
	}
	return nil
}

func errorMessage(raw []byte, kind ProviderKind) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return fmt.Sprintf("%s API request failed", kind)
}
