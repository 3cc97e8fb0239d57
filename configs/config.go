package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type LinkedIn struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIURL       string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

type AI struct {
	DefaultProvider string
	GeminiAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiURL       string
	AnthropicURL    string
	OpenAIURL       string
}

type Config struct {
	Port          int
	FrontendURL   string
	LinkedIn      LinkedIn
	AI            AI
	SessionSecret string
	CookieName    string
	CookieSecure  bool
	LogLevel      string

	// composer persistence
	Storage     string
	DataDir     string
	PostgresURI string
	R2          R2
}

func LoadConfig() *Config {
	port := getEnvInt("PORT", 3001)

	return &Config{
		Port:        port,
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		LinkedIn: LinkedIn{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", fmt.Sprintf("http://localhost:%d/api/auth/linkedin/callback", port)),
			APIURL:       strings.TrimRight(getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"), "/"),
			AuthURL:      getEnv("LINKEDIN_AUTH_URL", ""),
			TokenURL:     getEnv("LINKEDIN_TOKEN_URL", ""),
			Scopes:       strings.Fields(getEnv("LINKEDIN_SCOPES", "openid profile email w_member_social r_member_social")),
		},
		AI: AI{
			DefaultProvider: getEnv("AI_DEFAULT_PROVIDER", "gemini"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			GeminiURL:       getEnv("GEMINI_API_URL", ""),
			AnthropicURL:    getEnv("ANTHROPIC_API_URL", ""),
			OpenAIURL:       getEnv("OPENAI_API_URL", ""),
		},
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieName:    getEnv("COOKIE_NAME", "li_session"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Storage:       getEnv("COMPOSER_STORAGE", "file"),
		DataDir:       getEnv("COMPOSER_DATA_DIR", defaultDataDir()),
		PostgresURI:   getEnv("POSTGRES_URI", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
	}
}

// LinkedInConfigured reports whether the OAuth client credentials are set.
func (c *Config) LinkedInConfigured() bool {
	return c.LinkedIn.ClientID != "" && c.LinkedIn.ClientSecret != ""
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linkedin-scheduler"
	}
	return home + string(os.PathSeparator) + ".linkedin-scheduler"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
