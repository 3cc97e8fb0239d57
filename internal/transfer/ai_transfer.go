package transfer

type GenerateRequest struct {
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"systemPrompt"`
	APIKey       string   `json:"apiKey"`
	Model        string   `json:"model"`
	MaxTokens    int      `json:"maxTokens"`
	Temperature  *float64 `json:"temperature"`
	Provider     string   `json:"provider"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type ModelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

type ScoreRequest struct {
	Content      string `json:"content"`
	FirstComment string `json:"firstComment"`
}
