package llm

import "time"

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.1-8b-instant"
)

// Config holds the model endpoint and sampling settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// SummaryTemperature applies to Complete.
	SummaryTemperature float64
	// CommandTemperature applies to function selection and phrasing.
	CommandTemperature float64

	MaxTokens         int64
	PhrasingMaxTokens int64

	// Timeout bounds one request. Zero leaves it to the context.
	Timeout time.Duration
}

// DefaultConfig returns the settings used when configuration sets none.
func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Model:              DefaultModel,
		SummaryTemperature: 0.3,
		CommandTemperature: 0.7,
		MaxTokens:          500,
		PhrasingMaxTokens:  1000,
		Timeout:            60 * time.Second,
	}
}
