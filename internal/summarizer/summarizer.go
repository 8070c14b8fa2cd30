package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	promptTemplate = `
Provide a clear and concise summary of the following content in about 1000 words. 
Highlight the key points and important takeaways.

Content: {text}
`
	promptTextSlot = "{text}"
)

// Input describes the payload for a summary request.
type Input struct {
	// Text is the whole acquired document. It is sent as is.
	Text string
	// SourceURL is used for logging only.
	SourceURL string
	// Credential is the caller's API key for this request. It is never stored.
	Credential string
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
	Provider() string
}

type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// New builds the summarizer for cfg.Provider.
func New(cfg Config, log *slog.Logger) (Summarizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGroq:
		return NewOpenAISummarizer(ProviderGroq, orDefault(cfg.BaseURL, GroqBaseURL), orDefault(cfg.Model, GroqModel), log), nil
	case ProviderOpenAI:
		return NewOpenAISummarizer(ProviderOpenAI, cfg.BaseURL, orDefault(cfg.Model, OpenAIModel), log), nil
	case ProviderAnthropic:
		return NewAnthropicSummarizer(cfg.BaseURL, orDefault(cfg.Model, AnthropicModel), cfg.MaxTokens, log), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}

// BuildPrompt fills the fixed template with the whole text.
func BuildPrompt(text string) string {
	return strings.Replace(promptTemplate, promptTextSlot, text, 1)
}

func orDefault(value string, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}

	return fallback
}
