package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	GroqBaseURL = "https://api.groq.com/openai/v1/"
	GroqModel   = "openai/gpt-oss-120b"
	OpenAIModel = "gpt-4o-mini"
)

// OpenAISummarizer calls an OpenAI-compatible Chat Completions API.
type OpenAISummarizer struct {
	client   openai.Client
	provider string
	model    string
	log      *slog.Logger
}

// NewOpenAISummarizer builds a new summarizer instance. The API key is
// supplied per request.
func NewOpenAISummarizer(provider string, baseURL string, model string, log *slog.Logger) *OpenAISummarizer {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAISummarizer{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		log:      log,
	}
}

func (s *OpenAISummarizer) Provider() string {
	return s.provider
}

// Summarize sends the whole text in one prompt and returns the model output.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return "", errors.New("input is empty")
	}

	credential := strings.TrimSpace(input.Credential)
	if credential == "" {
		return "", errors.New("credential is empty")
	}

	prompt := BuildPrompt(text)
	start := time.Now()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}, option.WithAPIKey(credential))
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	s.log.DebugContext(ctx, "Chat completion is received",
		"provider", s.provider,
		"model", s.model,
		"sourceURL", input.SourceURL,
		"promptLen", len(prompt),
		"choiceCount", len(resp.Choices),
		"durationSeconds", time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("output text is missing (finishReason = %s)", resp.Choices[0].FinishReason)
	}

	return summary, nil
}
