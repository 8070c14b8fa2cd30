package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	AnthropicModel                  = string(anthropic.ModelClaudeSonnet4_5_20250929)
	defaultAnthropicMaxTokens int64 = 4096
)

// AnthropicSummarizer calls the Anthropic Messages API.
type AnthropicSummarizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

func NewAnthropicSummarizer(baseURL string, model string, maxTokens int64, log *slog.Logger) *AnthropicSummarizer {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &AnthropicSummarizer{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		log:       log,
	}
}

func (s *AnthropicSummarizer) Provider() string {
	return ProviderAnthropic
}

func (s *AnthropicSummarizer) Summarize(
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

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}, option.WithAPIKey(credential))
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	s.log.DebugContext(ctx, "Message is received",
		"provider", ProviderAnthropic,
		"model", s.model,
		"sourceURL", input.SourceURL,
		"promptLen", len(prompt),
		"stopReason", message.StopReason,
		"durationSeconds", time.Since(start).Seconds())

	var b strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(textBlock.Text)
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("output text is missing (stopReason = %s)", message.StopReason)
	}

	return summary, nil
}
