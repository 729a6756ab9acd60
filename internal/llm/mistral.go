package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// MistralClient talks to Mistral's OpenAI-compatible chat completions API.
// Any OpenAI-compatible endpoint works when BaseURL points at it.
type MistralClient struct {
	client  openai.Client
	log     *slog.Logger
	timeout time.Duration
}

// MistralOptions configures NewMistralClient.
type MistralOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewMistralClient creates a client for the given endpoint. Retries are
// disabled: a failed call is reported to the caller once.
func NewMistralClient(opts MistralOptions, log *slog.Logger) (*MistralClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("mistral API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/")+"/"))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	logger := log.With("component", "llm.mistral")
	logger.Info("Mistral client initialized", "base_url", opts.BaseURL)

	return &MistralClient{
		client:  openai.NewClient(reqOpts...),
		log:     logger,
		timeout: opts.Timeout,
	}, nil
}

// Complete sends prompt as the only user message.
func (c *MistralClient) Complete(ctx context.Context, model, prompt string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startedAt := time.Now()
	c.log.DebugContext(ctx, "Sending completion request", "model", model, "prompt_length", len(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		c.log.DebugContext(ctx, "Completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return Failure(fmt.Errorf("mistral completion failed: %w", err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Failure(ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content
	c.log.DebugContext(ctx, "Received completion", "duration_ms", time.Since(startedAt).Milliseconds(), "response_length", len(text))
	return Success(text)
}
