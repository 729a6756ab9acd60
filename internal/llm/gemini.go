package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiClient talks to Google's Gemini API.
type GeminiClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	timeout     time.Duration
}

// NewGeminiClient creates a Gemini client. No request is made until Complete.
func NewGeminiClient(ctx context.Context, apiKey string, timeout time.Duration, log *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "llm.gemini")
	logger.Info("Gemini client initialized successfully")
	return &GeminiClient{
		genaiClient: gi,
		log:         logger,
		timeout:     timeout,
	}, nil
}

// Complete sends prompt as the only user message.
func (c *GeminiClient) Complete(ctx context.Context, model, prompt string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.log.DebugContext(ctx, "Sending completion request", "model", model, "prompt_length", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.genaiClient.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return Failure(fmt.Errorf("gemini API call failed: %w", err))
	}

	text, err := extractText(resp)
	if err != nil {
		return Failure(err)
	}
	return Success(text)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("gemini request blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified &&
			resp.Candidates[0].FinishReason != genai.FinishReasonStop {
			return "", fmt.Errorf("gemini returned no content, finish reason: %v", resp.Candidates[0].FinishReason)
		}
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
