package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tracy-ai/tracybot/internal/config"
)

// NewCompleter creates the Completer for the configured provider.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Completer, error) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("Initializing LLM client", "provider", cfg.Provider, "model", cfg.Model)

	switch cfg.Provider {
	case "mistral":
		client, err := NewMistralClient(MistralOptions{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Mistral client: %w", err)
		}
		return client, nil
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider specified: %s", cfg.Provider)
	}
}
