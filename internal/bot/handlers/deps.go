package handlers

import (
	"context"
	"log/slog"

	"github.com/tracy-ai/tracybot/internal/config"
)

// Responder produces the reply text for a user message. It never fails.
type Responder interface {
	Reply(ctx context.Context, text string) string
}

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Responder Responder
}
