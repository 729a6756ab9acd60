package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{New(deps)}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	h *Handler
}

func (s startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if b == nil || update == nil {
		return
	}
	ev, ok := NewTelegramEvent(b, update)
	if !ok {
		s.h.log.WarnContext(ctx, "Start handler received update without message", "update_id", update.ID)
		return
	}
	s.h.dispatch(ctx, ev, s.h.OnStart)
}
