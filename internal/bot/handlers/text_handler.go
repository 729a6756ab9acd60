package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTextHandler returns the default handler. It answers every plain text
// message and ignores commands and non-text updates.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return textHandler{New(deps)}.Handle
}

type textHandler struct {
	h *Handler
}

func (t textHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if b == nil || update == nil {
		return
	}
	if !isPlainText(update) {
		t.h.log.DebugContext(ctx, "Ignoring update without plain text", "update_id", update.ID)
		return
	}
	ev, _ := NewTelegramEvent(b, update)
	t.h.dispatch(ctx, ev, t.h.OnText)
}

// isPlainText reports whether update is a text message that is not a command.
func isPlainText(update *models.Update) bool {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return false
	}
	for _, e := range update.Message.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return false
		}
	}
	return !strings.HasPrefix(update.Message.Text, "/")
}

// NewErrorsHandler returns a callback for errors the Telegram client reports
// outside of any update, such as failed polling requests.
func NewErrorsHandler(deps HandlerDeps) bot.ErrorsHandler {
	h := New(deps)
	return func(err error) {
		h.OnError(context.Background(), nil, err)
	}
}
