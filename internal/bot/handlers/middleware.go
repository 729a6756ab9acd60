// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover creates a middleware that turns a panicking handler into a logged
// error and, when the update carries a message, an apology to its sender.
func Recover(deps HandlerDeps) tgbot.Middleware {
	h := New(deps)
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err := fmt.Errorf("handler panic: %v", r)
				var ev Event
				if b != nil {
					ev, _ = NewTelegramEvent(b, update)
				}
				h.OnError(ctx, ev, err)
			}()

			next(ctx, b, update)
		}
	}
}
