package handlers

import (
	"context"
	"log/slog"
)

// Handler answers inbound events. It keeps no state between events, so one
// instance serves every update concurrently.
type Handler struct {
	deps HandlerDeps
	log  *slog.Logger
}

// New creates a Handler.
func New(deps HandlerDeps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{deps: deps, log: deps.Logger}
}

// OnStart greets the sender.
func (h *Handler) OnStart(ctx context.Context, ev Event) error {
	h.log.With("handler", "start").InfoContext(ctx, "User started the bot", "user_id", ev.SenderID(), "update_id", ev.ID())
	return ev.Reply(ctx, h.deps.Config.Messages.Welcome)
}

// OnText answers a plain text message with exactly one reply.
func (h *Handler) OnText(ctx context.Context, ev Event) error {
	log := h.log.With("handler", "text")
	log.InfoContext(ctx, "Received message", "user_id", ev.SenderID(), "update_id", ev.ID())

	reply := h.deps.Responder.Reply(ctx, ev.Text())
	if reply == "" {
		log.WarnContext(ctx, "Empty reply produced, using fallback", "update_id", ev.ID())
		reply = h.deps.Config.Messages.Fallback
	}

	if err := ev.Reply(ctx, reply); err != nil {
		return err
	}
	log.DebugContext(ctx, "Sent reply", "user_id", ev.SenderID(), "update_id", ev.ID())
	return nil
}

// OnError logs err and, when the originating event is known, tells the sender
// something went wrong. It never panics.
func (h *Handler) OnError(ctx context.Context, ev Event, err error) {
	log := h.log.With("handler", "error")

	if ev == nil {
		log.ErrorContext(ctx, "Bot error", "error", err)
		return
	}

	log.ErrorContext(ctx, "Update caused error", "error", err, "update_id", ev.ID(), "user_id", ev.SenderID())
	if sendErr := ev.Reply(ctx, h.deps.Config.Messages.Error); sendErr != nil {
		log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "update_id", ev.ID())
	}
}

// dispatch runs fn and routes a returned error to OnError.
func (h *Handler) dispatch(ctx context.Context, ev Event, fn func(context.Context, Event) error) {
	if err := fn(ctx, ev); err != nil {
		h.OnError(ctx, ev, err)
	}
}
