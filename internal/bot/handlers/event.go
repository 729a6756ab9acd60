package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const sendMessageTimeout = 10 * time.Second

// Event is the narrow view of one inbound user message the handlers work
// with. Reply always targets the chat the message came from.
type Event interface {
	ID() int64
	SenderID() int64
	Text() string
	Reply(ctx context.Context, text string) error
}

// MessageSender is the part of *bot.Bot used to deliver replies.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type telegramEvent struct {
	sender MessageSender
	update *models.Update
}

// NewTelegramEvent wraps a Telegram update. It reports false for updates that
// carry no message.
func NewTelegramEvent(sender MessageSender, update *models.Update) (Event, bool) {
	if sender == nil || update == nil || update.Message == nil {
		return nil, false
	}
	return telegramEvent{sender: sender, update: update}, true
}

func (e telegramEvent) ID() int64 {
	return e.update.ID
}

func (e telegramEvent) SenderID() int64 {
	if e.update.Message.From != nil {
		return e.update.Message.From.ID
	}
	return e.update.Message.Chat.ID
}

func (e telegramEvent) Text() string {
	return e.update.Message.Text
}

func (e telegramEvent) Reply(ctx context.Context, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	chatID := e.update.Message.Chat.ID
	if _, err := e.sender.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}
