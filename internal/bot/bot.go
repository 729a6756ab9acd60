// Package bot implements lifecycle management and component orchestration
// for the Tracy Telegram bot in webhook or polling mode.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/tracy-ai/tracybot/internal/config"
	"github.com/tracy-ai/tracybot/internal/server"
)

// TelegramClient is the part of *tgbot.Bot the orchestrator drives.
type TelegramClient interface {
	server.UpdateProcessor
	Start(ctx context.Context)
	SetWebhook(ctx context.Context, params *tgbot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *tgbot.DeleteWebhookParams) (bool, error)
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	tgBot     TelegramClient
	scheduler *Scheduler
}

// NewBot creates the orchestrator. scheduler may be nil when no background
// task is enabled.
func NewBot(logger *slog.Logger, cfg *config.Config, tgBot TelegramClient, scheduler *Scheduler) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run starts the configured transport and its companions and blocks until ctx
// is cancelled or one of them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "mode", b.cfg.Mode)

	g, gCtx := errgroup.WithContext(ctx)

	switch b.cfg.Mode {
	case config.ModeWebhook:
		b.registerWebhook(gCtx)
		srv := server.New(server.Options{
			Port:            b.cfg.Server.Port,
			LivenessMessage: b.cfg.Server.LivenessMessage,
			WebhookPath:     "/" + b.cfg.Telegram.Token,
			WebhookSecret:   b.cfg.Telegram.WebhookSecret,
			Processor:       b.tgBot,
		}, b.logger)
		g.Go(func() error { return srv.Run(gCtx) })

	case config.ModePolling:
		if _, err := b.tgBot.DeleteWebhook(gCtx, &tgbot.DeleteWebhookParams{
			DropPendingUpdates: b.cfg.Telegram.DropPendingUpdates,
		}); err != nil {
			b.logger.Warn("Failed to delete webhook before polling", "error", err)
		}

		g.Go(func() error {
			b.logger.Info("Starting Telegram bot listener...")
			b.tgBot.Start(gCtx)
			b.logger.Info("Telegram bot listener stopped.")

			if gCtx.Err() == nil {
				b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
			return nil
		})

		if b.cfg.Server.LivenessEnabled {
			srv := server.New(server.Options{
				Port:            b.cfg.Server.Port,
				LivenessMessage: b.cfg.Server.LivenessMessage,
			}, b.logger)
			g.Go(func() error { return srv.Run(gCtx) })
		}

	default:
		return fmt.Errorf("unknown mode %q", b.cfg.Mode)
	}

	if b.scheduler != nil {
		g.Go(func() error {
			if err := b.scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// registerWebhook points Telegram at this process. A failure is logged and the
// server starts anyway, so a previously registered webhook keeps working.
func (b *Bot) registerWebhook(ctx context.Context) {
	url := WebhookURL(b.cfg.Telegram.WebhookURL, b.cfg.Telegram.Token)
	_, err := b.tgBot.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:                url,
		SecretToken:        b.cfg.Telegram.WebhookSecret,
		DropPendingUpdates: b.cfg.Telegram.DropPendingUpdates,
	})
	if err != nil {
		b.logger.Error("Failed to set webhook", "error", err)
		return
	}
	b.logger.Info("Webhook set successfully")
}

// WebhookURL joins the public base URL and the bot token into the address
// Telegram posts updates to.
func WebhookURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}
