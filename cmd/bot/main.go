// Package main contains the entrypoint for the Tracy Telegram bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/tracy-ai/tracybot/internal/bot"
	"github.com/tracy-ai/tracybot/internal/bot/handlers"
	"github.com/tracy-ai/tracybot/internal/bot/tasks"
	"github.com/tracy-ai/tracybot/internal/config"
	"github.com/tracy-ai/tracybot/internal/intent"
	"github.com/tracy-ai/tracybot/internal/llm"
	"github.com/tracy-ai/tracybot/internal/logger"
	"github.com/tracy-ai/tracybot/internal/responder"
	"github.com/tracy-ai/tracybot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &config.Options{}

	root := &cobra.Command{
		Use:           "tracybot",
		Short:         "Tracy, a Telegram chatbot backed by a hosted language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Path to an optional YAML configuration file")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Path to a dotenv file (default \".env\")")

	root.AddCommand(
		&cobra.Command{
			Use:   "webhook",
			Short: "Serve Telegram updates pushed to a public HTTPS endpoint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				opts.Mode = config.ModeWebhook
				return run(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Long-poll Telegram for updates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				opts.Mode = config.ModePolling
				return run(cmd.Context(), *opts)
			},
		},
	)
	return root
}

// run initializes all application components (config, logger, LLM client,
// Telegram bot, scheduler), runs them until ctx is cancelled and returns the
// reason the process should exit non-zero, if any.
func run(ctx context.Context, opts config.Options) error {
	cfg, err := config.Load(opts)
	if err != nil {
		slog.Error("Failed to load configuration", "mode", opts.Mode, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format, "mode", cfg.Mode)

	rebrander, err := responder.NewRebrander(cfg.Rebrand)
	if err != nil {
		log.Error("Invalid rebrand rules", "error", err)
		return err
	}

	completer, err := llm.NewCompleter(ctx, cfg.LLM, log)
	if err != nil {
		log.Error("Failed to initialize LLM client", "error", err)
		return err
	}

	generator := responder.NewGenerator(
		intent.Default(),
		completer,
		rebrander,
		cfg.LLM.Model,
		responder.Messages{Identity: cfg.Messages.Identity, Fallback: cfg.Messages.Fallback},
		log,
	)

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Responder: generator,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Recover(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewTextHandler(hDeps)),
		tgbot.WithErrorsHandler(handlers.NewErrorsHandler(hDeps)),
		tgbot.WithSkipGetMe(),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}
	if err := telegram.PublishCommands(ctx, tg, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	var sched *bot.Scheduler
	if taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Config: cfg}); len(taskMap) > 0 {
		sched, err = bot.NewScheduler(log, cfg.Keepalive.Interval, taskMap)
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return err
		}
	}

	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return fmt.Errorf("bot stopped: %w", runErr)
	}

	log.Info("Bot stopped gracefully.")
	return nil
}
