// Package tasks implements the scheduled background tasks of the Tracy bot.
package tasks

import (
	"log/slog"
	"net/http"

	"github.com/tracy-ai/tracybot/internal/config"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	HTTPClient *http.Client // nil means http.DefaultClient
}
