// Package config provides configuration loading, validation, and management
// for the Tracy bot. Values come from defaults, an optional YAML file, an
// optional .env file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration wraps every error returned by Load. A configuration error is
// fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Transport modes. Exactly one is active per process run.
const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

// Config defines the application configuration. It is loaded once at process
// start and treated as read-only afterwards.
type Config struct {
	Mode string `mapstructure:"mode" validate:"oneof=webhook polling"`

	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Server    ServerConfig    `mapstructure:"server"`
	Keepalive KeepaliveConfig `mapstructure:"keepalive"`
	Messages  MessagesConfig  `mapstructure:"messages"`

	// Rebrand is applied in order to every LLM answer. Put longer phrases
	// before the shorter phrases they contain.
	Rebrand []Replacement `mapstructure:"rebrand" validate:"dive"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TelegramConfig holds the chat platform settings.
type TelegramConfig struct {
	Token              string `mapstructure:"token"                validate:"required"`
	WebhookURL         string `mapstructure:"webhook_url"          validate:"omitempty,url"`
	WebhookSecret      string `mapstructure:"webhook_secret"       validate:"omitempty,max=256"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`
}

// LLMConfig holds the settings of the external language model provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=mistral gemini"`
	APIKey   string        `mapstructure:"api_key"  validate:"required"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model    string        `mapstructure:"model"    validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout"  validate:"min=1s,max=10m"`
}

// ServerConfig holds the HTTP listener settings shared by the webhook endpoint
// and the liveness endpoint.
type ServerConfig struct {
	Port            int    `mapstructure:"port"             validate:"min=1,max=65535"`
	LivenessEnabled bool   `mapstructure:"liveness_enabled"`
	LivenessMessage string `mapstructure:"liveness_message" validate:"required"`
}

// KeepaliveConfig controls the periodic self-ping of the public liveness URL.
type KeepaliveConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"min=1m"`
	URL      string        `mapstructure:"url"      validate:"omitempty,url"`
}

// MessagesConfig holds every fixed user-facing string.
type MessagesConfig struct {
	Welcome  string `mapstructure:"welcome"  validate:"required"`
	Identity string `mapstructure:"identity" validate:"required"`
	Fallback string `mapstructure:"fallback" validate:"required"`
	Error    string `mapstructure:"error"    validate:"required"`
}

// Replacement is one literal substitution applied to LLM output.
type Replacement struct {
	From string `mapstructure:"from" validate:"required"`
	To   string `mapstructure:"to"`
}

// Validate checks struct constraints and the mode-dependent requirements that
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Mode == ModeWebhook && c.Telegram.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required in %s mode", ModeWebhook)
	}
	if c.Keepalive.Enabled && c.Keepalive.URL == "" {
		return fmt.Errorf("keepalive is enabled but no URL is configured (set KEEPALIVE_URL or WEBHOOK_URL)")
	}
	return nil
}
