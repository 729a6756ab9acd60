package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Options selects the transport mode and the optional files Load reads.
type Options struct {
	Mode       string
	ConfigFile string // optional YAML file
	EnvFile    string // optional dotenv file, ".env" when empty
}

// envBindings maps configuration keys to the environment variables that set
// them. The first non-empty variable wins.
var envBindings = map[string][]string{
	"log.level":  {"LOG_LEVEL"},
	"log.format": {"LOG_FORMAT"},

	"telegram.token":                {"TELEGRAM_TOKEN"},
	"telegram.webhook_url":          {"WEBHOOK_URL"},
	"telegram.webhook_secret":       {"WEBHOOK_SECRET"},
	"telegram.drop_pending_updates": {"DROP_PENDING_UPDATES"},

	"llm.provider": {"LLM_PROVIDER"},
	"llm.api_key":  {"MISTRAL_API_KEY", "LLM_API_KEY", "GEMINI_API_KEY"},
	"llm.base_url": {"LLM_BASE_URL"},
	"llm.model":    {"LLM_MODEL"},
	"llm.timeout":  {"LLM_TIMEOUT"},

	"server.port":             {"PORT"},
	"server.liveness_enabled": {"LIVENESS_ENABLED"},

	"keepalive.enabled":  {"KEEPALIVE_ENABLED"},
	"keepalive.interval": {"KEEPALIVE_INTERVAL"},
	"keepalive.url":      {"KEEPALIVE_URL"},
}

// Load loads and validates configuration from:
// 1. Default values
// 2. the optional YAML file
// 3. the optional .env file
// 4. environment variables
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v, opts.Mode)

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	cfg.Mode = opts.Mode

	if cfg.Keepalive.URL == "" {
		cfg.Keepalive.URL = cfg.Telegram.WebhookURL
	}
	if len(cfg.Rebrand) == 0 {
		cfg.Rebrand = append([]Replacement(nil), DefaultRebrand...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("configuration loaded",
		"mode", cfg.Mode,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.Model,
		"port", cfg.Server.Port)

	return cfg, nil
}

// loadEnvFile copies the variables of a dotenv file into the process
// environment without overriding variables that are already set. A missing
// default ".env" is not an error; a missing explicit file is.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to open env file: %v", err)
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file %s: %v", path, err)
	}

	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if os.Getenv(name) != "" {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %v", name, err)
		}
	}
	return nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper, mode string) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("telegram.drop_pending_updates", false)

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)

	port := DefaultPollingPort
	if mode == ModeWebhook {
		port = DefaultWebhookPort
	}
	v.SetDefault("server.port", port)
	v.SetDefault("server.liveness_enabled", DefaultLivenessEnabled)
	v.SetDefault("server.liveness_message", DefaultLivenessMessage)

	v.SetDefault("keepalive.enabled", false)
	v.SetDefault("keepalive.interval", DefaultKeepaliveInterval)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.identity", DefaultMessages.Identity)
	v.SetDefault("messages.fallback", DefaultMessages.Fallback)
	v.SetDefault("messages.error", DefaultMessages.Error)
}
