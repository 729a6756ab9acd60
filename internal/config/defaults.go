package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultLLMProvider = "mistral"
	DefaultLLMBaseURL  = "https://api.mistral.ai/v1"
	DefaultLLMModel    = "mistral-large-latest"
	DefaultLLMTimeout  = 2 * time.Minute

	DefaultWebhookPort     = 8443
	DefaultPollingPort     = 8080
	DefaultLivenessEnabled = true
	DefaultLivenessMessage = "Telegram Bot is running!"

	DefaultKeepaliveInterval = 10 * time.Minute
)

// DefaultMessages are the user-facing strings of the bot.
var DefaultMessages = MessagesConfig{
	Welcome:  "Hello! I'm your chatbot powered by Tracy AI. Send me a message!",
	Identity: "I'm Tracy, created by a team of 4 people in Greater Noida. Thanks to them for bringing me to life!",
	Fallback: "Sorry, I couldn't connect to the AI service. Please try again later.",
	Error:    "An error occurred. Please try again.",
}

// DefaultRebrand relabels the provider's brand as the bot's own.
var DefaultRebrand = []Replacement{
	{From: "Mistral AI", To: "Tracy"},
	{From: "Mistral", To: "Tracy"},
}
