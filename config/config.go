package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"translatebot/models"
)

// Default preamble phrases stripped before translation. A message like
// "@here Can you translate the following: ..." only has the part after the
// phrase translated. Longest phrases are matched first.
var defaultExtractPhrases = []string{
	"Can you please assist us with a translation of the following:",
	"Can you please assist with translating the following:",
	"Can you translate the following:",
	"Please translate the below:",
	"translation of the following:",
	"the following:",
}

type SlackConfig struct {
	SigningSecret string
	BotToken      string
	UserToken     string   // optional; preferred credential for conversation reads
	BotUserID     string   // optional; discovered via auth.test when empty
	ChannelIDs    []string // optional allow-list; empty means all channels
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.SigningSecret != "" && c.BotToken != ""
}

type TranslateConfig struct {
	Backend         string // "deepl" (default) or "anthropic"
	DeepLAPIKey     string
	AnthropicAPIKey string
}

// IsConfigured returns true if the selected translation backend has its key
func (c TranslateConfig) IsConfigured() bool {
	switch c.Backend {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	default:
		return c.DeepLAPIKey != ""
	}
}

type TriggerConfig struct {
	Mode           models.TriggerMode
	Prefix         string // mode "prefix": literal stripped before translation
	ReactionEmoji  string // mode "reaction": emoji shortcode name without colons
	ExtractPhrases []string
}

type AppConfig struct {
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"

	// Optional Postgres-backed dedup store; the in-memory store is used when
	// DatabaseURL is empty
	DatabaseURL    string
	DatabaseSchema string

	SlackConfig     SlackConfig
	TranslateConfig TranslateConfig
	TriggerConfig   TriggerConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	signingSecret, err := getEnvRequired("SLACK_SIGNING_SECRET")
	if err != nil {
		return nil, err
	}

	botToken, err := getEnvRequired("SLACK_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	mode, err := models.ParseTriggerMode(getEnvWithDefault("TRANSLATE_TRIGGER", "all"))
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		DatabaseURL:        os.Getenv("DB_URL"),
		DatabaseSchema:     getEnvWithDefault("DB_SCHEMA", "public"),

		SlackConfig: SlackConfig{
			SigningSecret: signingSecret,
			BotToken:      botToken,
			UserToken:     os.Getenv("SLACK_USER_TOKEN"),
			BotUserID:     os.Getenv("SLACK_BOT_USER_ID"),
			ChannelIDs:    splitList(os.Getenv("SLACK_CHANNEL_IDS"), ","),
		},

		TranslateConfig: TranslateConfig{
			Backend:         getEnvWithDefault("TRANSLATE_BACKEND", "deepl"),
			DeepLAPIKey:     os.Getenv("DEEPL_API_KEY"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		},

		TriggerConfig: TriggerConfig{
			Mode:           mode,
			Prefix:         getEnvWithDefault("TRANSLATE_PREFIX", "[translate]"),
			ReactionEmoji:  getEnvWithDefault("REACTION_TRIGGER_EMOJI", "de"),
			ExtractPhrases: loadExtractPhrases(),
		},
	}

	if !config.TranslateConfig.IsConfigured() {
		return nil, fmt.Errorf(
			"translation backend %q is not configured (missing API key)",
			config.TranslateConfig.Backend,
		)
	}

	if config.SlackConfig.UserToken != "" {
		log.Printf("✅ Slack user token configured - thread reads will prefer it")
	} else {
		log.Printf("⚠️ Slack user token not configured - some thread replies may not resolve")
	}

	if len(config.SlackConfig.ChannelIDs) > 0 {
		log.Printf("✅ Channel allow-list active for %d channel(s)", len(config.SlackConfig.ChannelIDs))
	}

	return config, nil
}

// loadExtractPhrases reads EXTRACT_PHRASES ("|"-separated since phrases may
// contain commas) and sorts longest-first so the most specific phrase wins.
func loadExtractPhrases() []string {
	phrases := splitList(os.Getenv("EXTRACT_PHRASES"), "|")
	if len(phrases) == 0 {
		phrases = append(phrases, defaultExtractPhrases...)
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	return phrases
}

func splitList(value, sep string) []string {
	var out []string
	for _, item := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
