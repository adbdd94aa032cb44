package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// TelegramConfig holds the bot transport settings.
type TelegramConfig struct {
	Token string `yaml:"token"`
	// AdminID is the Telegram user ID allowed to run /unlock. Zero disables the command.
	AdminID int64 `yaml:"admin_id"`
}

// CompletionConfig holds the settings for the chat-completion backend.
type CompletionConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "gemini"
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

// RequestTimeout parses the configured completion timeout, falling back to 60s.
func (c CompletionConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// QuotaConfig holds the daily quota settings.
type QuotaConfig struct {
	FreeDailyLimit int `yaml:"free_daily_limit"`
}

// DatabaseConfig holds the database connection information.
type DatabaseConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// AdminConfig holds configuration for the admin HTTP server.
// An empty ListenAddr disables the server entirely.
type AdminConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Password   string `yaml:"password"`
}

// MediaConfig holds settings for stored photo questions.
type MediaConfig struct {
	Dir string `yaml:"dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Telegram   TelegramConfig   `yaml:"telegram"`
	Completion CompletionConfig `yaml:"completion"`
	Quota      QuotaConfig      `yaml:"quota"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Media      MediaConfig      `yaml:"media"`
	Debug      bool             `yaml:"debug"`
}

// LoadConfig reads and parses the configuration file. It returns the config and a potential warning message.
var LoadConfig = func(path string) (*Config, string, error) {
	var config Config
	var warnings []string

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}
	// If the file does not exist we continue with an empty config and rely on environment variables.

	// Override with environment variables if they exist
	if token := os.Getenv("STUDYBUDDY_TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if adminID := os.Getenv("STUDYBUDDY_ADMIN_ID"); adminID != "" {
		id, err := strconv.ParseInt(adminID, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid STUDYBUDDY_ADMIN_ID: %w", err)
		}
		config.Telegram.AdminID = id
	}
	if key := os.Getenv("STUDYBUDDY_COMPLETION_API_KEY"); key != "" {
		config.Completion.APIKey = key
	}
	if dbType := os.Getenv("STUDYBUDDY_DATABASE_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dsn := os.Getenv("STUDYBUDDY_DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}
	if password := os.Getenv("STUDYBUDDY_ADMIN_PASSWORD"); password != "" {
		config.Admin.Password = password
	}
	if debug := os.Getenv("STUDYBUDDY_DEBUG"); debug != "" {
		config.Debug = (debug == "true")
	}

	// Set default values
	if config.Completion.Provider == "" {
		config.Completion.Provider = "openai"
	}
	if config.Completion.BaseURL == "" {
		config.Completion.BaseURL = "https://api.openai.com/v1"
	}
	if config.Completion.Model == "" {
		config.Completion.Model = "gpt-4.1-mini"
	}
	if config.Completion.MaxTokens == 0 {
		config.Completion.MaxTokens = 700
	}
	if config.Completion.Timeout == "" {
		config.Completion.Timeout = "60s"
	}
	if config.Quota.FreeDailyLimit == 0 {
		config.Quota.FreeDailyLimit = 3
		warnings = append(warnings, "quota.free_daily_limit not set, using default value of 3")
	}
	if config.Media.Dir == "" {
		config.Media.Dir = "media"
	}

	// Final validation after overrides
	if config.Telegram.Token == "" {
		return nil, "", fmt.Errorf("telegram token must be configured in config.yaml or via STUDYBUDDY_TELEGRAM_TOKEN")
	}
	if config.Completion.APIKey == "" {
		return nil, "", fmt.Errorf("completion api key must be configured in config.yaml or via STUDYBUDDY_COMPLETION_API_KEY")
	}
	if config.Completion.Provider != "openai" && config.Completion.Provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported completion provider: %s", config.Completion.Provider)
	}
	if config.Database.Type == "" || config.Database.DSN == "" {
		return nil, "", fmt.Errorf("database type and dsn must be configured in config.yaml or via environment variables")
	}
	if config.Admin.ListenAddr != "" && config.Admin.Password == "" {
		return nil, "", fmt.Errorf("admin.password must be set when the admin server is enabled")
	}

	return &config, strings.Join(warnings, "; "), nil
}
