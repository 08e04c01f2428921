// Package config loads the bot configuration from defaults, an optional YAML
// file, a .env file and the environment, and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Delivery     DeliveryConfig     `mapstructure:"delivery"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"     validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"dive,ne=0"`

	// BotInfo is filled from getMe at startup.
	BotInfo *models.User `mapstructure:"-"`
}

// IsAdmin reports whether userID may run admin commands.
func (t TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range t.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LLMConfig holds the language model client configuration.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider"            validate:"oneof=openai gemini"`
	APIKey            string  `mapstructure:"api_key"             validate:"required"`
	BaseURL           string  `mapstructure:"base_url"            validate:"omitempty,url"`
	Model             string  `mapstructure:"model"               validate:"required"`
	FallbackModel     string  `mapstructure:"fallback_model"`
	Temperature       float64 `mapstructure:"temperature"         validate:"gte=0,lte=2"`
	MaxTokens         int     `mapstructure:"max_tokens"          validate:"gte=1"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"     validate:"gte=1,lte=600"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	SystemInstruction string  `mapstructure:"system_instruction"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// RegistrationConfig holds conversation settings.
type RegistrationConfig struct {
	RateLimitSeconds int           `mapstructure:"rate_limit_seconds" validate:"gte=0,lte=3600"`
	DefaultLanguage  string        `mapstructure:"default_language"   validate:"oneof=LT EN RU LV"`
	PruneAfter       time.Duration `mapstructure:"prune_after"        validate:"gte=1m"`
}

// DeliveryConfig holds the daily delivery loop settings.
type DeliveryConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Time             string        `mapstructure:"time"              validate:"clock"`
	Timezone         string        `mapstructure:"timezone"          validate:"timezone"`
	BatchSize        int           `mapstructure:"batch_size"        validate:"gte=1,lte=100"`
	BatchPause       time.Duration `mapstructure:"batch_pause"       validate:"gte=0"`
	FallbackInterval time.Duration `mapstructure:"fallback_interval" validate:"gte=1s"`
}

// Clock returns the configured delivery hour and minute.
func (d DeliveryConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", d.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid delivery time %q: %w", d.Time, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Location loads the configured reference time zone.
func (d DeliveryConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// SchedulerConfig holds configuration for the maintenance scheduler.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig holds configuration for a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// legacyEnv maps configuration keys to the bare environment variable names
// earlier deployments used. BOT_-prefixed names are always accepted too.
var legacyEnv = map[string]string{
	"telegram.token":                  "TELEGRAM_BOT_TOKEN",
	"llm.api_key":                     "OPENAI_API_KEY",
	"llm.model":                       "OPENAI_MODEL",
	"llm.fallback_model":              "OPENAI_MODEL_FALLBACK",
	"llm.timeout_seconds":             "OPENAI_TIMEOUT",
	"llm.max_tokens":                  "MAX_TOKENS",
	"llm.temperature":                 "TEMPERATURE",
	"llm.max_retries":                 "MAX_RETRIES",
	"llm.retry_delay_seconds":         "RETRY_DELAY",
	"registration.rate_limit_seconds": "RATE_LIMIT_SECONDS",
}

// LoadConfig reads configuration in increasing precedence: built-in
// defaults, the YAML file at configPath (optional), then environment
// variables. A .env file in the working directory is loaded into the
// environment first when present.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		envKey := "BOT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			slog.Info("Config file not found, using defaults and environment", "path", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	slog.Debug("Configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.Model,
		"db_path", cfg.Database.Path,
		"delivery_time", cfg.Delivery.Time,
		"delivery_timezone", cfg.Delivery.Timezone)

	return &cfg, nil
}

// Validate checks the struct tags. "clock" accepts HH:MM.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
