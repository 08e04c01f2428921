package config

import (
	"time"

	"github.com/spf13/viper"
)

// Task names understood by the maintenance scheduler.
const (
	TaskSQLMaintenance = "sql_maintenance"
	TaskRateLimitPrune = "ratelimit_prune"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultDBPath = "data/horoscope_users.db"

	DefaultLLMProvider       = "openai"
	DefaultLLMModel          = "gpt-4"
	DefaultLLMFallbackModel  = "gpt-3.5-turbo"
	DefaultLLMTemperature    = 0.7
	DefaultLLMMaxTokens      = 1000
	DefaultLLMTimeoutSeconds = 30
	DefaultLLMMaxRetries     = 3
	DefaultLLMRetryDelay     = 1

	DefaultRateLimitSeconds = 2
	DefaultLanguage         = "LT"
	DefaultPruneAfter       = time.Hour

	DefaultDeliveryTime     = "07:30"
	DefaultDeliveryTimezone = "Europe/Vilnius"
	DefaultBatchSize        = 5
	DefaultBatchPause       = time.Second
	DefaultFallbackInterval = time.Hour
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_ids", []int64{})

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.fallback_model", DefaultLLMFallbackModel)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.max_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.timeout_seconds", DefaultLLMTimeoutSeconds)
	v.SetDefault("llm.max_retries", DefaultLLMMaxRetries)
	v.SetDefault("llm.retry_delay_seconds", DefaultLLMRetryDelay)
	v.SetDefault("llm.system_instruction", "")

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("registration.rate_limit_seconds", DefaultRateLimitSeconds)
	v.SetDefault("registration.default_language", DefaultLanguage)
	v.SetDefault("registration.prune_after", DefaultPruneAfter)

	v.SetDefault("delivery.enabled", true)
	v.SetDefault("delivery.time", DefaultDeliveryTime)
	v.SetDefault("delivery.timezone", DefaultDeliveryTimezone)
	v.SetDefault("delivery.batch_size", DefaultBatchSize)
	v.SetDefault("delivery.batch_pause", DefaultBatchPause)
	v.SetDefault("delivery.fallback_interval", DefaultFallbackInterval)

	v.SetDefault("scheduler.tasks", map[string]any{
		TaskSQLMaintenance: map[string]any{"enabled": true, "schedule": "0 3 * * 0"},
		TaskRateLimitPrune: map[string]any{"enabled": true, "schedule": "*/15 * * * *"},
	})
}
