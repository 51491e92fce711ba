package config

import (
	"github.com/anwarji786/EnglishLearningApp/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig     `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth      AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig        `mapstructure:"llm"`
	Scheduler srs.ParamsConfig `mapstructure:"scheduler"`
	Task      TaskConfig       `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	MaxOpenConns    int `mapstructure:"max_open_conns" validate:"omitempty,gt=0"`
	MaxIdleConns    int `mapstructure:"max_idle_conns" validate:"omitempty,gt=0"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime_minutes" validate:"omitempty,gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Token lifetimes in minutes. Access tokens are short-lived; refresh
	// tokens let clients obtain new access tokens without re-authenticating.
	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lte=1440"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lte=43200"`

	BCryptCost int `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains settings for the story generation integration.
// Generation is optional; when the API key is empty the server runs with
// story generation disabled.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name"`
	MaxRetries         int    `mapstructure:"max_retries"          validate:"omitempty,gte=0,lte=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds"  validate:"omitempty,gte=1,lte=30"`
	RequestTimeoutSecs int    `mapstructure:"request_timeout_secs" validate:"omitempty,gte=1,lte=300"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count"           validate:"omitempty,gt=0,lte=64"`
	QueueSize           int `mapstructure:"queue_size"             validate:"omitempty,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"omitempty,gt=0"`
}
