package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Evaluation error policies
const (
	// ErrorPolicyRespond answers evaluation failures with a zero result and an error message
	ErrorPolicyRespond = "respond"
	// ErrorPolicyFail returns evaluation failures as invocation errors
	ErrorPolicyFail = "fail"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Log         LogConfig
	Evaluator   EvaluatorConfig
	HTTP        HTTPConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// EvaluatorConfig holds expression evaluation configuration
type EvaluatorConfig struct {
	MaxExpressionLength int    `validate:"min=1"`
	CacheSize           int    `validate:"min=0"`
	ErrorPolicy         string `validate:"oneof=respond fail"`
}

// HTTPConfig holds settings for the local HTTP server
type HTTPConfig struct {
	RateLimitRPS    float64 `validate:"gt=0"`
	RateLimitBurst  int     `validate:"min=1"`
	MaxRequestBytes int64   `validate:"min=1"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("MAX_EXPRESSION_LENGTH", 1024)
	viper.SetDefault("EVAL_CACHE_SIZE", 256)
	viper.SetDefault("EVAL_ERROR_POLICY", ErrorPolicyRespond)
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)
	viper.SetDefault("MAX_REQUEST_BYTES", 64*1024)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Evaluator: EvaluatorConfig{
			MaxExpressionLength: viper.GetInt("MAX_EXPRESSION_LENGTH"),
			CacheSize:           viper.GetInt("EVAL_CACHE_SIZE"),
			ErrorPolicy:         viper.GetString("EVAL_ERROR_POLICY"),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:    viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  viper.GetInt("RATE_LIMIT_BURST"),
			MaxRequestBytes: viper.GetInt64("MAX_REQUEST_BYTES"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
