package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Sandbox   SandboxConfig
	AutoFix   AutoFixConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// AIConfig holds the generation collaborator's endpoint configuration.
type AIConfig struct {
	BaseURL string        `envconfig:"AI_BASE_URL" default:"http://localhost:8091"`
	Model   string        `envconfig:"AI_MODEL" default:"default"`
	APIKey  string        `envconfig:"AI_API_KEY" default:""`
	Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"2m"`
}

// SandboxConfig bounds sandbox document assembly.
type SandboxConfig struct {
	// MaxProjectFiles caps an uploaded project's file count.
	MaxProjectFiles int `envconfig:"SANDBOX_MAX_FILES" default:"500"`
	// MaxFileBytes caps a single source file.
	MaxFileBytes int `envconfig:"SANDBOX_MAX_FILE_BYTES" default:"1048576"`
}

// AutoFixConfig holds the fix pipeline's tunables. The cool-down and the
// related-file bound are configuration, not constants, on purpose.
type AutoFixConfig struct {
	Cooldown          time.Duration `envconfig:"AUTOFIX_COOLDOWN" default:"10s"`
	Debounce          time.Duration `envconfig:"AUTOFIX_DEBOUNCE" default:"1500ms"`
	MaxRelatedFiles   int           `envconfig:"AUTOFIX_MAX_RELATED_FILES" default:"4"`
	ConsoleTailLines  int           `envconfig:"AUTOFIX_CONSOLE_TAIL" default:"10"`
	MinPriority       int           `envconfig:"AUTOFIX_MIN_PRIORITY" default:"3"`
	MaxFixSourceBytes int           `envconfig:"AUTOFIX_MAX_FIX_BYTES" default:"262144"`
	SuccessToastTTL   time.Duration `envconfig:"AUTOFIX_TOAST_TTL" default:"4s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		AI: AIConfig{
			BaseURL: "http://localhost:8091",
			Model:   "default",
			Timeout: 2 * time.Minute,
		},
		Sandbox: SandboxConfig{
			MaxProjectFiles: 500,
			MaxFileBytes:    1 << 20,
		},
		AutoFix: AutoFixConfig{
			Cooldown:          10 * time.Second,
			Debounce:          1500 * time.Millisecond,
			MaxRelatedFiles:   4,
			ConsoleTailLines:  10,
			MinPriority:       3,
			MaxFixSourceBytes: 256 * 1024,
			SuccessToastTTL:   4 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
