package config

import (
	"strings"
	"time"
)

type AppConfig struct {
	ListenAddr   string             `yaml:"listen_addr" env:"OPSASSIST_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	AppEnv       string             `yaml:"app_env" env:"OPSASSIST_APP_ENV" env-default:"development"`
	LogLevel     string             `yaml:"log_level" env:"OPSASSIST_LOG_LEVEL" env-default:"info"`
	Store        StoreConfig        `yaml:"store"`
	Sessions     SessionsConfig     `yaml:"sessions"`
	QuickActions QuickActionsConfig `yaml:"quick_actions"`
}

func (c *AppConfig) IsDevelopment() bool {
	if c == nil {
		return false
	}
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "" || env == "development" || env == "dev"
}

// StoreConfig points the dashboard at the incident store API.
type StoreConfig struct {
	BaseURL                string        `yaml:"base_url" env:"OPSASSIST_API_URL" env-default:"http://localhost:8000"`
	RequestTimeout         time.Duration `yaml:"request_timeout" env:"OPSASSIST_STORE_REQUEST_TIMEOUT" env-default:"10s"`
	TransitionTimeout      time.Duration `yaml:"transition_timeout" env:"OPSASSIST_STORE_TRANSITION_TIMEOUT" env-default:"15s"`
	RefreshAfterTransition bool          `yaml:"refresh_after_transition" env:"OPSASSIST_STORE_REFRESH_AFTER_TRANSITION" env-default:"false"`
}

// NormalizedBaseURL drops trailing slashes so paths can be appended directly.
func (c StoreConfig) NormalizedBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

func (c StoreConfig) DocsURL() string {
	return c.NormalizedBaseURL() + "/docs"
}

type SessionsConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" env:"OPSASSIST_SESSIONS_IDLE_TTL" env-default:"30m"`
	SweepSchedule string        `yaml:"sweep_schedule" env:"OPSASSIST_SESSIONS_SWEEP_SCHEDULE" env-default:"@every 1m"`
	CookieSecure  bool          `yaml:"cookie_secure" env:"OPSASSIST_SESSIONS_COOKIE_SECURE" env-default:"false"`
}

type QuickActionsConfig struct {
	DefaultService   string `yaml:"default_service" env:"OPSASSIST_QUICK_DEFAULT_SERVICE" env-default:"payment-service"`
	DefaultMessage   string `yaml:"default_message" env:"OPSASSIST_QUICK_DEFAULT_MESSAGE" env-default:"Database connection timeout"`
	DefaultLevel     string `yaml:"default_level" env:"OPSASSIST_QUICK_DEFAULT_LEVEL" env-default:"ERROR"`
	DefaultCount     int    `yaml:"default_count" env:"OPSASSIST_QUICK_DEFAULT_COUNT" env-default:"5"`
	MaxSimulateCount int    `yaml:"max_simulate_count" env:"OPSASSIST_QUICK_MAX_SIMULATE_COUNT" env-default:"50"`
	MaxParallel      int    `yaml:"max_parallel" env:"OPSASSIST_QUICK_MAX_PARALLEL" env-default:"8"`
}

const (
	defaultRequestTimeout    = 10 * time.Second
	defaultTransitionTimeout = 15 * time.Second
	defaultIdleTTL           = 30 * time.Minute
	defaultSweepSchedule     = "@every 1m"
	defaultSimulateCount     = 5
	maxSimulateCountCeiling  = 500
)
