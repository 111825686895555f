package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigPathEnv names the environment variable holding an optional YAML config path.
const ConfigPathEnv = "OPSASSIST_CONFIG"

var ErrInvalidBaseURL = errors.New("store.base_url must be an absolute http(s) URL")

// Load reads the YAML file at path when given, then applies environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if strings.TrimSpace(path) != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes zero values and rejects settings the dashboard cannot run with.
func (c *AppConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	c.Store.BaseURL = c.Store.NormalizedBaseURL()
	u, err := url.Parse(c.Store.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Store.BaseURL)
	}
	if c.Store.RequestTimeout <= 0 {
		c.Store.RequestTimeout = defaultRequestTimeout
	}
	if c.Store.TransitionTimeout <= 0 {
		c.Store.TransitionTimeout = defaultTransitionTimeout
	}
	if c.Sessions.IdleTTL <= 0 {
		c.Sessions.IdleTTL = defaultIdleTTL
	}
	if strings.TrimSpace(c.Sessions.SweepSchedule) == "" {
		c.Sessions.SweepSchedule = defaultSweepSchedule
	}
	q := &c.QuickActions
	if q.MaxParallel <= 0 {
		q.MaxParallel = 1
	}
	if q.MaxSimulateCount <= 0 {
		q.MaxSimulateCount = defaultSimulateCount
	}
	if q.MaxSimulateCount > maxSimulateCountCeiling {
		q.MaxSimulateCount = maxSimulateCountCeiling
	}
	if q.DefaultCount <= 0 {
		q.DefaultCount = defaultSimulateCount
	}
	if q.DefaultCount > q.MaxSimulateCount {
		q.DefaultCount = q.MaxSimulateCount
	}
	q.DefaultLevel = strings.ToUpper(strings.TrimSpace(q.DefaultLevel))
	return nil
}
