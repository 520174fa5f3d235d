package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values
type Config struct {
	Port     string `env:"PORT"      envDefault:"8080"`
	GinMode  string `env:"GIN_MODE"  envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote leads endpoint and the WhatsApp group handed to the pending page
	LeadEndpoint   string        `env:"LEAD_ENDPOINT"    envDefault:"https://cbs.herbertcarnauba.com.br/api/leads"`
	LeadSource     string        `env:"LEAD_SOURCE"      envDefault:"landing-live"`
	LeadTimeout    time.Duration `env:"LEAD_TIMEOUT"     envDefault:"0s"`
	WhatsAppURL    string        `env:"WHATSAPP_URL"     envDefault:"https://chat.whatsapp.com/EJjYwzRiCA85e9yrEwi8uV?mode=ems_wa_t"`
	PendingPath    string        `env:"PENDING_PATH"     envDefault:"pendente/index.html"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS"  envDefault:"*" envSeparator:","`

	// Optional in-page runtime for keystroke formatting and the live countdown
	StaticDir   string `env:"STATIC_DIR"`
	WasmURL     string `env:"WASM_URL"`
	WasmExecURL string `env:"WASM_EXEC_URL" envDefault:"static/wasm_exec.js"`

	// LANDING_REDIRECT_ON_NETWORK_FAILURE switches the network failure path from
	// log-only to redirecting with saved=0.
	RedirectOnNetworkFailure bool `env:"LANDING_REDIRECT_ON_NETWORK_FAILURE" envDefault:"false"`

	// Weekly live event schedule
	EventTimezone string        `env:"EVENT_TIMEZONE" envDefault:"America/Sao_Paulo"`
	EventWeekday  time.Weekday  `env:"EVENT_WEEKDAY"  envDefault:"3"`
	EventHour     int           `env:"EVENT_HOUR"     envDefault:"20"`
	TickInterval  time.Duration `env:"TICK_INTERVAL"  envDefault:"1s"`

	// Server-side Lead conversion event, disabled unless both are set
	MetaPixelID     string `env:"META_PIXEL_ID"`
	MetaAccessToken string `env:"META_ACCESS_TOKEN"`
	MetaGraphURL    string `env:"META_GRAPH_URL" envDefault:"https://graph.facebook.com/v19.0"`
	MetaTestCode    string `env:"META_TEST_EVENT_CODE"`

	// Submission guard, in-memory unless REDIS_ADDR is set
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	GuardTTL      time.Duration `env:"SUBMISSION_GUARD_TTL" envDefault:"30s"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot express
func (c *Config) Validate() error {
	if c.LeadEndpoint == "" {
		return fmt.Errorf("config: LEAD_ENDPOINT is required")
	}
	if c.EventWeekday < time.Sunday || c.EventWeekday > time.Saturday {
		return fmt.Errorf("config: EVENT_WEEKDAY must be 0-6, got %d", c.EventWeekday)
	}
	if c.EventHour < 0 || c.EventHour > 23 {
		return fmt.Errorf("config: EVENT_HOUR must be 0-23, got %d", c.EventHour)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: TICK_INTERVAL must be positive")
	}
	return nil
}

// PixelEnabled reports whether the server-side conversion event is configured
func (c *Config) PixelEnabled() bool {
	return c.MetaPixelID != "" && c.MetaAccessToken != ""
}
