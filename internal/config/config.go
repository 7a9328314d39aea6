package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultDSN           = "file:cnkcrm.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	defaultSessionSecret = "change-me-session-secret"
)

type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Session struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"session"`

	// Simulated round trip of the mock auth, AI and ERP collaborators.
	Latency struct {
		Auth time.Duration `mapstructure:"auth"`
		AI   time.Duration `mapstructure:"ai"`
		ERP  time.Duration `mapstructure:"erp"`
	} `mapstructure:"latency"`

	Reminder struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"reminder"`

	Agent struct {
		Delay    time.Duration `mapstructure:"delay"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"agent"`

	// Read notifications older than Keep are pruned every CleanupInterval.
	Notifications struct {
		Keep            time.Duration `mapstructure:"keep"`
		CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	} `mapstructure:"notifications"`

	Timezone string `mapstructure:"timezone"`

	Metrics struct {
		Textfile string `mapstructure:"textfile"`
	} `mapstructure:"metrics"`

	Otel struct {
		Endpoint    string `mapstructure:"endpoint"`
		ServiceName string `mapstructure:"service_name"`
	} `mapstructure:"otel"`
}

// Load reads .env, then configs/config.yaml when present, then the
// environment. Nested keys map to env names with dots replaced by
// underscores, e.g. SESSION_SECRET.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("database.dsn", defaultDSN)
	v.SetDefault("session.secret", defaultSessionSecret)
	v.SetDefault("session.ttl", "720h")
	v.SetDefault("latency.auth", "500ms")
	v.SetDefault("latency.ai", "1s")
	v.SetDefault("latency.erp", "1s")
	v.SetDefault("reminder.interval", "1m")
	v.SetDefault("agent.delay", "5s")
	v.SetDefault("agent.interval", "1h")
	v.SetDefault("notifications.keep", "720h")
	v.SetDefault("notifications.cleanup_interval", "24h")
	v.SetDefault("timezone", "Europe/Istanbul")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service_name", "cnkcrm")
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Session.Secret = strings.TrimSpace(cfg.Session.Secret)
	if cfg.Otel.Endpoint == "" {
		cfg.Otel.Endpoint = v.GetString("otel_exporter_otlp_endpoint")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.Reminder.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be > 0")
	}
	if cfg.Agent.Interval <= 0 {
		return fmt.Errorf("AGENT_INTERVAL must be > 0")
	}
	if cfg.Notifications.Keep <= 0 {
		return fmt.Errorf("NOTIFICATIONS_KEEP must be > 0")
	}
	if cfg.Agent.Delay < 0 || cfg.Notifications.CleanupInterval < 0 || cfg.Latency.Auth < 0 || cfg.Latency.AI < 0 || cfg.Latency.ERP < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.Session.Secret, defaultSessionSecret) {
		return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
	}
	return nil
}

// Location returns the configured business time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
