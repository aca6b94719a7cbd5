package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"greenhouse_dashboard/internal/models"

	"github.com/spf13/viper"
)

// Config holds everything the service needs to run. Values come from
// configs/config.yml, overridable via GH_* environment variables
// (e.g. GH_UPSTREAM_BASE_URL), with defaults for local development.
type Config struct {
	Port string

	Upstream struct {
		BaseURL string
		Timeout time.Duration
	}

	Lookup struct {
		StatDays int
		LogDays  int
		LogLevel models.LogLevel
	}

	Poll struct {
		Enabled  bool
		Interval time.Duration
	}

	Auth struct {
		SigningKey string
		TokenTTL   time.Duration
	}

	DB struct {
		Path string
	}

	Log struct {
		Level  string
		Format string // console | json
	}
}

const envPrefix = "GH"

// Load reads configuration from the given directory (configs/config.yml).
// A missing config file is fine; defaults and environment cover it.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Port = v.GetString("port")
	cfg.Upstream.BaseURL = strings.TrimRight(v.GetString("upstream.base_url"), "/")
	cfg.Upstream.Timeout = v.GetDuration("upstream.timeout")
	cfg.Lookup.StatDays = v.GetInt("lookup.stat_days")
	cfg.Lookup.LogDays = v.GetInt("lookup.log_days")
	cfg.Poll.Enabled = v.GetBool("poll.enabled")
	cfg.Poll.Interval = v.GetDuration("poll.interval")
	cfg.Auth.SigningKey = v.GetString("auth.signing_key")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.DB.Path = v.GetString("db.path")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	level, err := models.ParseLogLevel(v.GetString("lookup.log_level"))
	if err != nil {
		return nil, fmt.Errorf("lookup.log_level: %w", err)
	}
	cfg.Lookup.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("upstream.base_url", "http://127.0.0.1:8888")
	v.SetDefault("upstream.timeout", "5s")
	v.SetDefault("lookup.stat_days", 7)
	v.SetDefault("lookup.log_days", 7)
	v.SetDefault("lookup.log_level", string(models.LevelInfo))
	v.SetDefault("poll.enabled", true)
	v.SetDefault("poll.interval", "2s")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func (c *Config) validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url must be set")
	}
	if c.Lookup.StatDays < 0 || c.Lookup.LogDays < 0 {
		return errors.New("lookup windows must be >= 0 days")
	}
	if c.Poll.Enabled && c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive when polling is enabled")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	return nil
}
