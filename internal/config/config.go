package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/korimako-labs/trademe-probe/pkg/oauth"
)

// Config holds the probe configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL        string `mapstructure:"trademe_base_url"`
	ConsumerKey    string `mapstructure:"trademe_consumer_key"`
	ConsumerSecret string `mapstructure:"trademe_consumer_secret"`
	AccessToken    string `mapstructure:"trademe_access_token"`
	TokenSecret    string `mapstructure:"trademe_token_secret"`
	Format         string `mapstructure:"trademe_format"`

	ProbeListingID     int64         `mapstructure:"probe_listing_id"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	SinksFile string `mapstructure:"sinks_file"`

	JournalType           string        `mapstructure:"journal_type"`
	JournalPath           string        `mapstructure:"journal_path"`
	JournalTTLSeconds     int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL            time.Duration `mapstructure:"-"`
	JournalCleanup        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "trademe-probe")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("trademe_base_url", "https://api.tmsandbox.co.nz/v1/")
	v.SetDefault("trademe_format", "json")
	// Credentials default to empty so AutomaticEnv can populate them on
	// Unmarshal; Validate rejects blanks below.
	v.SetDefault("trademe_consumer_key", "")
	v.SetDefault("trademe_consumer_secret", "")
	v.SetDefault("trademe_access_token", "")
	v.SetDefault("trademe_token_secret", "")
	v.SetDefault("probe_listing_id", int64(2149713054))
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/traces.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Credentials().Validate(); err != nil {
		return nil, err
	}
	if cfg.ProbeListingID <= 0 {
		return nil, fmt.Errorf("invalid probe_listing_id (must be a positive listing id)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanup = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}

// Credentials assembles the OAuth credential value the client consumes.
func (c *Config) Credentials() oauth.Credentials {
	return oauth.Credentials{
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		AccessToken:    c.AccessToken,
		TokenSecret:    c.TokenSecret,
	}
}
