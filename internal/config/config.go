package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DBConfig selects the database backing the lookup service.
type DBConfig struct {
	Driver string `validate:"required,oneof=sqlite3 mysql postgres"`
	DSN    string `validate:"required"`
}

// LookupConfig points the editor at the lookup service that resolves link
// titles and keyword labels.
type LookupConfig struct {
	BaseURL     string        `validate:"required,url"`
	Token       string
	Timeout     time.Duration `validate:"gt=0"`
	TitlePath   string        `validate:"required,contains={id}"`
	KeywordPath string        `validate:"required,contains={id}"`
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB     DBConfig
	Lookup LookupConfig
	API    struct {
		RequireToken bool
	}
	Metrics struct {
		Enabled bool
	}
	Locale   string
	LogLevel string
}

var validate = validator.New()

// read collects config from environment (LINKEDITOR_ prefix) and optional
// linkeditor.yaml without validating it.
func read() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKEDITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("linkeditor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("lookup.base_url", "http://localhost:8080")
	v.SetDefault("lookup.timeout", "5s")
	v.SetDefault("lookup.title_path", "/api/v1/links/{id}/short-description")
	v.SetDefault("lookup.keyword_path", "/api/v1/keywords/{id}")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("locale", "en")
	v.SetDefault("log.level", "info")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Lookup.BaseURL = v.GetString("lookup.base_url")
	cfg.Lookup.Token = v.GetString("lookup.token")
	cfg.Lookup.TitlePath = v.GetString("lookup.title_path")
	cfg.Lookup.KeywordPath = v.GetString("lookup.keyword_path")
	cfg.API.RequireToken = v.GetBool("api.require_token")
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Locale = v.GetString("locale")
	cfg.LogLevel = v.GetString("log.level")

	timeout, err := time.ParseDuration(v.GetString("lookup.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKEDITOR_LOOKUP_TIMEOUT: %w", err)
	}
	cfg.Lookup.Timeout = timeout

	if err := validate.Var(cfg.LogLevel, "oneof=debug info warn error"); err != nil {
		return nil, fmt.Errorf("LINKEDITOR_LOG_LEVEL must be one of debug, info, warn, error")
	}
	return cfg, nil
}

// Load reads the configuration for the lookup server. The database settings
// are required.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg.DB); err != nil {
		return nil, fmt.Errorf("LINKEDITOR_DB_DRIVER (sqlite3, mysql, postgres) and LINKEDITOR_DB_DSN are required: %w", err)
	}
	return cfg, nil
}

// LoadClient reads the configuration for editing commands, which only talk to
// the lookup service and never open a database.
func LoadClient() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg.Lookup); err != nil {
		return nil, fmt.Errorf("invalid lookup configuration: %w", err)
	}
	return cfg, nil
}
