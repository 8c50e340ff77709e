package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Workers int    `mapstructure:"workers"`
}

// CatalogConfig holds upstream storefront catalog API configuration
type CatalogConfig struct {
	GraphQLURL           string `mapstructure:"graphql_url"`
	LegacyPageURL        string `mapstructure:"legacy_page_url"` // Format string taking the SKU, empty disables the fallback
	StoreCode            string `mapstructure:"store_code"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	QuotaBackoff         int    `mapstructure:"quota_backoff"` // Seconds the circuit breaker stays open
}

// StorefrontConfig controls how breadcrumbs are resolved and rendered
type StorefrontConfig struct {
	BasePath  string            `mapstructure:"base_path"`
	URLSuffix string            `mapstructure:"url_suffix"`
	Classes   map[string]string `mapstructure:"classes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
	CacheTTL      int    `mapstructure:"cache_ttl"`
	MaxRetries    int    `mapstructure:"max_retries"` // Refresh attempts before a task is dropped
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from YAML file with environment variable overrides.
// An explicit file path takes precedence over ./config.yaml; a missing
// default file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn("config.yaml not found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := ApplyLogLevel(config.Log.Level); err != nil {
		return nil, err
	}

	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			level := v.GetString("log.level")
			if err := ApplyLogLevel(level); err != nil {
				log.Warnf("⚠️ Ignoring log level from %s: %v", e.Name, err)
				return
			}
			log.Infof("🔄 Config %s changed, log level is %s", e.Name, level)
		})
		v.WatchConfig()
	}

	return &config, nil
}

// Validate checks values that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	if c.Catalog.GraphQLURL == "" {
		return fmt.Errorf("catalog.graphql_url must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("redis.cache_ttl must not be negative, got %d", c.Redis.CacheTTL)
	}
	return nil
}

// ApplyLogLevel sets the global logrus level. An empty level keeps the
// current one.
func ApplyLogLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	log.SetLevel(parsed)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.workers", 4)

	v.SetDefault("catalog.graphql_url", "http://localhost/graphql")
	v.SetDefault("catalog.legacy_page_url", "")
	v.SetDefault("catalog.store_code", "default")
	v.SetDefault("catalog.timeout", 30)
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.max_requests_per_second", 10)
	v.SetDefault("catalog.quota_backoff", 300)

	v.SetDefault("storefront.base_path", "")
	v.SetDefault("storefront.url_suffix", ".html")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "breadcrumbs_consumer")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.cache_ttl", 900)
	v.SetDefault("redis.max_retries", 5)

	v.SetDefault("log.level", "info")
}
