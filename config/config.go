package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	API          API          `mapstructure:"api"`
	Cache        Cache        `mapstructure:"cache"`
	History      History      `mapstructure:"history"`
	Export       Export       `mapstructure:"export"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	Gemini       Gemini       `mapstructure:"gemini"`
	Maintenance  Maintenance  `mapstructure:"maintenance"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Cache configures the file-backed TTL store. TTLs are resolved per key
// namespace so that long-lived facts (symbol existence) are not expired on
// the same schedule as volatile quote data.
type Cache struct {
	Dir        string                   `mapstructure:"dir"`
	DefaultTTL time.Duration            `mapstructure:"default_ttl"`
	TTL        map[string]time.Duration `mapstructure:"ttl"`
}

// NamespaceTTL returns the TTL configured for a key namespace, falling back
// to the store-wide default.
func (c Cache) NamespaceTTL(namespace string) time.Duration {
	if ttl, ok := c.TTL[namespace]; ok && ttl > 0 {
		return ttl
	}
	if c.DefaultTTL > 0 {
		return c.DefaultTTL
	}
	return 300 * time.Second
}

type History struct {
	Dir string `mapstructure:"dir"`
}

type Export struct {
	Dir string `mapstructure:"dir"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type Maintenance struct {
	CacheSweepSpec string `mapstructure:"cache_sweep_spec"`
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("cache.dir", "cache")
	viper.SetDefault("cache.default_ttl", 300*time.Second)
	viper.SetDefault("cache.ttl.quote", 300*time.Second)
	viper.SetDefault("cache.ttl.validate", 24*time.Hour)
	viper.SetDefault("history.dir", "data")
	viper.SetDefault("export.dir", "exports")
	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("yahoo_finance.timeout", 15*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 250000)
	viper.SetDefault("maintenance.cache_sweep_spec", "@every 10m")
}
