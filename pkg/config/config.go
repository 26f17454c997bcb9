package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockFuse/pkg/util"
)

type Config struct {
	Environment string   `yaml:"environment"`
	Instruments []string `yaml:"instruments"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	AlphaVantage struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"alphavantage"`
	Prices struct {
		IntervalMinutes int           `yaml:"interval_minutes"`
		PollInterval    time.Duration `yaml:"poll_interval"`
		MaxBars         int           `yaml:"max_bars"`
		FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	} `yaml:"prices"`
	Fundamentals struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	} `yaml:"fundamentals"`
	Freshness struct {
		MaxAge time.Duration `yaml:"max_age"`
	} `yaml:"freshness"`
	Fusion struct {
		Mode            string        `yaml:"mode"` // local or remote
		PriceURL        string        `yaml:"price_url"`
		FundamentalsURL string        `yaml:"fundamentals_url"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
	} `yaml:"fusion"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
}

// Default returns the built-in configuration. Every setting has a usable
// default; in particular an empty Alpha Vantage API key is valid and routes
// all polling to the synthetic fallback.
func Default() *Config {
	c := &Config{}
	c.Environment = "development"
	c.Instruments = []string{"AAPL", "MSFT", "GOOGL"}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.SlowThreshold = 500 * time.Millisecond
	c.Logging.Level = "info"
	c.Logging.Format = "console"
	c.Logging.Output = "stdout"
	c.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	c.Prices.IntervalMinutes = 5
	c.Prices.PollInterval = 5 * time.Minute
	c.Prices.MaxBars = 200
	c.Prices.FetchTimeout = 30 * time.Second
	c.Fundamentals.RefreshInterval = time.Hour
	c.Fundamentals.FetchTimeout = 30 * time.Second
	c.Freshness.MaxAge = 15 * time.Minute
	c.Fusion.Mode = "local"
	c.Fusion.PriceURL = "http://price-service:8000"
	c.Fusion.FundamentalsURL = "http://fundamental-service:8000"
	c.Fusion.RequestTimeout = 8 * time.Second
	c.Cache.Backend = "memory"
	c.Cache.TTL = 5 * time.Second
	c.Cache.Redis.Addr = "localhost:6379"
	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.Topic = "stockfuse.bars"
	c.Kafka.Compression = "gzip"
	c.Kafka.RequiredAcks = -1
	c.Kafka.MaxAttempts = 3
	c.Kafka.WriteTimeout = 10 * time.Second
	return c
}

// Load overlays a YAML file onto the defaults. A missing file is not an
// error; the defaults stand on their own.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, c.Validate()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Instruments = strings.Split(v, ",")
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("PRICE_SERVICE_URL"); v != "" {
		c.Fusion.PriceURL = v
	}
	if v := os.Getenv("FUNDAMENTAL_SERVICE_URL"); v != "" {
		c.Fusion.FundamentalsURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, c.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments cannot be empty")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Prices.IntervalMinutes <= 0 {
		return fmt.Errorf("prices.interval_minutes must be positive")
	}
	if c.Prices.MaxBars <= 0 {
		return fmt.Errorf("prices.max_bars must be positive")
	}
	if c.Prices.FetchTimeout >= c.Prices.PollInterval {
		return fmt.Errorf("prices.fetch_timeout must be shorter than prices.poll_interval")
	}
	if c.Fusion.Mode != "local" && c.Fusion.Mode != "remote" {
		return fmt.Errorf("fusion.mode must be 'local' or 'remote', got '%s'", c.Fusion.Mode)
	}
	if c.Fusion.RequestTimeout > c.Prices.FetchTimeout {
		return fmt.Errorf("fusion.request_timeout must not exceed prices.fetch_timeout")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	return nil
}
