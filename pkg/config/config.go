package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Analysis struct {
		TimingWindowDays       int     `yaml:"timing_window_days"`
		SignificantPriceChange float64 `yaml:"significant_price_change"`
		MinConfidenceThreshold float64 `yaml:"min_confidence_threshold"`
		MaxConcurrentRequests  int     `yaml:"max_concurrent_requests"`
		RequestDelaySeconds    float64 `yaml:"request_delay_seconds"`
		Weights                struct {
			Timing    float64 `yaml:"timing"`
			Committee float64 `yaml:"committee"`
			Price     float64 `yaml:"price"`
			Volume    float64 `yaml:"volume"`
		} `yaml:"weights"`
		Tiers struct {
			Medium float64 `yaml:"medium"`
			High   float64 `yaml:"high"`
		} `yaml:"tiers"`
	} `yaml:"analysis"`
	Congress struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"congress"`
	Disclosure struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"disclosure"`
	MarketData struct {
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"marketdata"`
	ClickHouse struct {
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		AlertsTopic string   `yaml:"alerts_topic"`
		Compression string   `yaml:"compression"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	c.applyDefaults()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error: defaults plus environment apply.
func LoadWithEnv(path string) (*Config, error) {
	var c Config
	c.applyDefaults()

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.Environment = "development"
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Analysis.TimingWindowDays = 30
	c.Analysis.SignificantPriceChange = 0.05
	c.Analysis.MinConfidenceThreshold = 0.3
	c.Analysis.MaxConcurrentRequests = 5
	c.Analysis.RequestDelaySeconds = 1.0
	c.Analysis.Weights.Timing = 0.30
	c.Analysis.Weights.Committee = 0.25
	c.Analysis.Weights.Price = 0.35
	c.Analysis.Weights.Volume = 0.10
	c.Analysis.Tiers.Medium = 0.5
	c.Analysis.Tiers.High = 0.7
	c.Congress.BaseURL = "https://api.congress.gov/v3"
	c.Congress.Timeout = 15 * time.Second
	c.Disclosure.BaseURL = "https://efts.senate.gov/api"
	c.Disclosure.Timeout = 20 * time.Second
	c.MarketData.BaseURL = "https://www.alphavantage.co/query"
	c.MarketData.Timeout = 15 * time.Second
	c.MarketData.CacheTTL = 6 * time.Hour
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "senate_insight"
	c.ClickHouse.User = "default"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 10 * time.Second
	c.Kafka.AlertsTopic = "insight.alerts"
	c.Kafka.Compression = "gzip"
	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CONGRESS_API_KEY"); v != "" {
		c.Congress.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v, ok := envInt("TIMING_WINDOW_DAYS"); ok {
		c.Analysis.TimingWindowDays = v
	}
	if v, ok := envFloat("SIGNIFICANT_PRICE_CHANGE"); ok {
		c.Analysis.SignificantPriceChange = v
	}
	if v, ok := envFloat("MIN_CONFIDENCE_THRESHOLD"); ok {
		c.Analysis.MinConfidenceThreshold = v
	}
	if v, ok := envInt("MAX_CONCURRENT_REQUESTS"); ok {
		c.Analysis.MaxConcurrentRequests = v
	}
	if v, ok := envFloat("REQUEST_DELAY_SECONDS"); ok {
		c.Analysis.RequestDelaySeconds = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Validate checks if the configuration is valid. Analysis parameter
// validation (weights, tiers) happens again at detector construction; the
// checks here fail fast before any component is wired.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Analysis.TimingWindowDays <= 0 {
		return fmt.Errorf("analysis.timing_window_days must be positive, got %d", c.Analysis.TimingWindowDays)
	}
	if c.Analysis.SignificantPriceChange <= 0 {
		return fmt.Errorf("analysis.significant_price_change must be positive, got %g", c.Analysis.SignificantPriceChange)
	}
	if c.Analysis.MinConfidenceThreshold < 0 || c.Analysis.MinConfidenceThreshold > 1 {
		return fmt.Errorf("analysis.min_confidence_threshold must be in [0,1], got %g", c.Analysis.MinConfidenceThreshold)
	}
	if c.Analysis.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("analysis.max_concurrent_requests must be positive, got %d", c.Analysis.MaxConcurrentRequests)
	}
	if c.Analysis.RequestDelaySeconds < 0 {
		return fmt.Errorf("analysis.request_delay_seconds must not be negative, got %g", c.Analysis.RequestDelaySeconds)
	}
	return nil
}

// RequestDelay returns the configured inter-request delay as a Duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Analysis.RequestDelaySeconds * float64(time.Second))
}
