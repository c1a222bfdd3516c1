package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"required"`
	Symbol      string `yaml:"symbol" default:"TM" validate:"required"`

	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost" validate:"required"`
		Port             int           `yaml:"port" default:"9000" validate:"gt=0"`
		Database         string        `yaml:"database" default:"stocks_db" validate:"required"`
		Table            string        `yaml:"table" default:"stock_daily" validate:"required"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
		InsertChunkSize  int           `yaml:"insert_chunk_size" default:"2000" validate:"gt=0"`
	} `yaml:"clickhouse"`

	AlphaVantage struct {
		BaseURL    string        `yaml:"base_url" default:"https://www.alphavantage.co/query" validate:"url"`
		APIKey     string        `yaml:"api_key"`
		OutputSize string        `yaml:"output_size" default:"full" validate:"oneof=full compact"`
		CacheDir   string        `yaml:"cache_dir" default:"data/cache"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"alpha_vantage"`

	Market struct {
		BaseURL string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		Index   string        `yaml:"index" default:"^GSPC" validate:"required"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"market"`

	News struct {
		File        string        `yaml:"file" default:"noticias.txt"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
		Concurrency int           `yaml:"concurrency" default:"4" validate:"gte=1,lte=32"`
		RatePerSec  float64       `yaml:"rate_per_sec" default:"2" validate:"gt=0"`
	} `yaml:"news"`

	Features struct {
		NewsCategories []string `yaml:"news_categories" default:"[\"earnings\",\"product\",\"recall\",\"regulatory\",\"management\",\"macro\"]"`
	} `yaml:"features"`

	Pipeline struct {
		StartDate string `yaml:"start_date" default:"2019-01-01" validate:"datetime=2006-01-02"`
		SplitDate string `yaml:"split_date" default:"2024-01-01" validate:"datetime=2006-01-02"`
	} `yaml:"pipeline"`

	Analysis struct {
		EventWindow int    `yaml:"event_window" default:"5" validate:"gte=1,lte=30"`
		OutputDir   string `yaml:"output_dir" default:"output"`
	} `yaml:"analysis"`

	Cache struct {
		Redis struct {
			Enabled  bool          `yaml:"enabled"`
			Addr     string        `yaml:"addr" default:"localhost:6379"`
			Password string        `yaml:"password"`
			DB       int           `yaml:"db"`
			TTL      time.Duration `yaml:"ttl" default:"24h"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Export struct {
		Dir   string `yaml:"dir" default:"output/dataset"`
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic" default:"stockpulse.dataset"`
			Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
			RequiredAcks int           `yaml:"required_acks" default:"-1"`
			BatchSize    int           `yaml:"batch_size" default:"500"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"kafka"`
	} `yaml:"export"`

	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, then the credentials file, then the
// process environment. Later sources win.
func LoadWithEnv(path, envFile string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("CH_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("CH_USER"); v != "" {
		c.ClickHouse.User = v
	}
	if v := getenv("CH_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := getenv("ALPHA_VANTAGE_API"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := getenv("SYMBOL"); v != "" {
		c.Symbol = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Export.Kafka.Brokers = strings.Split(v, ",")
	}
}

// Validate checks field rules and cross-field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	start, _ := time.Parse(time.DateOnly, c.Pipeline.StartDate)
	split, _ := time.Parse(time.DateOnly, c.Pipeline.SplitDate)
	if !split.After(start) {
		return fmt.Errorf("pipeline.split_date %s must be after start_date %s", c.Pipeline.SplitDate, c.Pipeline.StartDate)
	}
	if c.Export.Kafka.Enabled && len(c.Export.Kafka.Brokers) == 0 {
		return fmt.Errorf("export.kafka.brokers is required when kafka export is enabled")
	}
	return nil
}

// StartDate returns the configured pipeline start as a UTC date.
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse(time.DateOnly, c.Pipeline.StartDate)
	return t
}

// SplitDate returns the configured train/test cutoff as a UTC date.
func (c *Config) SplitDate() time.Time {
	t, _ := time.Parse(time.DateOnly, c.Pipeline.SplitDate)
	return t
}
