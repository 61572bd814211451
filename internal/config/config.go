package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mdsiyam69/Clarity/internal/barstore"
	"github.com/mdsiyam69/Clarity/internal/logger"
	"github.com/mdsiyam69/Clarity/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Scan       ScanConfig       `yaml:"scan"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Cache      barstore.Config  `yaml:"cache"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Log        logger.Config    `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ScanConfig struct {
	Markets     []string     `yaml:"markets" default:"[\"A_SHARE\",\"US\"]" validate:"min=1"`
	TopN        int          `yaml:"top_n" default:"10" validate:"gte=1,lte=100"`
	HistoryDays int          `yaml:"history_days" default:"60" validate:"gte=20,lte=500"`
	MinScore    int          `yaml:"min_score" default:"50" validate:"gte=50,lte=100"`
	Limits      LimitsConfig `yaml:"limits"`
}

// LimitsConfig caps the discovered universe per market.
type LimitsConfig struct {
	AShare int `yaml:"a_share" default:"50" validate:"gte=1"`
	US     int `yaml:"us" default:"50" validate:"gte=1"`
	HK     int `yaml:"hk" default:"30" validate:"gte=1"`
}

type DataSourceConfig struct {
	Timeout         time.Duration `yaml:"timeout" default:"30s"`
	Proxy           string        `yaml:"proxy" validate:"omitempty,url"`
	RPS             float64       `yaml:"rps" default:"5" validate:"gte=0"`
	Burst           int           `yaml:"burst" default:"5" validate:"gte=1"`
	BreakerFailures uint32        `yaml:"breaker_failures" default:"5" validate:"gte=1"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" default:"1m"`
	// Mock replaces every provider with deterministic synthetic data.
	Mock bool `yaml:"mock"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token" validate:"required_if=Enabled true"`
	ChatID   string `yaml:"chat_id" validate:"required_if=Enabled true"`
	Retries  int    `yaml:"retries" default:"3" validate:"gte=0,lte=10"`
	Polling  bool   `yaml:"polling" default:"true"`
}

type ScheduleConfig struct {
	// DailyCron uses the six-field form with seconds.
	DailyCron  string `yaml:"daily_cron" default:"0 30 8 * * 1-5" validate:"required"`
	RunOnStart bool   `yaml:"run_on_start"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" default:":9090" validate:"required_if=Enabled true"`
}

// Load reads an optional .env file and the YAML config at path, applies
// environment variable overrides and fills defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.DataSource.Proxy, "HTTPS_PROXY")
	setString(&c.Schedule.DailyCron, "CRON_DAILY")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.SQLitePath, "SQLITE_PATH")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Metrics.Addr, "METRICS_ADDR")

	if v := os.Getenv("SCAN_MARKETS"); v != "" {
		c.Scan.Markets = strings.Split(v, ",")
	}
	if v := os.Getenv("SCAN_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_TOP_N: %w", err)
		}
		c.Scan.TopN = n
	}
	for key, dst := range map[string]*bool{
		"TELEGRAM_ENABLED": &c.Telegram.Enabled,
		"RUN_ON_START":     &c.Schedule.RunOnStart,
		"METRICS_ENABLED":  &c.Metrics.Enabled,
		"DATA_MOCK":        &c.DataSource.Mock,
	} {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks field constraints and that every market name parses.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Markets(); err != nil {
		return fmt.Errorf("invalid config: scan.markets: %w", err)
	}
	return nil
}

// Markets returns the configured markets as model tags.
func (c *Config) Markets() ([]model.Market, error) {
	return model.ParseMarkets(c.Scan.Markets)
}

// Limits returns the discovery limit per market.
func (c *Config) Limits() map[model.Market]int {
	return map[model.Market]int{
		model.MarketAShare: c.Scan.Limits.AShare,
		model.MarketUS:     c.Scan.Limits.US,
		model.MarketHK:     c.Scan.Limits.HK,
	}
}
