package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Scanner struct {
		Concurrency     int      `yaml:"concurrency"`
		RequestDelayStr string   `yaml:"request_delay"` // e.g. "30ms"
		HistoryDays     int      `yaml:"history_days"`
		Watchlist       []string `yaml:"watchlist"`

		RequestDelay time.Duration `yaml:"-"`
	} `yaml:"scanner"`
	DataSource struct {
		Provider string `yaml:"provider"` // "yahoo" or "rest"
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCAN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Concurrency = n
		}
	}
	if v := os.Getenv("SCAN_REQUEST_DELAY"); v != "" {
		cfg.Scanner.RequestDelayStr = v
	}
	if v := os.Getenv("SCAN_WATCHLIST"); v != "" {
		cfg.Scanner.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Scanner.Concurrency == 0 {
		cfg.Scanner.Concurrency = 8
	}
	if cfg.Scanner.RequestDelayStr != "" {
		d, err := time.ParseDuration(cfg.Scanner.RequestDelayStr)
		if err != nil {
			return nil, fmt.Errorf("parse request_delay: %w", err)
		}
		cfg.Scanner.RequestDelay = d
	}
	if cfg.Scanner.RequestDelay == 0 {
		cfg.Scanner.RequestDelay = 30 * time.Millisecond
	}
	if cfg.Scanner.HistoryDays == 0 {
		cfg.Scanner.HistoryDays = 120
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8090"
	}
	if cfg.Schedule.ScanCron == "" {
		// Weekdays at 22:30, after the US close.
		cfg.Schedule.ScanCron = "0 30 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/squeezescan.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.Provider == "rest" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest provider")
	}
	if c.Scanner.Concurrency < 1 {
		return fmt.Errorf("scanner.concurrency must be positive")
	}
	return nil
}
