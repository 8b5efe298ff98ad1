package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// CronParser accepts the six-field (with seconds) expressions used in config.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config holds all application configuration.
type Config struct {
	Kraken struct {
		BaseURL string        `yaml:"base_url" env:"KRAKEN_BASE_URL" validate:"required,url"`
		Timeout time.Duration `yaml:"timeout" env:"KRAKEN_TIMEOUT" validate:"gte=0"`
	} `yaml:"kraken"`
	Sandbox struct {
		Balance        float64 `yaml:"balance" env:"SANDBOX_BALANCE" validate:"gte=0"`
		Currency       string  `yaml:"currency" env:"SANDBOX_CURRENCY" validate:"len=3,alpha"`
		StateFile      string  `yaml:"state_file" env:"SANDBOX_STATE_FILE"`
		AllowOverdraft bool    `yaml:"allow_overdraft" env:"SANDBOX_ALLOW_OVERDRAFT"`
	} `yaml:"sandbox"`
	Store struct {
		Path string `yaml:"path" env:"STORE_PATH" validate:"required"`
	} `yaml:"store"`
	Collect struct {
		Pairs       []string `yaml:"pairs" env:"COLLECT_PAIRS" envSeparator:","`
		Interval    int      `yaml:"interval" env:"COLLECT_INTERVAL" validate:"oneof=1 5 15 30 60 240 1440 10080 21600"`
		Cron        string   `yaml:"cron" env:"COLLECT_CRON"`
		CSVDir      string   `yaml:"csv_dir" env:"COLLECT_CSV_DIR"`
		Incremental bool     `yaml:"incremental" env:"COLLECT_INCREMENTAL"`
		RunOnStart  bool     `yaml:"run_on_start" env:"RUN_ON_START"`
	} `yaml:"collect"`
	Telegram struct {
		BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy    string `yaml:"proxy" env:"HTTPS_PROXY"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
}

// Load reads config from a YAML file, then applies environment variable overrides and
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Sandbox.AllowOverdraft = true

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Kraken.BaseURL == "" {
		c.Kraken.BaseURL = "https://api.kraken.com"
	}
	if c.Kraken.Timeout == 0 {
		c.Kraken.Timeout = 30 * time.Second
	}
	if c.Sandbox.Balance == 0 {
		c.Sandbox.Balance = 1000
	}
	if c.Sandbox.Currency == "" {
		c.Sandbox.Currency = "EUR"
	}
	c.Sandbox.Currency = strings.ToUpper(c.Sandbox.Currency)
	if c.Sandbox.StateFile == "" {
		c.Sandbox.StateFile = "data/sandbox_state.json"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/ohlc.db"
	}
	if len(c.Collect.Pairs) == 0 {
		c.Collect.Pairs = []string{"XXBTZ" + c.Sandbox.Currency}
	}
	if c.Collect.Interval == 0 {
		c.Collect.Interval = 60
	}
	if c.Collect.Cron == "" {
		c.Collect.Cron = "0 5 * * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/kraken_sandbox.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Sandbox.StateFile, &c.Store.Path, &c.Collect.CSVDir, &c.Database.SQLitePath} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks field constraints and the collection cron expression.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := CronParser.Parse(c.Collect.Cron); err != nil {
		return fmt.Errorf("collect.cron %q: %w", c.Collect.Cron, err)
	}
	for _, pair := range c.Collect.Pairs {
		if strings.TrimSpace(pair) == "" {
			return errors.New("collect.pairs must not contain empty entries")
		}
	}
	return nil
}

// TelegramEnabled reports whether both bot token and chat id are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
