package config

import (
	"time"

	"traderflow/pkg/config"
)

// MarketAPI holds the configuration for the upstream market API.
type MarketAPI struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	HistoryPageSize     int           `mapstructure:"history_page_size"`
}

// Preference selects where display preferences are stored.
type Preference struct {
	// Store is "memory" or "redis".
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

// View holds the server-side view controller settings.
type View struct {
	RenderBudget    time.Duration `mapstructure:"render_budget"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	RefreshInterval int           `mapstructure:"refresh_interval"`
	TimeZone        string        `mapstructure:"time_zone"`
}

// Monitor holds the upstream reachability probe settings.
type Monitor struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Telegram Telegram      `mapstructure:"telegram"`
}

// Telegram holds the alert channel for the upstream monitor. Alerts are off when BotToken is empty.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the dashboard service.
type Config struct {
	App        config.App    `mapstructure:"app"`
	Logger     config.Logger `mapstructure:"logger"`
	Redis      config.Redis  `mapstructure:"redis"`
	API        config.API    `mapstructure:"api"`
	MarketAPI  MarketAPI     `mapstructure:"market_api"`
	Preference Preference    `mapstructure:"preference"`
	View       View          `mapstructure:"view"`
	Monitor    Monitor       `mapstructure:"monitor"`
}

// Load loads the dashboard configuration from the given path and fills defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "traderflow-dashboard"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.API.Port == 0 {
		c.API.Port = 3000
	}
	if c.API.ShutdownTimeout == 0 {
		c.API.ShutdownTimeout = 10 * time.Second
	}
	if c.MarketAPI.BaseURL == "" {
		c.MarketAPI.BaseURL = "http://localhost:8080/api"
	}
	if c.MarketAPI.Timeout == 0 {
		c.MarketAPI.Timeout = 10 * time.Second
	}
	if c.MarketAPI.HistoryPageSize == 0 {
		c.MarketAPI.HistoryPageSize = 10
	}
	if c.Preference.Store == "" {
		c.Preference.Store = "memory"
	}
	if c.View.RenderBudget == 0 {
		c.View.RenderBudget = 2 * time.Second
	}
	if c.View.IdleTTL == 0 {
		c.View.IdleTTL = 30 * time.Minute
	}
	if c.View.RefreshInterval == 0 {
		c.View.RefreshInterval = 1
	}
	if c.Monitor.Schedule == "" {
		c.Monitor.Schedule = "@every 30s"
	}
	if c.Monitor.Timeout == 0 {
		c.Monitor.Timeout = 5 * time.Second
	}
}
