package store

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// NewsSourceConfig describes one news source. Kind selects the collector:
// rss feeds, scrape pages via CSS selectors, or sample reads a local file.
type NewsSourceConfig struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Region     string `yaml:"region"`
	URL        string `yaml:"url"`
	SearchPath string `yaml:"search_path"`
	File       string `yaml:"file"`
	Selectors  struct {
		Article     string `yaml:"article"`
		Title       string `yaml:"title"`
		Link        string `yaml:"link"`
		Body        string `yaml:"body"`
		PublishedAt string `yaml:"published_at"`
	} `yaml:"selectors"`
	Queries []string `yaml:"queries"`
}

type ReturnRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Config struct {
	Timezone   string `yaml:"timezone"`
	TablesPath string `yaml:"tables_path"`

	News struct {
		TimeoutSeconds int                `yaml:"timeout_seconds"`
		MaxArticles    int                `yaml:"max_articles"`
		Sources        []NewsSourceConfig `yaml:"sources"`
	} `yaml:"news"`

	Output struct {
		Dir           string `yaml:"dir"`
		Backend       string `yaml:"backend"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"output"`

	Postgres struct {
		DSNEnv          string `yaml:"dsn_env"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
	} `yaml:"postgres"`

	MarketData struct {
		Provider         string            `yaml:"provider"`
		Symbols          map[string]string `yaml:"symbols"`
		InstrumentTokens map[string]int    `yaml:"instrument_tokens"`
		APIKeyEnv        string            `yaml:"api_key_env"`
		AccessTokenEnv   string            `yaml:"access_token_env"`
		HoldingDays      int               `yaml:"holding_days"`
		CacheDir         string            `yaml:"cache_dir"`
		CacheTTLHours    int               `yaml:"cache_ttl_hours"`
		RequestsPerSec   int               `yaml:"requests_per_second"`
		Synthetic        struct {
			Default ReturnRange            `yaml:"default"`
			Ranges  map[string]ReturnRange `yaml:"ranges"`
		} `yaml:"synthetic"`
	} `yaml:"market_data"`

	GlobalMarket struct {
		Enabled      bool              `yaml:"enabled"`
		Indices      map[string]string `yaml:"indices"`
		SemiIndexKey string            `yaml:"semi_index_key"`
	} `yaml:"global_market"`

	Performance struct {
		WeeklyDays     int `yaml:"weekly_days"`
		ValidateDays   int `yaml:"validate_days"`
		MinHistoryDays int `yaml:"min_history_days"`
	} `yaml:"performance"`

	Schedule struct {
		Times []string `yaml:"times"`
	} `yaml:"schedule"`

	Slack struct {
		Enabled    bool   `yaml:"enabled"`
		WebhookEnv string `yaml:"webhook_env"`
		Channel    string `yaml:"channel"`
	} `yaml:"slack"`
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	for _, s := range c.News.Sources {
		if s.Name == "" {
			return errors.New("news source name cannot be empty")
		}
		switch s.Kind {
		case "rss", "scrape":
			if s.URL == "" {
				return fmt.Errorf("news source '%s' requires a url", s.Name)
			}
		case "sample":
			if s.File == "" {
				return fmt.Errorf("news source '%s' requires a file", s.Name)
			}
		default:
			return fmt.Errorf("news source '%s' kind must be 'rss', 'scrape' or 'sample', got '%s'", s.Name, s.Kind)
		}
		if s.Region != "domestic" && s.Region != "global" {
			return fmt.Errorf("news source '%s' region must be 'domestic' or 'global', got '%s'", s.Name, s.Region)
		}
		if s.Kind == "scrape" && s.Selectors.Article == "" {
			return fmt.Errorf("news source '%s' requires selectors.article", s.Name)
		}
	}
	if c.Output.Backend != "file" && c.Output.Backend != "postgres" {
		return fmt.Errorf("output.backend must be 'file' or 'postgres', got '%s'", c.Output.Backend)
	}
	if c.Output.RetentionDays < 0 {
		return fmt.Errorf("output.retention_days cannot be negative, got %d", c.Output.RetentionDays)
	}
	switch c.MarketData.Provider {
	case "yahoo", "kite", "synthetic":
	default:
		return fmt.Errorf("market_data.provider must be 'yahoo', 'kite' or 'synthetic', got '%s'", c.MarketData.Provider)
	}
	if c.MarketData.HoldingDays <= 0 {
		return fmt.Errorf("market_data.holding_days must be positive, got %d", c.MarketData.HoldingDays)
	}
	if r := c.MarketData.Synthetic.Default; r.Min > r.Max {
		return fmt.Errorf("market_data.synthetic.default min %.2f exceeds max %.2f", r.Min, r.Max)
	}
	for name, r := range c.MarketData.Synthetic.Ranges {
		if r.Min > r.Max {
			return fmt.Errorf("market_data.synthetic range for '%s': min %.2f exceeds max %.2f", name, r.Min, r.Max)
		}
	}
	if c.Performance.WeeklyDays <= 0 || c.Performance.ValidateDays <= 0 {
		return errors.New("performance.weekly_days and performance.validate_days must be positive")
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) NewsTimeout() time.Duration {
	return time.Duration(c.News.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.MarketData.CacheTTLHours) * time.Hour
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig unmarshals YAML, fills defaults and validates.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 20
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "results"
	}
	if c.Output.Backend == "" {
		c.Output.Backend = "file"
	}
	if c.Postgres.DSNEnv == "" {
		c.Postgres.DSNEnv = "DATABASE_URL"
	}
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 5
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 2
	}
	if c.Postgres.ConnMaxLifetime == 0 {
		c.Postgres.ConnMaxLifetime = 30
	}
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "yahoo"
	}
	if c.MarketData.APIKeyEnv == "" {
		c.MarketData.APIKeyEnv = "KITE_API_KEY"
	}
	if c.MarketData.AccessTokenEnv == "" {
		c.MarketData.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}
	if c.MarketData.HoldingDays == 0 {
		c.MarketData.HoldingDays = 5
	}
	if c.MarketData.CacheDir == "" {
		c.MarketData.CacheDir = ".cache/returns"
	}
	if c.MarketData.CacheTTLHours == 0 {
		c.MarketData.CacheTTLHours = 24
	}
	if c.MarketData.RequestsPerSec == 0 {
		c.MarketData.RequestsPerSec = 3
	}
	if d := &c.MarketData.Synthetic.Default; d.Min == 0 && d.Max == 0 {
		d.Min, d.Max = -5, 8
	}
	if len(c.GlobalMarket.Indices) == 0 {
		c.GlobalMarket.Indices = map[string]string{
			"sp500":  "^GSPC",
			"nasdaq": "^IXIC",
			"semis":  "SOXX",
		}
	}
	if c.GlobalMarket.SemiIndexKey == "" {
		c.GlobalMarket.SemiIndexKey = "semis"
	}
	if c.Performance.WeeklyDays == 0 {
		c.Performance.WeeklyDays = 7
	}
	if c.Performance.ValidateDays == 0 {
		c.Performance.ValidateDays = 30
	}
	if len(c.Schedule.Times) == 0 {
		c.Schedule.Times = []string{"21:00", "22:00", "23:00", "23:30"}
	}
	if c.Slack.WebhookEnv == "" {
		c.Slack.WebhookEnv = "SLACK_WEBHOOK_URL"
	}
}
