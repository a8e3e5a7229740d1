package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. FNG_SERVER_PORT.
const EnvPrefix = "FNG"

// Source backends.
const (
	BackendFile = "file"
	BackendHTTP = "http"
	BackendS3   = "s3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Charts    []ChartConfig   `yaml:"charts" ignored:"true"`
	Collector CollectorConfig `yaml:"collector" envconfig:"COLLECTOR"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	MaxSizeMB   int    `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB"`
	MaxBackups  int    `yaml:"max_backups" envconfig:"MAX_BACKUPS"`
	MaxAgeDays  int    `yaml:"max_age_days" envconfig:"MAX_AGE_DAYS"`
	Compress    bool   `yaml:"compress" envconfig:"COMPRESS"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	WebDir  string `yaml:"web_dir" envconfig:"WEB_DIR"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// SourcesConfig says where the dashboard CSV files live.
type SourcesConfig struct {
	Backend string            `yaml:"backend" envconfig:"BACKEND"`
	Dir     string            `yaml:"dir" envconfig:"DIR"`
	BaseURL string            `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration     `yaml:"timeout" envconfig:"TIMEOUT"`
	Files   map[string]string `yaml:"files" envconfig:"FILES"`
	S3      S3Config          `yaml:"s3" envconfig:"S3"`
}

// S3Config holds object storage settings for the s3 backend.
type S3Config struct {
	Bucket          string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix          string `yaml:"prefix" envconfig:"PREFIX"`
	Region          string `yaml:"region" envconfig:"REGION"`
	Endpoint        string `yaml:"endpoint" envconfig:"ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" envconfig:"PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SECRET_ACCESS_KEY"`
}

// ChartConfig describes one dashboard chart.
type ChartConfig struct {
	Name          string              `yaml:"name"`
	Title         string              `yaml:"title"`
	Sentiment     *SeriesConfig       `yaml:"sentiment,omitempty"`
	Overlays      []SeriesConfig      `yaml:"overlays"`
	Normalization NormalizationConfig `yaml:"normalization"`
}

// SeriesConfig binds a chart line to a column of a source file.
// Optional series are drawn when enabled but never narrow the date domain.
type SeriesConfig struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Source   string `yaml:"source"`
	Column   string `yaml:"column"`
	Color    string `yaml:"color"`
	Axis     int    `yaml:"axis"`
	Enabled  bool   `yaml:"enabled"`
	Optional bool   `yaml:"optional"`
}

// NormalizationConfig selects how overlays are rescaled.
type NormalizationConfig struct {
	Policy      string  `yaml:"policy"`
	Sensitivity float64 `yaml:"sensitivity"`
	Lo          float64 `yaml:"lo"`
	Hi          float64 `yaml:"hi"`
}

// CollectorConfig configures cmd/collector.
type CollectorConfig struct {
	OutputDir          string            `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	CryptoFearGreedURL string            `yaml:"crypto_fear_greed_url" envconfig:"CRYPTO_FEAR_GREED_URL"`
	StockFearGreedURL  string            `yaml:"stock_fear_greed_url" envconfig:"STOCK_FEAR_GREED_URL"`
	CoinGeckoURL       string            `yaml:"coingecko_url" envconfig:"COINGECKO_URL"`
	Coins              map[string]string `yaml:"coins" envconfig:"COINS"`
	YahooChartURL      string            `yaml:"yahoo_chart_url" envconfig:"YAHOO_CHART_URL"`
	Indices            map[string]string `yaml:"indices" envconfig:"INDICES"`
	GoldSymbol         string            `yaml:"gold_symbol" envconfig:"GOLD_SYMBOL"`
	GoldPageURL        string            `yaml:"gold_page_url" envconfig:"GOLD_PAGE_URL"`
	Headless           bool              `yaml:"headless" envconfig:"HEADLESS"`
	RequestsPerSecond  float64           `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Timeout            time.Duration     `yaml:"timeout" envconfig:"TIMEOUT"`
	UserAgent          string            `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// Load builds the configuration. Precedence, lowest first: Default(), the
// YAML file from FNG_CONFIG_FILE or a well-known location, then FNG_*
// environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if len(cfg.Charts) == 0 {
		cfg.Charts = DefaultCharts()
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Chart returns the named chart definition.
func (c *Config) Chart(name string) (ChartConfig, bool) {
	for _, ch := range c.Charts {
		if ch.Name == name {
			return ch, true
		}
	}
	return ChartConfig{}, false
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch c.Logging.Output {
	case "stdout", "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if err := c.Sources.validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Charts))
	for _, ch := range c.Charts {
		if ch.Name == "" {
			return fmt.Errorf("chart without a name")
		}
		if seen[ch.Name] {
			return fmt.Errorf("duplicate chart %q", ch.Name)
		}
		seen[ch.Name] = true

		if ch.Sentiment == nil && len(ch.Overlays) == 0 {
			return fmt.Errorf("chart %q has no series", ch.Name)
		}
		for _, s := range ch.Series() {
			if _, ok := c.Sources.Files[s.Source]; !ok {
				return fmt.Errorf("chart %q series %q: unknown source %q", ch.Name, s.Key, s.Source)
			}
			if s.Column == "" {
				return fmt.Errorf("chart %q series %q: column is required", ch.Name, s.Key)
			}
		}
	}

	return nil
}

func (s SourcesConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case BackendFile:
		if s.Dir == "" {
			return fmt.Errorf("sources.dir is required for the file backend")
		}
	case BackendHTTP:
		if s.BaseURL == "" {
			return fmt.Errorf("sources.base_url is required for the http backend")
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("sources.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown source backend %q", s.Backend)
	}

	if len(s.Files) == 0 {
		return fmt.Errorf("no source files configured")
	}
	return nil
}

// Series returns the sentiment series, if any, followed by the overlays.
func (ch ChartConfig) Series() []SeriesConfig {
	out := make([]SeriesConfig, 0, len(ch.Overlays)+1)
	if ch.Sentiment != nil {
		out = append(out, *ch.Sentiment)
	}
	return append(out, ch.Overlays...)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "logs/dashboard.log",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
			Compress:   true,
		},
		Paths: PathsConfig{
			WebDir:  "web",
			LogsDir: "logs",
		},
		Sources: SourcesConfig{
			Backend: BackendFile,
			Dir:     "data",
			Timeout: 10 * time.Second,
			Files: map[string]string{
				SourceStock:      "stock.csv",
				SourceCoin:       "coin.csv",
				SourceBTCPremium: "as-is/btc_premium.csv",
				SourceGold:       "gold.csv",
			},
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Charts: DefaultCharts(),
		Collector: CollectorConfig{
			OutputDir:          "data",
			CryptoFearGreedURL: "https://api.alternative.me/fng/",
			StockFearGreedURL:  "https://production.dataviz.cnn.io/index/fearandgreed/graphdata",
			CoinGeckoURL:       "https://api.coingecko.com/api/v3",
			Coins: map[string]string{
				"btc": "bitcoin",
				"eth": "ethereum",
				"sol": "solana",
				"xrp": "ripple",
			},
			YahooChartURL: "https://query1.finance.yahoo.com",
			Indices: map[string]string{
				"sp500":  "^GSPC",
				"nasdaq": "^IXIC",
			},
			GoldSymbol:        "GC=F",
			GoldPageURL:       "https://finance.naver.com/marketindex/goldDetail.naver",
			Headless:          true,
			RequestsPerSecond: 0.5,
			Timeout:           30 * time.Second,
			UserAgent:         "feargreed-collector/1.0",
		},
	}
}
