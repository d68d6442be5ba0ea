package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Entities  []EntityConfig  `yaml:"entities" mapstructure:"entities"`
	Edinet    EdinetConfig    `yaml:"edinet" mapstructure:"edinet"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Prices    PricesConfig    `yaml:"prices" mapstructure:"prices"`
	Scorecard ScorecardConfig `yaml:"scorecard" mapstructure:"scorecard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// EntityConfig describes one tracked filer.
type EntityConfig struct {
	Code          string `yaml:"code" mapstructure:"code"`
	Name          string `yaml:"name" mapstructure:"name"`
	Symbol        string `yaml:"symbol" mapstructure:"symbol"`
	FiscalYearEnd string `yaml:"fiscal_year_end" mapstructure:"fiscal_year_end"`
}

// EdinetConfig holds EDINET API settings.
type EdinetConfig struct {
	SubscriptionKey string  `yaml:"subscription_key" mapstructure:"subscription_key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent       string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// PathsConfig holds the working directories.
type PathsConfig struct {
	ArchiveDir string `yaml:"archive_dir" mapstructure:"archive_dir"`
	CacheDir   string `yaml:"cache_dir" mapstructure:"cache_dir"`
	PublishDir string `yaml:"publish_dir" mapstructure:"publish_dir"`
}

// PricesConfig configures the price store.
type PricesConfig struct {
	Driver        string `yaml:"driver" mapstructure:"driver"`
	DSN           string `yaml:"dsn" mapstructure:"dsn"`
	StalenessDays int    `yaml:"staleness_days" mapstructure:"staleness_days"`
}

// ScorecardConfig configures KPI threshold evaluation.
type ScorecardConfig struct {
	ThresholdsPath string `yaml:"thresholds_path" mapstructure:"thresholds_path"`
}

// ServerConfig configures the artifact server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VALUESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("edinet.base_url", "https://api.edinet-fsa.go.jp/api/v2")
	v.SetDefault("edinet.user_agent", "valuescope/1.0")
	v.SetDefault("edinet.requests_per_sec", 1)
	v.SetDefault("paths.archive_dir", "xbrl")
	v.SetDefault("paths.cache_dir", "data")
	v.SetDefault("paths.publish_dir", "public/data")
	v.SetDefault("prices.driver", "sqlite")
	v.SetDefault("prices.dsn", "data/prices.db")
	v.SetDefault("prices.staleness_days", 10)
	v.SetDefault("scorecard.thresholds_path", "config/kpi_targets.json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.applyEntityDefaults()

	return &cfg, nil
}

// applyEntityDefaults fills the tracked-entity list and per-entity
// fiscal year-ends. The default set is the utilities the dashboard
// ships with.
func (c *Config) applyEntityDefaults() {
	if len(c.Entities) == 0 {
		c.Entities = []EntityConfig{
			{Code: "E04498", Name: "TEPCO", Symbol: "9501.T"},
			{Code: "E04502", Name: "CHUBU", Symbol: "9502.T"},
			{Code: "E34837", Name: "JERA"},
		}
	}
	for i := range c.Entities {
		if c.Entities[i].FiscalYearEnd == "" {
			c.Entities[i].FiscalYearEnd = "-03-31"
		}
	}
}

// Entity returns the configured entity with the given EDINET code.
func (c *Config) Entity(code string) (EntityConfig, bool) {
	for _, e := range c.Entities {
		if e.Code == code {
			return e, true
		}
	}
	return EntityConfig{}, false
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
