// Package config loads nwis-lookups settings from config.yaml and the
// environment, and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
	Fetch FetchConfig `yaml:"fetch" mapstructure:"fetch"`
	NWIS  NWISConfig  `yaml:"nwis" mapstructure:"nwis"`
	WQP   WQPConfig   `yaml:"wqp" mapstructure:"wqp"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FetchConfig configures the HTTP client shared by both pipelines.
type FetchConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// Timeout returns the request timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// NWISConfig configures the NWIS code lookup file.
type NWISConfig struct {
	CodeEndpoint string `yaml:"code_endpoint" mapstructure:"code_endpoint"`
	// TablesFile overrides the built-in table list when set.
	TablesFile string `yaml:"tables_file" mapstructure:"tables_file"`
	Output     string `yaml:"output" mapstructure:"output"`
}

// WQPConfig configures the country/state/county lookup file.
type WQPConfig struct {
	Endpoint        string   `yaml:"endpoint" mapstructure:"endpoint"`
	MimeType        string   `yaml:"mime_type" mapstructure:"mime_type"`
	Countries       []string `yaml:"countries" mapstructure:"countries"`
	CountyCountries []string `yaml:"county_countries" mapstructure:"county_countries"`
	Output          string   `yaml:"output" mapstructure:"output"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NWIS_LOOKUPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("fetch.user_agent", "nwis-lookups/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 1)
	v.SetDefault("fetch.rate_per_sec", 5)
	v.SetDefault("nwis.code_endpoint", "https://help.waterdata.usgs.gov/code")
	v.SetDefault("nwis.tables_file", "")
	v.SetDefault("nwis.output", "nwis_lookup.json")
	v.SetDefault("wqp.endpoint", "https://www.waterqualitydata.us/Codes")
	v.SetDefault("wqp.mime_type", "json")
	v.SetDefault("wqp.countries", []string{"US", "CA"})
	v.SetDefault("wqp.county_countries", []string{"US"})
	v.SetDefault("wqp.output", "nwis_country_state_lookup.json")

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.NWIS.CodeEndpoint == "" {
		problems = append(problems, "nwis.code_endpoint is required")
	}
	if c.NWIS.Output == "" {
		problems = append(problems, "nwis.output is required")
	}
	if c.WQP.Endpoint == "" {
		problems = append(problems, "wqp.endpoint is required")
	}
	if c.WQP.Output == "" {
		problems = append(problems, "wqp.output is required")
	}
	if len(c.WQP.Countries) == 0 {
		problems = append(problems, "wqp.countries must not be empty")
	}
	if c.Fetch.TimeoutSecs <= 0 {
		problems = append(problems, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.MaxRetries < 1 {
		problems = append(problems, "fetch.max_retries must be >= 1")
	}
	if c.Fetch.RatePerSec <= 0 {
		problems = append(problems, "fetch.rate_per_sec must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
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
