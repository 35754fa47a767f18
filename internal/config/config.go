package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/suburb-cli/internal/session"
)

// EnvPrefix prefixes every environment override, e.g. SUBURB_DATASET_PATH.
const EnvPrefix = "SUBURB"

// Config holds the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the locality reference dataset.
type DatasetConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	URL         string `yaml:"url" mapstructure:"url"`
	Format      string `yaml:"format" mapstructure:"format"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// Source returns URL when set, otherwise Path.
func (d DatasetConfig) Source() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Path
}

// Timeout returns TimeoutSecs as a duration.
func (d DatasetConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// SearchConfig tunes neighbour classification and ranking.
type SearchConfig struct {
	NearbyKM   float64 `yaml:"nearby_km" mapstructure:"nearby_km"`
	FringeKM   float64 `yaml:"fringe_km" mapstructure:"fringe_km"`
	ScanCap    int     `yaml:"scan_cap" mapstructure:"scan_cap"`
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
}

// OutputConfig selects the result renderer.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var datasetFormats = []string{"auto", "json", "csv", "xlsx"}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv can see it on Unmarshal.
	v.SetDefault("dataset.path", "./data/aus_suburbs.json")
	v.SetDefault("dataset.url", "")
	v.SetDefault("dataset.format", "auto")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.temp_dir", "")
	v.SetDefault("dataset.user_agent", "suburb-cli/1.0")
	v.SetDefault("dataset.timeout_secs", 30)
	v.SetDefault("dataset.max_retries", 3)
	v.SetDefault("search.nearby_km", 10)
	v.SetDefault("search.fringe_km", 50)
	v.SetDefault("search.scan_cap", 600)
	v.SetDefault("search.max_results", 15)
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

	return &cfg, nil
}

// Validate checks value ranges and enumerations, reporting every problem.
func (c *Config) Validate() error {
	var errs []string

	if c.Dataset.Source() == "" {
		errs = append(errs, "one of dataset.path or dataset.url is required")
	}
	if !slices.Contains(datasetFormats, strings.ToLower(c.Dataset.Format)) {
		errs = append(errs, fmt.Sprintf("dataset.format %q is not one of %s", c.Dataset.Format, strings.Join(datasetFormats, ", ")))
	}
	if c.Dataset.TimeoutSecs <= 0 {
		errs = append(errs, "dataset.timeout_secs must be > 0")
	}
	if c.Dataset.MaxRetries < 0 {
		errs = append(errs, "dataset.max_retries must be >= 0")
	}
	if c.Search.NearbyKM <= 0 {
		errs = append(errs, "search.nearby_km must be > 0")
	}
	if c.Search.FringeKM <= c.Search.NearbyKM {
		errs = append(errs, "search.fringe_km must be greater than search.nearby_km")
	}
	if c.Search.ScanCap <= 0 {
		errs = append(errs, "search.scan_cap must be > 0")
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, "search.max_results must be > 0")
	}
	if !slices.Contains(session.Formats, strings.ToLower(c.Output.Format)) {
		errs = append(errs, fmt.Sprintf("output.format %q is not one of %s", c.Output.Format, strings.Join(session.Formats, ", ")))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger. Both encodings write to
// stderr.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
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
