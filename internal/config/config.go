package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment variable override, e.g. REMIT_PDF_ENGINE
const EnvPrefix = "REMIT"

// Config holds all application configuration
type Config struct {
	PDF    PDFConfig    `mapstructure:"pdf"`
	Report ReportConfig `mapstructure:"report"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// PDFConfig holds text extraction configuration
type PDFConfig struct {
	Engine    string `mapstructure:"engine"`     // fitz or pure
	DebugText bool   `mapstructure:"debug_text"` // log every page's text
}

// ReportConfig holds spreadsheet output configuration
type ReportConfig struct {
	OutputDir       string `mapstructure:"output_dir"`       // used when no explicit output path is given
	BaseDir         string `mapstructure:"base_dir"`         // restrict outputs to this directory, empty = anywhere
	TimestampFormat string `mapstructure:"timestamp_format"` // suffix of suggested file names
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from defaults, an optional YAML file, a .env
// file, environment variables and command line flags, in increasing priority.
// An empty configPath skips the config file; a missing .env is ignored.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("pdf.engine", "fitz")
	v.SetDefault("pdf.debug_text", false)

	v.SetDefault("report.output_dir", "")
	v.SetDefault("report.base_dir", "")
	v.SetDefault("report.timestamp_format", "20060102_150405")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds the short environment variable names. Every key is also
// reachable through its full name, e.g. REMIT_REPORT_OUTPUT_DIR.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("pdf.engine", EnvPrefix+"_PDF_ENGINE")
	v.BindEnv("pdf.debug_text", EnvPrefix+"_PDF_DEBUG_TEXT")
	v.BindEnv("report.output_dir", EnvPrefix+"_OUTPUT_DIR")
	v.BindEnv("report.base_dir", EnvPrefix+"_BASE_DIR")
	v.BindEnv("report.timestamp_format", EnvPrefix+"_TIMESTAMP_FORMAT")
	v.BindEnv("logger.level", EnvPrefix+"_LOG_LEVEL")
	v.BindEnv("logger.output_path", EnvPrefix+"_LOG_OUTPUT")
	v.BindEnv("logger.format", EnvPrefix+"_LOG_FORMAT")
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"engine":     "pdf.engine",
	"debug-text": "pdf.debug_text",
	"output-dir": "report.output_dir",
	"log-level":  "logger.level",
	"log-format": "logger.format",
}

// bindFlags lets explicitly set flags override every other source
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.PDF.Engine {
	case "fitz", "pure":
	default:
		return fmt.Errorf("pdf.engine must be fitz or pure, got %q", c.PDF.Engine)
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	if c.Report.TimestampFormat == "" {
		return fmt.Errorf("report.timestamp_format is required")
	}

	return nil
}
