package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SALES"

// DefaultConfigFile is read when SALES_CONFIG_FILE is not set and the file exists.
const DefaultConfigFile = "salespulse.yaml"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Ingest    IngestConfig    `yaml:"ingest" envconfig:"INGEST"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Quality   QualityConfig   `yaml:"quality" envconfig:"QUALITY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration for the dashboard API
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	SourceFile   string `yaml:"source_file" envconfig:"SOURCE_FILE"`
	ArtifactsDir string `yaml:"artifacts_dir" envconfig:"ARTIFACTS_DIR"`
}

// IngestConfig extends the built-in column rename rules and format profiles.
// Entries are appended after the defaults, so they are tried last.
type IngestConfig struct {
	RenameRules []RenameRuleConfig `yaml:"rename_rules" ignored:"true"`
	Profiles    []ProfileConfig    `yaml:"profiles" ignored:"true"`
}

// RenameRuleConfig maps a legacy header spelling onto its canonical name.
type RenameRuleConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ProfileConfig describes an additional source format profile.
type ProfileConfig struct {
	Name             string `yaml:"name"`
	Delimiter        string `yaml:"delimiter"`
	DecimalSeparator string `yaml:"decimal_separator"`
	Encoding         string `yaml:"encoding"`
}

// ReportConfig controls which artifacts the report generator writes.
type ReportConfig struct {
	CashlessMethods []string `yaml:"cashless_methods" envconfig:"CASHLESS_METHODS"`
	Workbook        bool     `yaml:"workbook" envconfig:"WORKBOOK"`
	CleanExport     bool     `yaml:"clean_export" envconfig:"CLEAN_EXPORT"`
	BOMPrefix       bool     `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// QualityConfig controls the data contract quality gate.
type QualityConfig struct {
	MinPassRate float64 `yaml:"min_pass_rate" envconfig:"MIN_PASS_RATE"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file, or "" when there is none
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
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
	if c.Paths.SourceFile == "" {
		return fmt.Errorf("source file path must be set")
	}
	if c.Quality.MinPassRate < 0 || c.Quality.MinPassRate > 100 {
		return fmt.Errorf("quality min pass rate must be within [0, 100], got %v", c.Quality.MinPassRate)
	}

	for i, rule := range c.Ingest.RenameRules {
		if strings.TrimSpace(rule.From) == "" || strings.TrimSpace(rule.To) == "" {
			return fmt.Errorf("ingest rename rule %d needs both from and to", i)
		}
	}
	for i, p := range c.Ingest.Profiles {
		if len([]rune(p.Delimiter)) != 1 {
			return fmt.Errorf("ingest profile %d (%s): delimiter must be a single character", i, p.Name)
		}
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/salespulse.log"
	}

	return nil
}

// ArtifactPath returns the path of a named artifact inside the artifacts directory
func (c *Config) ArtifactPath(name string) string {
	return filepath.Join(c.Paths.ArtifactsDir, name)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salespulse.log",
		},
		Paths: PathsConfig{
			SourceFile:   "relatorio_vendas.csv",
			ArtifactsDir: "artifacts",
		},
		Report: ReportConfig{
			CashlessMethods: []string{"Credit Card", "Mobile Wallet"},
			Workbook:        true,
			CleanExport:     true,
			BOMPrefix:       false,
		},
		Quality: QualityConfig{
			MinPassRate: 100,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceExporter: "stdout",
			ServiceName:   "salespulse",
		},
	}
}
