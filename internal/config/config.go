package config

import (
	"encoding/json"
	"os"

	"github.com/spf13/viper"

	"pyidx/internal/paths"
)

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// Config represents the complete pyidx configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Interpreter InterpreterConfig `json:"interpreter" mapstructure:"interpreter"`
	Index       IndexConfig       `json:"index" mapstructure:"index"`
	Scan        ScanConfig        `json:"scan" mapstructure:"scan"`
	Logging     LoggingConfig     `json:"logging" mapstructure:"logging"`
}

// InterpreterConfig selects the CPython interpreter used for reflective probes
type InterpreterConfig struct {
	// Path is an explicit interpreter executable. Empty means probe PATH.
	Path string `json:"path,omitempty" mapstructure:"path"`

	// ProbeTimeoutMs bounds every interpreter subprocess call.
	ProbeTimeoutMs int `json:"probeTimeoutMs" mapstructure:"probeTimeoutMs"`
}

// IndexConfig locates the persisted name index
type IndexConfig struct {
	// Path overrides the default .pyidx/pyidx.db location when set.
	Path string `json:"path,omitempty" mapstructure:"path"`
}

// ScanConfig bounds source scanning
type ScanConfig struct {
	// MaxFileSizeBytes skips source files larger than this.
	MaxFileSizeBytes int `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Interpreter: InterpreterConfig{
			Path:           "",
			ProbeTimeoutMs: 5000,
		},
		Index: IndexConfig{
			Path: "",
		},
		Scan: ScanConfig{
			MaxFileSizeBytes: 1000000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .pyidx/config.json under the project root
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	// Set defaults so a partial config file still yields a complete Config
	v.SetDefault("version", CurrentVersion)
	v.SetDefault("interpreter.probeTimeoutMs", 5000)
	v.SetDefault("scan.maxFileSizeBytes", 1000000)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.DataDir(projectRoot))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .pyidx/config.json
func (c *Config) Save(projectRoot string) error {
	if _, err := paths.EnsureDataDir(projectRoot); err != nil {
		return err
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(paths.ConfigPath(projectRoot), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Interpreter.ProbeTimeoutMs <= 0 {
		return &ConfigError{Field: "interpreter.probeTimeoutMs", Message: "must be positive"}
	}
	if c.Scan.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
