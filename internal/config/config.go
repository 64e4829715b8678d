package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bnema/modscan/internal/container"
)

const (
	// AppName is the application name used for config and data directories
	AppName = "modscan"
	// ConfigFileName is the config file name inside the config directory
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. MODSCAN_ENABLED_ROOT
	EnvPrefix = "MODSCAN"
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigNotFound = errors.New("config file not found")
)

// Config is the interactive CLI configuration
type Config struct {
	EnabledRoot string       `mapstructure:"enabled_root" yaml:"enabled_root"`
	BackupRoot  string       `mapstructure:"backup_root" yaml:"backup_root"`
	DataDir     string       `mapstructure:"data_dir" yaml:"data_dir"`
	EnabledOnly bool         `mapstructure:"enabled_only" yaml:"enabled_only"`
	Workers     int          `mapstructure:"workers" yaml:"workers"`
	Reader      ReaderConfig `mapstructure:"reader" yaml:"reader"`
	Report      ReportConfig `mapstructure:"report" yaml:"report"`
}

// ReaderConfig configures the external archive reader
type ReaderConfig struct {
	// Command runs once per archive; {archive} is replaced by its path
	Command []string `mapstructure:"command" yaml:"command"`
}

// ReportConfig configures where scan reports are written
type ReportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Flags maps config keys to the command-line flags that override them
var Flags = map[string]string{
	"enabled_root": "enabled-root",
	"backup_root":  "backup-root",
	"workers":      "workers",
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:     DataDir(),
		EnabledOnly: true,
		Workers:     1,
		Reader: ReaderConfig{
			Command: append([]string(nil), container.DefaultCommand...),
		},
	}
}

// Dir returns $XDG_CONFIG_HOME/modscan
func Dir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, AppName)
}

// DataDir returns $XDG_DATA_HOME/modscan
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, AppName)
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// Load layers defaults, the config file, MODSCAN_* environment variables
// and changed flags, in increasing priority. An empty path means the
// default location; a missing default file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, string, error) {
	return load(path, flags, path != "")
}

// LoadOptional is Load without failing on a missing explicit file.
// Used when the file is about to be created.
func LoadOptional(path string, flags *pflag.FlagSet) (*Config, string, error) {
	return load(path, flags, false)
}

func load(path string, flags *pflag.FlagSet, mustExist bool) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("enabled_root", defaults.EnabledRoot)
	v.SetDefault("backup_root", defaults.BackupRoot)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("enabled_only", defaults.EnabledOnly)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("reader.command", defaults.Reader.Command)
	v.SetDefault("report.dir", defaults.Report.Dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	if path == "" {
		path = DefaultPath()
	}

	if fileExists(path) {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		resolvedPath = path
	} else if mustExist {
		return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	if flags != nil {
		for key, name := range Flags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

func (c *Config) normalize() {
	c.EnabledRoot = expandHome(c.EnabledRoot)
	c.BackupRoot = expandHome(c.BackupRoot)
	c.DataDir = expandHome(c.DataDir)
	c.Report.Dir = expandHome(c.Report.Dir)
	if c.DataDir == "" {
		c.DataDir = DataDir()
	}
	if c.Report.Dir == "" {
		c.Report.Dir = filepath.Join(c.DataDir, "reports")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

// Validate checks values viper cannot type-check
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if len(c.Reader.Command) > 0 && strings.TrimSpace(c.Reader.Command[0]) == "" {
		return fmt.Errorf("%w: reader.command starts with an empty program", ErrInvalidConfig)
	}
	if c.EnabledRoot != "" && c.BackupRoot != "" && filepath.Clean(c.EnabledRoot) == filepath.Clean(c.BackupRoot) {
		return fmt.Errorf("%w: enabled_root and backup_root are the same directory", ErrInvalidConfig)
	}
	return nil
}

// SaveToFile writes cfg as YAML
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
