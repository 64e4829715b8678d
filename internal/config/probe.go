package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProbeConfigFile is looked up in the working directory when no path is given
	ProbeConfigFile = "modscan-probe.json"

	ErrCodeNotFound    = "config_not_found"
	ErrCodeInvalid     = "config_invalid"
	ErrCodeMissingPath = "config_missing_mod_path"
	ErrCodeBadModPath  = "mod_path_invalid"
)

// ProbeConfig is the batch probe's configuration file
type ProbeConfig struct {
	ModPath       string   `json:"mod_path" yaml:"mod_path"`
	BackupPath    string   `json:"backup_path" yaml:"backup_path"`
	ReaderCommand []string `json:"reader_command" yaml:"reader_command"`
	Workers       int      `json:"workers" yaml:"workers"`
}

// Error is a configuration failure with a stable code
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: config file %q not found", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s: config file %q has no mod_path", e.Code, e.Path)
	case ErrCodeBadModPath:
		if e.Err != nil {
			return fmt.Sprintf("%s: %q: %v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s: %q", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: config file %q: %v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s: config file %q", e.Code, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the code from err, or "" when err is not an *Error
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadProbe reads and validates a probe config. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func LoadProbe(path string) (*ProbeConfig, error) {
	if path == "" {
		path = ProbeConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Code: ErrCodeNotFound, Path: path}
		}
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	var cfg ProbeConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	cfg.ModPath = expandHome(strings.TrimSpace(cfg.ModPath))
	cfg.BackupPath = expandHome(strings.TrimSpace(cfg.BackupPath))
	if cfg.ModPath == "" {
		return nil, &Error{Code: ErrCodeMissingPath, Path: path}
	}
	if cfg.Workers < 0 {
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: errors.New("workers must not be negative")}
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	if err := checkDir(cfg.ModPath); err != nil {
		return nil, &Error{Code: ErrCodeBadModPath, Path: cfg.ModPath, Err: err}
	}
	if cfg.BackupPath != "" {
		if err := checkDir(cfg.BackupPath); err != nil {
			return nil, &Error{Code: ErrCodeBadModPath, Path: cfg.BackupPath, Err: err}
		}
	}

	return &cfg, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}
	return nil
}
