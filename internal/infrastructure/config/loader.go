package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/calderlane/promptward/assets"
	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// FileLoader loads YAML configuration from ~/.promptward/config.yaml
// (overridable via PROMPTWARD_CONFIG or an explicit path). The embedded
// default configuration is written on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. The configuration is validated on
// every load so safety-relevant misconfiguration is rejected up front,
// before any wrapper is constructed or model call made.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg = hydrateDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// TracePath resolves the trace log location for the loaded configuration.
func TracePath(cfg domain.Config) string {
	dir := cfg.Logging.Dir
	if dir == "" {
		dir = filepath.Join(userHomeDir(), ".promptward", "logs")
	}
	file := cfg.Logging.TraceFile
	if file == "" {
		file = domain.DefaultTraceFile
	}
	return filepath.Join(expandPath(dir), file)
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("PROMPTWARD_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".promptward", "config.yaml")
}

// hydrateDefaults fills operational gaps (model identity, budgets, log
// layout). Wrapper safety parameters are deliberately not defaulted here;
// Validate rejects them when absent.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Model.Name == "" {
		cfg.Model.Name = domain.DefaultModelName
	}
	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Model.AuthEnvVar == "" {
		cfg.Model.AuthEnvVar = domain.DefaultAuthEnvVar
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = domain.DefaultMaxTokens
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = domain.DefaultTimeoutSeconds
	}
	if cfg.Wrappers.Default == "" {
		cfg.Wrappers.Default = domain.WrapperNoop
	}
	if cfg.Wrappers.MaxModelCalls == 0 {
		cfg.Wrappers.MaxModelCalls = domain.DefaultMaxModelCalls
	}
	if cfg.Logging.TraceFile == "" {
		cfg.Logging.TraceFile = domain.DefaultTraceFile
	}
	if cfg.Logging.Store == "" {
		cfg.Logging.Store = "file"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
