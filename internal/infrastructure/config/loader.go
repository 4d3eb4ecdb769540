package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/chat-cli/assets"
	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/pkg/filesystem"
	"github.com/doeshing/chat-cli/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "CHAT_CLI_CONFIG"

// ErrConfigExists is returned by WriteDefault when a file is present and force is unset.
var ErrConfigExists = errors.New("config file already exists")

// FileLoader loads YAML configuration from ~/.chat-cli/config.yaml (overridable via CHAT_CLI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path resolves through the environment.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file yields the defaults and
// writes nothing.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := decodeDefaults()
	if err != nil {
		return domain.Config{}, err
	}

	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hydrate(cfg), nil
		}
		return domain.Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return hydrate(cfg), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// Exists reports whether a config file is present at Path.
func (l *FileLoader) Exists() bool {
	_, err := os.Stat(l.Path())
	return err == nil
}

// WriteDefault writes the embedded defaults to Path. An existing file is only
// replaced when force is set, after being copied to a timestamped backup whose
// path is returned.
func (l *FileLoader) WriteDefault(force bool) (string, error) {
	path := l.Path()
	var backup string
	if l.Exists() {
		if !force {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		var err error
		if backup, err = l.backup(); err != nil {
			return "", fmt.Errorf("backup config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func (l *FileLoader) backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// DefaultConfig returns the embedded defaults as Load would return them with no file present.
func DefaultConfig() (domain.Config, error) {
	cfg, err := decodeDefaults()
	if err != nil {
		return domain.Config{}, err
	}
	return hydrate(cfg), nil
}

func decodeDefaults() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decode embedded defaults: %w", err)
	}
	return cfg, nil
}

func hydrate(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		cfg.Preferences.TimeoutSeconds = 0
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.AppDir(), "history.db")
	}
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	return cfg
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// named) without overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
