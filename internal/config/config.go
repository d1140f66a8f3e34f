// Package config loads the settings shared by the fsmcanvas binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-canvas/pkg/store"
)

// FileName is the config file kept in the home directory.
const FileName = ".fsmcanvas.yaml"

// Config holds persistent settings.
type Config struct {
	BackendURL string      `yaml:"backend_url"`
	Listen     string      `yaml:"listen"`
	LogLevel   string      `yaml:"log_level"`
	DeleteKey  string      `yaml:"delete_key"`
	FileType   string      `yaml:"file_type"` // svg, png or dot
	LastDir    string      `yaml:"last_dir"`
	Store      StoreConfig `yaml:"store"`
}

// StoreConfig selects the local session store.
type StoreConfig struct {
	Type          string        `yaml:"type"` // memory, file or redis
	Dir           string        `yaml:"dir"`
	RedisAddr     string        `yaml:"redis_addr,omitempty"`
	RedisPassword string        `yaml:"redis_password,omitempty"`
	RedisDB       int           `yaml:"redis_db,omitempty"`
	RedisPrefix   string        `yaml:"redis_prefix,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	dir := ".fsmcanvas"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".fsmcanvas")
	}
	return Config{
		BackendURL: "http://localhost:8000",
		Listen:     ":8000",
		LogLevel:   "info",
		DeleteKey:  "Delete",
		FileType:   "svg",
		LastDir:    cwd,
		Store: StoreConfig{
			Type: "file",
			Dir:  dir,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	content := append([]byte("# fsmcanvas configuration\n"), data...)
	return os.WriteFile(path, content, 0644)
}

// Validate rejects unknown enumerated values.
func (c Config) Validate() error {
	switch c.FileType {
	case "svg", "png", "dot":
	default:
		return fmt.Errorf("unknown file_type %q", c.FileType)
	}
	switch c.Store.Type {
	case "memory", "file":
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New("redis store needs redis_addr")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

// OpenStore builds the configured store.
func (c StoreConfig) OpenStore() (store.Store, error) {
	switch c.Type {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(c.Dir), nil
	case "redis":
		var opts []store.RedisOption
		if c.RedisPrefix != "" {
			opts = append(opts, store.WithPrefix(c.RedisPrefix))
		}
		if c.TTL > 0 {
			opts = append(opts, store.WithTTL(c.TTL))
		}
		return store.NewRedis(c.RedisAddr, c.RedisPassword, c.RedisDB, opts...), nil
	}
	return nil, fmt.Errorf("unknown store type %q", c.Type)
}
