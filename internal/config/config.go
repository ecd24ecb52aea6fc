package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user data directory.
const AppName = "clientmanager"

// Config defines application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

type DataConfig struct {
	Dir     string `yaml:"dir" env:"CLIENTMANAGER_DATA_DIR"`
	Backend string `yaml:"backend" env:"CLIENTMANAGER_DATA_BACKEND"`
}

type ServerConfig struct {
	Host    string `yaml:"host" env:"CLIENTMANAGER_SERVER_HOST"`
	Port    int    `yaml:"port" env:"CLIENTMANAGER_SERVER_PORT"`
	Metrics bool   `yaml:"metrics" env:"CLIENTMANAGER_SERVER_METRICS"`
	// Token, when set, is required as a bearer token on the HTTP API.
	Token   string `yaml:"token" env:"CLIENTMANAGER_SERVER_TOKEN"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"CLIENTMANAGER_TRANSPORT_MODE"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"CLIENTMANAGER_LOG_LEVEL"`
	Format string `yaml:"format" env:"CLIENTMANAGER_LOG_FORMAT"`
	Path   string `yaml:"path" env:"CLIENTMANAGER_LOG_PATH"`
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Data: DataConfig{
			Dir:     defaultDataDir(),
			Backend: BackendJSON,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: ModeStdio,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from an optional YAML file, an optional .env file,
// and environment variables, in increasing order of precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path := os.Getenv("CLIENTMANAGER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Data.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid data backend %q", c.Data.Backend)
	}
	switch c.Transport.Mode {
	case ModeStdio, ModeHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Data.Dir == "" {
		return errors.New("data directory is empty")
	}
	return nil
}

// DataPath returns the backing store location for the configured backend.
func (c Config) DataPath() string {
	if c.Data.Backend == BackendSQLite {
		return filepath.Join(c.Data.Dir, "data.db")
	}
	return filepath.Join(c.Data.Dir, "data.json")
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return AppName
	}
	return filepath.Join(base, AppName)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
