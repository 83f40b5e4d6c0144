package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables
const (
	EnvDataDir       = "DONTCAUGHT_DATA_DIR"
	EnvDSN           = "DONTCAUGHT_DSN"
	EnvAddr          = "DONTCAUGHT_ADDR"
	EnvAdminPassword = "DONTCAUGHT_ADMIN_PASSWORD"
)

// File names inside the data directory
const (
	FileName   = "config.toml"
	DBFileName = "dontcaught.db"
	LogName    = "dontcaught.log"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Settings SettingsConfig `toml:"settings"`

	// DataDir is resolved at load time, not read from the file
	DataDir string `toml:"-"`
}

// ServerConfig holds the local HTTP API settings.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	AdminPassword string `toml:"admin_password"`
}

// DatabaseConfig selects the durable store.
type DatabaseConfig struct {
	// DSN: sqlite path, mysql://..., or libpq string. Empty means <data>/dontcaught.db
	DSN string `toml:"dsn"`
}

// SettingsConfig tunes the preference toggles.
type SettingsConfig struct {
	SkipTaskbarDefault bool   `toml:"skip_taskbar_default"`
	StoreTimeoutMS     int    `toml:"store_timeout_ms"`
	HostTimeoutMS      int    `toml:"host_timeout_ms"`
	WindowTitle        string `toml:"window_title"`
}

const defaultConfigContent = `[server]
addr = "127.0.0.1:9881"
admin_password = ""               # or set DONTCAUGHT_ADMIN_PASSWORD

[database]
dsn = ""                          # empty: dontcaught.db in the data directory

[settings]
skip_taskbar_default = true       # hidden from the taskbar until the user changes it
store_timeout_ms = 5000
host_timeout_ms = 3000
window_title = "DontCaught"
`

// DefaultDataDir returns ~/.config/dontcaught
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir is unavailable
		return "."
	}
	return filepath.Join(homeDir, ".config", "dontcaught")
}

// ResolveDataDir picks the data directory: CLI flag > env var > default
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		return v
	}
	return DefaultDataDir()
}

// Load reads <dataDir>/config.toml, creating it with defaults when missing.
// Environment variables override values from the file.
func Load(dataDir string) (*Config, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		log.Printf("[Config] Created default config file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	applyEnvOverrides(cfg)
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(dataDir, DBFileName)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Parse decodes TOML content and applies defaults
func Parse(content string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Printf("[Config] Ignoring unknown keys: %v", undecoded)
	}

	// a missing bool decodes as false, but the toggle defaults to hidden
	if !md.IsDefined("settings", "skip_taskbar_default") {
		cfg.Settings.SkipTaskbarDefault = true
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:9881"
	}
	if cfg.Settings.StoreTimeoutMS == 0 {
		cfg.Settings.StoreTimeoutMS = 5000
	}
	if cfg.Settings.HostTimeoutMS == 0 {
		cfg.Settings.HostTimeoutMS = 3000
	}
	if cfg.Settings.WindowTitle == "" {
		cfg.Settings.WindowTitle = "DontCaught"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Server.AdminPassword = v
	}
}

func validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		return fmt.Errorf("invalid server.addr %q: %w", cfg.Server.Addr, err)
	}
	if cfg.Settings.StoreTimeoutMS < 0 {
		return fmt.Errorf("invalid settings.store_timeout_ms %d: must be >= 0", cfg.Settings.StoreTimeoutMS)
	}
	if cfg.Settings.HostTimeoutMS < 0 {
		return fmt.Errorf("invalid settings.host_timeout_ms %d: must be >= 0", cfg.Settings.HostTimeoutMS)
	}
	return nil
}

// StoreTimeout bounds every durable store call
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Settings.StoreTimeoutMS) * time.Millisecond
}

// HostTimeout bounds every window manager call
func (c *Config) HostTimeout() time.Duration {
	return time.Duration(c.Settings.HostTimeoutMS) * time.Millisecond
}

// LogPath is the log file inside the data directory
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, LogName)
}
