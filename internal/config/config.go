// Package config loads the CLI configuration and stored credentials.
// Settings resolve env first, then the config file, then defaults, so a
// one-off SOQUY_SERVER_URL override never has to touch the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the global configuration stored at ~/.config/soquy/config.json.
type Config struct {
	ServerURL     string `json:"server_url,omitempty"`
	WatchInterval string `json:"watch_interval,omitempty"` // duration string, default "30s"
}

// AuthCredentials stores the login state at ~/.config/soquy/auth.json.
type AuthCredentials struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ServerURL string `json:"server_url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

const defaultServerURL = "http://localhost:8080"

// ConfigDir returns ~/.config/soquy, creating it if necessary.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "soquy")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// DataDir returns ~/.local/share/soquy, creating it if necessary. The
// pending queue and the offline cache live here.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".local", "share", "soquy")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

// PendingPath returns the pending queue file path.
func PendingPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pending.json"), nil
}

// CachePath returns the offline cache database path.
func CachePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// Load reads the global config. A missing file yields the zero config.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config.json: %w", err)
	}
	return &cfg, nil
}

// Save writes the global config.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// ServerURL resolves the API base URL: SOQUY_SERVER_URL env, then the
// config file, then the saved credentials, then the default.
func ServerURL() string {
	if url := os.Getenv("SOQUY_SERVER_URL"); url != "" {
		return url
	}
	if cfg, err := Load(); err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	if creds, err := LoadAuth(); err == nil && creds != nil && creds.ServerURL != "" {
		return creds.ServerURL
	}
	return defaultServerURL
}

// WatchInterval resolves how often the watch command probes:
// SOQUY_WATCH_INTERVAL env, then the config file, then 30s.
func WatchInterval() time.Duration {
	if v := os.Getenv("SOQUY_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	if cfg, err := Load(); err == nil && cfg.WatchInterval != "" {
		if d, err := time.ParseDuration(cfg.WatchInterval); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

// LoadAuth reads the stored credentials. Returns nil when not logged in.
func LoadAuth() (*AuthCredentials, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds AuthCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse auth.json: %w", err)
	}
	return &creds, nil
}

// SaveAuth writes the credentials with owner-only permissions.
func SaveAuth(creds *AuthCredentials) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "auth.json"), data, 0600)
}

// ClearAuth removes the stored credentials. Idempotent.
func ClearAuth() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "auth.json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
