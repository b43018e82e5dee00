package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings todos reads from config.toml.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration // zero means no timeout
	LogFile         string
	LogLevel        string
	RefreshInterval time.Duration // zero disables auto-refresh
	BreakerFailures int           // zero disables the circuit breaker
	BreakerCooldown time.Duration
}

const (
	defaultConfigPath      = "~/.config/todos/config.toml"
	defaultAPIURL          = "http://localhost:5001"
	defaultLogFile         = "~/.local/state/todos/todos.log"
	defaultLogLevel        = "info"
	defaultBreakerCooldown = 30 * time.Second
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finalize(cfg)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL          string `toml:"api_url"`
		RequestTimeout  string `toml:"request_timeout"`
		LogFile         string `toml:"log_file"`
		LogLevel        string `toml:"log_level"`
		RefreshInterval string `toml:"refresh_interval"`
		BreakerFailures int    `toml:"breaker_failures"`
		BreakerCooldown string `toml:"breaker_cooldown"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, 0); err != nil {
		return Config{}, err
	}
	if cfg.BreakerCooldown, err = parseDuration("breaker_cooldown", raw.BreakerCooldown, defaultBreakerCooldown); err != nil {
		return Config{}, err
	}
	if raw.BreakerFailures < 0 {
		return Config{}, fmt.Errorf("parse config: breaker_failures must not be negative")
	}
	cfg.BreakerFailures = raw.BreakerFailures

	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	logFile, err := ExpandPath(cfg.LogFile)
	if err != nil {
		return Config{}, fmt.Errorf("resolve log_file: %w", err)
	}
	cfg.LogFile = logFile
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIURL:          defaultAPIURL,
		LogFile:         defaultLogFile,
		LogLevel:        defaultLogLevel,
		BreakerCooldown: defaultBreakerCooldown,
	}
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
