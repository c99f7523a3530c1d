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

// Config captures the shell's settings.
type Config struct {
	PrefsDir     string
	APIBind      string
	LogPath      string
	LogLevel     string
	Language     string
	Theme        string
	Dev          bool
	PollInterval time.Duration
}

const (
	defaultConfigPath   = "~/.config/deskshell/config.toml"
	defaultPrefsDir     = "~/.config/deskshell"
	defaultLogPath      = "~/.local/share/deskshell/deskshell.log"
	defaultAPIBind      = "127.0.0.1:7488"
	defaultLogLevel     = "info"
	defaultLanguage     = "en"
	defaultTheme        = "Nightfox"
	defaultPollInterval = 1500 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PrefsDir:     mustExpand(defaultPrefsDir),
		APIBind:      defaultAPIBind,
		LogPath:      mustExpand(defaultLogPath),
		LogLevel:     defaultLogLevel,
		Language:     defaultLanguage,
		Theme:        defaultTheme,
		PollInterval: defaultPollInterval,
	}
}

// Load locates and parses the shell config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PrefsDir     string `toml:"prefs_dir"`
		APIBind      string `toml:"api_bind"`
		LogPath      string `toml:"log_path"`
		LogLevel     string `toml:"log_level"`
		Language     string `toml:"language"`
		Theme        string `toml:"theme"`
		Dev          bool   `toml:"dev"`
		PollInterval string `toml:"poll_interval"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	base := filepath.Dir(resolved)
	if v := strings.TrimSpace(raw.PrefsDir); v != "" {
		cfg.PrefsDir = resolveRelative(base, v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = resolveRelative(base, v)
	}
	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.Language); v != "" {
		cfg.Language = v
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}
	cfg.Dev = raw.Dev
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse poll_interval %q: %w", v, err)
		}
		if d > 0 {
			cfg.PollInterval = d
		}
	}

	return cfg, nil
}

// resolveRelative anchors relative paths at the config file's directory.
func resolveRelative(base, path string) string {
	if strings.HasPrefix(path, "~") || filepath.IsAbs(path) {
		return mustExpand(path)
	}
	return filepath.Join(base, path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
