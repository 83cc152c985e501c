// Package config loads the gallery settings from a TOML file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "FYGALLERY_CONFIG"

type Config struct {
	Dataset   DatasetConfig   `toml:"dataset"`
	Slideshow SlideshowConfig `toml:"slideshow"`
	Ambient   AmbientConfig   `toml:"ambient"`
	Audio     AudioConfig     `toml:"audio"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
}

// DatasetConfig selects where images come from. The first non-empty of
// Manifest, Directory and Catalog wins.
type DatasetConfig struct {
	Manifest    string `toml:"manifest"`
	Directory   string `toml:"directory"`
	Catalog     string `toml:"catalog"`
	Placeholder string `toml:"placeholder"`
}

type SlideshowConfig struct {
	IntervalMS int `toml:"interval_ms"`
}

type AmbientConfig struct {
	SampleWidth    int `toml:"sample_width"`
	AlphaThreshold int `toml:"alpha_threshold"`
}

type AudioConfig struct {
	Location string `toml:"location"`
}

type UIConfig struct {
	Title      string `toml:"title"`
	Subtitle   string `toml:"subtitle"`
	Fullscreen bool   `toml:"fullscreen"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Slideshow: SlideshowConfig{IntervalMS: 5000},
		Ambient: AmbientConfig{
			SampleWidth:    40,
			AlphaThreshold: 150,
		},
		UI: UIConfig{
			Title:    "FyGallery",
			Subtitle: "Engagement & Pre-wedding Album",
			Width:    1280,
			Height:   800,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Interval is the autoplay period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Slideshow.IntervalMS) * time.Millisecond
}

// Validate rejects values the gallery cannot run with.
func (c *Config) Validate() error {
	if c.Slideshow.IntervalMS <= 0 {
		return fmt.Errorf("slideshow.interval_ms must be positive, got %d", c.Slideshow.IntervalMS)
	}
	if c.Ambient.SampleWidth <= 0 {
		return fmt.Errorf("ambient.sample_width must be positive, got %d", c.Ambient.SampleWidth)
	}
	if c.Ambient.AlphaThreshold < 0 || c.Ambient.AlphaThreshold > 255 {
		return fmt.Errorf("ambient.alpha_threshold must be within 0..255, got %d", c.Ambient.AlphaThreshold)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "fygallery"), nil
}

// ConfigPath returns $FYGALLERY_CONFIG, or config.toml in ConfigDir.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path, or ConfigPath when path is empty. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or ConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns a text logger on w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
