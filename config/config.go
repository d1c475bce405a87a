// Package config loads CLI defaults from linenum.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "linenum.toml"

// Config represents linenum.toml.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Render  RenderConfig  `toml:"render"`
	Preview PreviewConfig `toml:"preview"`
}

type LogConfig struct {
	// debug, info, warn or error
	Level string `toml:"level"`
}

type RenderConfig struct {
	// png or term
	Format string `toml:"format"`
	// Output path used when -o is not given
	Output string `toml:"output"`
	// Resolution multiplier for png output
	Scale float64 `toml:"scale"`
	// Directory for font paths; empty means the scene's directory
	FontDir string `toml:"font_dir"`
}

type PreviewConfig struct {
	// Lines moved per j/k
	ScrollStep int `toml:"scroll_step"`
	// Terminal size used before the first resize event
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Render: RenderConfig{
			Format: "png",
			Output: "out.png",
			Scale:  1,
		},
		Preview: PreviewConfig{
			ScrollStep: 1,
			Width:      80,
			Height:     24,
		},
	}
}

// Load reads path over the defaults. An empty path means FileName, which may
// be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and fills zero numbers with defaults.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Render.Format {
	case "":
		c.Render.Format = def.Render.Format
	case "png", "term":
	default:
		return fmt.Errorf("unknown render format %q (want png or term)", c.Render.Format)
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = def.Render.Scale
	}
	if c.Preview.ScrollStep <= 0 {
		c.Preview.ScrollStep = def.Preview.ScrollStep
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		c.Preview.Width, c.Preview.Height = def.Preview.Width, def.Preview.Height
	}
	return nil
}

// Save writes c to path.
func Save(path string, c Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level; empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
