// Package ttyconf loads ttykit.toml settings.
package ttyconf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vito/ttykit/pkg/input"
	"github.com/vito/ttykit/pkg/region"
)

// FileName is the config file looked for by Find.
const FileName = "ttykit.toml"

// Config holds the settings shared by ttykit's commands.
type Config struct {
	// EscapeTimeout is how long a lone ESC waits for the rest of a sequence.
	EscapeTimeout time.Duration
	// TickInterval is how often a render region redraws.
	TickInterval time.Duration
	// Height is the render region height in rows.
	Height int
	// Spinner names the icon set used for spinners.
	Spinner string
	// Quit is the chord that ends interactive commands.
	Quit input.KeyEvent
	// Mouse enables mouse reporting.
	Mouse bool

	// Path is where the config was loaded from, if anywhere.
	Path string
}

// Default returns the settings used when no file sets them.
func Default() *Config {
	return &Config{
		EscapeTimeout: input.DefaultEscapeTimeout,
		TickInterval:  region.DefaultTickInterval,
		Height:        4,
		Spinner:       "dots",
		Quit:          input.KeyEvent{Code: input.KeyRune, Rune: 'c', Mod: input.ModCtrl},
	}
}

// file mirrors ttykit.toml. Absent keys stay zero and keep their default.
type file struct {
	EscapeTimeout string `toml:"escape_timeout"`
	TickInterval  string `toml:"tick_interval"`
	Height        *int   `toml:"height"`
	Spinner       string `toml:"spinner"`
	Quit          string `toml:"quit"`
	Mouse         *bool  `toml:"mouse"`
}

// Load reads the config at path on top of the defaults.
func Load(path string) (*Config, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}

	cfg, err := f.apply(Default())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse reads config from TOML text, for tests and embedding.
func Parse(data string) (*Config, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, err
	}
	return f.apply(Default())
}

func (f file) apply(cfg *Config) (*Config, error) {
	if f.EscapeTimeout != "" {
		d, err := parseDuration("escape_timeout", f.EscapeTimeout)
		if err != nil {
			return nil, err
		}
		cfg.EscapeTimeout = d
	}
	if f.TickInterval != "" {
		d, err := parseDuration("tick_interval", f.TickInterval)
		if err != nil {
			return nil, err
		}
		cfg.TickInterval = d
	}
	if f.Height != nil {
		if *f.Height < 1 {
			return nil, fmt.Errorf("height: must be at least 1, got %d", *f.Height)
		}
		cfg.Height = *f.Height
	}
	if f.Spinner != "" {
		if _, ok := region.IconsByName(f.Spinner); !ok {
			return nil, fmt.Errorf("spinner: unknown icon set %q (have %s)",
				f.Spinner, strings.Join(region.IconNames(), ", "))
		}
		cfg.Spinner = f.Spinner
	}
	if f.Quit != "" {
		key, err := input.ParseKey(f.Quit)
		if err != nil {
			return nil, fmt.Errorf("quit: %w", err)
		}
		cfg.Quit = key
	}
	if f.Mouse != nil {
		cfg.Mouse = *f.Mouse
	}
	return cfg, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, s)
	}
	return d, nil
}

// SpinnerIcons returns the configured icon set.
func (c *Config) SpinnerIcons() region.Icons {
	icons, ok := region.IconsByName(c.Spinner)
	if !ok {
		return region.Dots
	}
	return icons
}

// Find searches for ttykit.toml starting from dir and walking up to parent
// directories, stopping at a .git boundary. It returns the defaults, with an
// empty Path, when there is none.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return Default(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
