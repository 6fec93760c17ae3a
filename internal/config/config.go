// Package config provides configuration loading from YAML or TOML files and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/phinze/posdeck/internal/engine"
	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
)

// Config holds the full application configuration, assembled from the config file + env.
type Config struct {
	MouseActivation string `yaml:"mouse_activation" toml:"mouse_activation"`
	TouchActivation string `yaml:"touch_activation" toml:"touch_activation"`

	Durations DurationsConfig `yaml:"durations" toml:"durations"`
	Limits    LimitsConfig    `yaml:"limits" toml:"limits"`

	// MinUpdateMs is the refresh gate interval. 0 disables the gate.
	MinUpdateMs int `yaml:"min_update_ms" toml:"min_update_ms"`

	Item     ItemConfig `yaml:"item" toml:"item"`
	ItemSize SizeConfig `yaml:"item_size" toml:"item_size"`

	TrackPassive          bool `yaml:"track_passive" toml:"track_passive"`
	TrackPrevious         bool `yaml:"track_previous" toml:"track_previous"`
	MouseDownAllowOutside bool `yaml:"mouse_down_allow_outside" toml:"mouse_down_allow_outside"`

	Cursor       string `yaml:"cursor" toml:"cursor"`
	ActiveCursor string `yaml:"active_cursor,omitempty" toml:"active_cursor,omitempty"`
}

// DurationsConfig holds the gesture windows in milliseconds.
type DurationsConfig struct {
	TapMs       int `yaml:"tap" toml:"tap"`
	DoubleTapMs int `yaml:"double_tap" toml:"double_tap"`
	LongTouchMs int `yaml:"long_touch" toml:"long_touch"`
}

// LimitsConfig holds the movement thresholds separating clicks from drags.
type LimitsConfig struct {
	ClickMove     float64 `yaml:"click_move" toml:"click_move"`
	LongTouchMove float64 `yaml:"long_touch_move" toml:"long_touch_move"`
}

// ItemConfig holds the item movement and bounding policy.
type ItemConfig struct {
	Track               bool    `yaml:"track" toml:"track"`
	LinkToActive        bool    `yaml:"link_to_active" toml:"link_to_active"`
	AlignOnActive       bool    `yaml:"align_on_active" toml:"align_on_active"`
	CenterOnActivate    bool    `yaml:"center_on_activate" toml:"center_on_activate"`
	CenterOnActivatePos bool    `yaml:"center_on_activate_pos" toml:"center_on_activate_pos"`
	CenterOnLoad        bool    `yaml:"center_on_load" toml:"center_on_load"`
	Multiplier          float64 `yaml:"multiplier" toml:"multiplier"`

	// Unset bounds leave that side unbounded.
	MinX *float64 `yaml:"min_x,omitempty" toml:"min_x,omitempty"`
	MaxX *float64 `yaml:"max_x,omitempty" toml:"max_x,omitempty"`
	MinY *float64 `yaml:"min_y,omitempty" toml:"min_y,omitempty"`
	MaxY *float64 `yaml:"max_y,omitempty" toml:"max_y,omitempty"`

	LimitBySize   bool `yaml:"limit_by_size" toml:"limit_by_size"`
	LimitInternal bool `yaml:"limit_internal" toml:"limit_internal"`
}

// SizeConfig is the rendered size of the tracked item in strip pixels.
type SizeConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MouseActivation: gesture.ClickActivation.String(),
		TouchActivation: gesture.TapActivation.String(),
		Durations: DurationsConfig{
			TapMs:       180,
			DoubleTapMs: 400,
			LongTouchMs: 500,
		},
		Limits: LimitsConfig{
			ClickMove:     5,
			LongTouchMove: 5,
		},
		MinUpdateMs: 1,
		Item: ItemConfig{
			Track:         true,
			CenterOnLoad:  true,
			Multiplier:    1,
			LimitBySize:   true,
			LimitInternal: true,
		},
		ItemSize: SizeConfig{Width: 60, Height: 60},
		Cursor:   engine.DefaultCursor,
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "posdeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	// Allow override via environment variable (used by nix-generated config)
	if p := os.Getenv("POSDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the default config file + environment variables.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile assembles configuration from path + environment variables.
// Environment variables always take precedence. A missing file yields the
// defaults. Files ending in .toml are decoded as TOML, anything else as YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// 1. Try to load the config file
	if isTOML(path) {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	} else if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// 2. Environment variables override everything
	if v := os.Getenv("POSDECK_MOUSE_ACTIVATION"); v != "" {
		cfg.MouseActivation = v
	}
	if v := os.Getenv("POSDECK_TOUCH_ACTIVATION"); v != "" {
		cfg.TouchActivation = v
	}
	if v := os.Getenv("POSDECK_MIN_UPDATE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing POSDECK_MIN_UPDATE_MS: %w", err)
		}
		cfg.MinUpdateMs = ms
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown activation methods and negative durations.
func (c *Config) Validate() error {
	if _, err := gesture.ParseMouseMethod(c.MouseActivation); err != nil {
		return err
	}
	if _, err := gesture.ParseTouchMethod(c.TouchActivation); err != nil {
		return err
	}
	for name, ms := range map[string]int{
		"durations.tap":        c.Durations.TapMs,
		"durations.double_tap": c.Durations.DoubleTapMs,
		"durations.long_touch": c.Durations.LongTouchMs,
		"min_update_ms":        c.MinUpdateMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, ms)
		}
	}
	return nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	mouse, err := gesture.ParseMouseMethod(c.MouseActivation)
	if err != nil {
		return engine.Options{}, err
	}
	touch, err := gesture.ParseTouchMethod(c.TouchActivation)
	if err != nil {
		return engine.Options{}, err
	}

	opts := engine.DefaultOptions()
	opts.MouseMethod = mouse
	opts.TouchMethod = touch
	if c.Cursor != "" {
		opts.Cursor = c.Cursor
	}
	opts.ActiveCursor = c.ActiveCursor

	opts.Gesture.TapDuration = millis(c.Durations.TapMs)
	opts.Gesture.DoubleTapDuration = millis(c.Durations.DoubleTapMs)
	opts.Gesture.LongTouchDuration = millis(c.Durations.LongTouchMs)
	opts.Gesture.ClickMoveLimit = c.Limits.ClickMove
	opts.Gesture.LongTouchMoveLimit = c.Limits.LongTouchMove
	opts.Gesture.MouseDownAllowOutside = c.MouseDownAllowOutside

	p := &opts.Position
	p.MinUpdateInterval = millis(c.MinUpdateMs)
	p.TrackPassivePosition = c.TrackPassive
	p.TrackPreviousPosition = c.TrackPrevious
	p.TrackItemPosition = c.Item.Track
	p.LinkItemToActive = c.Item.LinkToActive
	p.AlignItemOnActivePos = c.Item.AlignOnActive
	p.CenterItemOnActivate = c.Item.CenterOnActivate
	p.CenterItemOnActivatePos = c.Item.CenterOnActivatePos
	p.CenterItemOnLoad = c.Item.CenterOnLoad
	p.ItemMovementMultiplier = c.Item.Multiplier
	p.ItemLimits = geom.Limits{
		MinX: optional(c.Item.MinX),
		MaxX: optional(c.Item.MaxX),
		MinY: optional(c.Item.MinY),
		MaxY: optional(c.Item.MaxY),
	}
	p.ItemPositionLimitBySize = c.Item.LimitBySize
	p.ItemPositionLimitInternal = c.Item.LimitInternal

	return opts, nil
}

// ItemScale returns the configured item size.
func (c *Config) ItemScale() geom.Scale {
	return geom.Scale{Width: c.ItemSize.Width, Height: c.ItemSize.Height}
}

// WriteFile writes config to path, as TOML if path ends in .toml and YAML otherwise.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			f.Close()
			return fmt.Errorf("marshaling config: %w", err)
		}
		return f.Close()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func optional(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
