package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/phinze/posdeck/internal/gesture"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.MouseMethod != gesture.ClickActivation || opts.TouchMethod != gesture.TapActivation {
		t.Errorf("methods = %v/%v", opts.MouseMethod, opts.TouchMethod)
	}
	if opts.Gesture != gesture.DefaultConfig() {
		t.Errorf("gesture config = %+v", opts.Gesture)
	}
	if opts.Position.MinUpdateInterval != time.Millisecond {
		t.Errorf("min update = %v", opts.Position.MinUpdateInterval)
	}
	l := opts.Position.ItemLimits
	if !math.IsNaN(l.MinX) || !math.IsNaN(l.MaxX) || !math.IsNaN(l.MinY) || !math.IsNaN(l.MaxY) {
		t.Errorf("unset limits = %+v", l)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
mouse_activation: mouseDown
touch_activation: longTouch
durations:
  long_touch: 800
min_update_ms: 0
item:
  multiplier: 2.5
  max_x: -10
  limit_by_size: false
mouse_down_allow_outside: true
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}

	if opts.MouseMethod != gesture.MouseDownActivation || opts.TouchMethod != gesture.LongTouchActivation {
		t.Errorf("methods = %v/%v", opts.MouseMethod, opts.TouchMethod)
	}
	if opts.Gesture.LongTouchDuration != 800*time.Millisecond || opts.Gesture.TapDuration != 180*time.Millisecond {
		t.Errorf("durations = %+v", opts.Gesture)
	}
	if !opts.Gesture.MouseDownAllowOutside {
		t.Error("allow outside not read")
	}
	p := opts.Position
	if p.MinUpdateInterval != 0 {
		t.Errorf("explicit zero gate = %v", p.MinUpdateInterval)
	}
	if p.ItemMovementMultiplier != 2.5 || p.ItemLimits.MaxX != -10 || !math.IsNaN(p.ItemLimits.MinX) {
		t.Errorf("item options = %+v", p)
	}
	if p.ItemPositionLimitBySize || !p.TrackItemPosition {
		t.Errorf("item defaults not layered: %+v", p)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeTemp(t, "config.toml", `
mouse_activation = "hover"
touch_activation = "doubleTap"

[item]
link_to_active = true
min_y = 5.0
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MouseActivation != "hover" || cfg.TouchActivation != "doubleTap" {
		t.Errorf("methods = %q/%q", cfg.MouseActivation, cfg.TouchActivation)
	}
	if !cfg.Item.LinkToActive || cfg.Item.MinY == nil || *cfg.Item.MinY != 5 {
		t.Errorf("item = %+v", cfg.Item)
	}
	if cfg.Item.Multiplier != 1 {
		t.Errorf("multiplier default lost: %v", cfg.Item.Multiplier)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeTemp(t, "config.yaml", "mouse_activation: hover\n")
	t.Setenv("POSDECK_MOUSE_ACTIVATION", "doubleClick")
	t.Setenv("POSDECK_TOUCH_ACTIVATION", "touch")
	t.Setenv("POSDECK_MIN_UPDATE_MS", "16")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MouseActivation != "doubleClick" || cfg.TouchActivation != "touch" || cfg.MinUpdateMs != 16 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		label string
		file  string
		body  string
		env   string
		want  string
	}{
		{"unknown mouse method", "config.yaml", "mouse_activation: swipe\n", "", `unknown mouse activation method "swipe"`},
		{"unknown touch method", "config.yaml", "touch_activation: click\n", "", `unknown touch activation method "click"`},
		{"negative duration", "config.yaml", "durations:\n  tap: -1\n", "", "durations.tap must not be negative"},
		{"bad yaml", "config.yaml", "item: [\n", "", "parsing"},
		{"bad toml", "config.toml", "item = \n", "", "parsing"},
		{"bad env", "config.yaml", "", "soon", "POSDECK_MIN_UPDATE_MS"},
	} {
		t.Run(tc.label, func(t *testing.T) {
			if tc.env != "" {
				t.Setenv("POSDECK_MIN_UPDATE_MS", tc.env)
			}
			_, err := LoadFile(writeTemp(t, tc.file, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	maxX := -20.0
	want := Default()
	want.MouseActivation = "rightClick"
	want.Item.MaxX = &maxX
	want.ActiveCursor = "grabbing"

	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := WriteFile(path, want); err != nil {
				t.Fatal(err)
			}
			got, err := LoadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultConfigPathOverride(t *testing.T) {
	t.Setenv("POSDECK_CONFIG", "/tmp/posdeck.toml")
	if got := DefaultConfigPath(); got != "/tmp/posdeck.toml" {
		t.Errorf("path = %q", got)
	}
}
