package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Graphics.ShadowMapSize != 2048 {
		t.Errorf("expected shadow map 2048, got %d", cfg.Graphics.ShadowMapSize)
	}

	if cfg.Scene.SlowMotion {
		t.Error("expected slow motion to be off by default")
	}
	if cfg.Scene.SlowScale != 0.35 {
		t.Errorf("expected slow scale 0.35, got %f", cfg.Scene.SlowScale)
	}

	if cfg.Assets.Props.Tree != "nature-kit/tree_oak.glb" {
		t.Errorf("unexpected tree path %q", cfg.Assets.Props.Tree)
	}
	for _, name := range []string{"ruins", "tower", "windmill"} {
		if cfg.Assets.Landmarks[name] == "" {
			t.Errorf("missing default landmark path for %s", name)
		}
	}

	if cfg.Debug.Addr != "" {
		t.Errorf("expected debug server disabled, got %s", cfg.Debug.Addr)
	}
	if cfg.Telemetry.Endpoint != "" {
		t.Errorf("expected telemetry disabled, got %s", cfg.Telemetry.Endpoint)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  shadow_map_size: 1024

scene:
  slow_motion: true
  slow_scale: 0.5
  tint_amplitude: 0

assets:
  dir: /opt/glade
  character: rig.glb
  landmarks:
    tower: custom/tower.glb

audio:
  enabled: false

debug:
  addr: "127.0.0.1:6061"

telemetry:
  endpoint: "localhost:4318"

logging:
  level: "debug"
  log_file: "glade.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.ShadowMapSize != 1024 {
		t.Errorf("expected shadow map 1024, got %d", cfg.Graphics.ShadowMapSize)
	}
	if !cfg.Graphics.VSync {
		t.Error("vsync should keep its default when absent from the file")
	}

	if !cfg.Scene.SlowMotion || cfg.Scene.SlowScale != 0.5 {
		t.Errorf("unexpected scene section %+v", cfg.Scene)
	}
	if cfg.Scene.TintAmplitude != 0 {
		t.Errorf("expected tint disabled, got %f", cfg.Scene.TintAmplitude)
	}

	if got := cfg.Assets.Path(cfg.Assets.Character); got != filepath.Join("/opt/glade", "rig.glb") {
		t.Errorf("character path = %s", got)
	}
	if cfg.Assets.Landmarks["tower"] != "custom/tower.glb" {
		t.Errorf("tower path = %s", cfg.Assets.Landmarks["tower"])
	}

	if cfg.Audio.Enabled {
		t.Error("expected audio disabled")
	}
	if cfg.Debug.Addr != "127.0.0.1:6061" {
		t.Errorf("expected debug addr, got %s", cfg.Debug.Addr)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" {
		t.Errorf("expected telemetry endpoint, got %s", cfg.Telemetry.Endpoint)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "glade.log" {
		t.Errorf("expected log file 'glade.log', got %s", cfg.Logging.LogFile)
	}
}

func TestAssetPath(t *testing.T) {
	a := AssetsConfig{Dir: "assets"}
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"tree.glb", filepath.Join("assets", "tree.glb")},
		{"/abs/tree.glb", "/abs/tree.glb"},
	}
	for _, tt := range tests {
		if got := a.Path(tt.in); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"zero slow scale", func(c *Config) { c.Scene.SlowScale = 0 }},
		{"slow scale above one", func(c *Config) { c.Scene.SlowScale = 1.5 }},
		{"negative shadow map", func(c *Config) { c.Graphics.ShadowMapSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scene.SlowMotion = true
	cfg.Debug.Addr = ":6061"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if !loaded.Scene.SlowMotion || loaded.Debug.Addr != ":6061" {
		t.Errorf("saved settings not restored: %+v %+v", loaded.Scene, loaded.Debug)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Debug.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "slow flag",
			setup: func() {
				*flagSlow = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Scene.SlowMotion {
					t.Error("expected slow motion with slow flag")
				}
				return nil
			},
			teardown: func() {
				*flagSlow = false
			},
		},
		{
			name: "assets and debug-addr flags",
			setup: func() {
				*flagAssets = "/srv/assets"
				*flagDebugAddr = ":7070"
			},
			verify: func(cfg *Config) error {
				if cfg.Assets.Dir != "/srv/assets" {
					t.Errorf("expected assets dir /srv/assets, got %s", cfg.Assets.Dir)
				}
				if cfg.Debug.Addr != ":7070" {
					t.Errorf("expected debug addr :7070, got %s", cfg.Debug.Addr)
				}
				return nil
			},
			teardown: func() {
				*flagAssets = ""
				*flagDebugAddr = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}
