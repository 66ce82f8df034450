// Package config handles configuration loading and management.
package config

import "path/filepath"

// Config holds all settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Scene     SceneConfig     `yaml:"scene"`
	Assets    AssetsConfig    `yaml:"assets"`
	Audio     AudioConfig     `yaml:"audio"`
	Debug     DebugConfig     `yaml:"debug"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       bool `yaml:"msaa"`
	// ShadowMapSize of 0 disables shadows.
	ShadowMapSize int32 `yaml:"shadow_map_size"`
}

// SceneConfig holds simulation settings.
type SceneConfig struct {
	SlowMotion    bool    `yaml:"slow_motion"`
	SlowScale     float32 `yaml:"slow_scale"`
	TintSeed      int64   `yaml:"tint_seed"`
	TintAmplitude float32 `yaml:"tint_amplitude"`
}

// ClipPaths locates the movement clips.
type ClipPaths struct {
	Idle string `yaml:"idle"`
	Walk string `yaml:"walk"`
	Jump string `yaml:"jump"`
}

// PropPaths locates the set dressing models.
type PropPaths struct {
	Tree     string `yaml:"tree"`
	Rock     string `yaml:"rock"`
	LogStack string `yaml:"log_stack"`
}

// AssetsConfig holds model locations. Relative paths resolve against Dir.
type AssetsConfig struct {
	Dir       string            `yaml:"dir"`
	Character string            `yaml:"character"`
	Clips     ClipPaths         `yaml:"clips"`
	Props     PropPaths         `yaml:"props"`
	Landmarks map[string]string `yaml:"landmarks"`
	Chime     string            `yaml:"chime"`
}

// Path resolves an asset path against Dir. Empty stays empty.
func (a AssetsConfig) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.Dir, p)
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	// Addr is the debug HTTP listen address; empty disables the server.
	Addr    string `yaml:"addr"`
	ShowFPS bool   `yaml:"show_fps"`
	// ShowBounds draws a wireframe box around every model.
	ShowBounds bool `yaml:"show_bounds"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port; empty disables export.
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Console bool   `yaml:"console"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MSAA:          true,
			ShadowMapSize: 2048,
		},
		Scene: SceneConfig{
			SlowMotion:    false,
			SlowScale:     0.35,
			TintSeed:      7,
			TintAmplitude: 0.035,
		},
		Assets: AssetsConfig{
			Dir:       "assets",
			Character: "boy/idle.glb",
			Clips: ClipPaths{
				Idle: "boy/idle.glb",
				Walk: "boy/walking.glb",
				Jump: "boy/jumping.glb",
			},
			Props: PropPaths{
				Tree:     "nature-kit/tree_oak.glb",
				Rock:     "nature-kit/rock_smallE.glb",
				LogStack: "nature-kit/log_stackLarge.glb",
			},
			Landmarks: map[string]string{
				"ruins":    "landmarks/ruins.glb",
				"tower":    "landmarks/tower.glb",
				"windmill": "landmarks/windmill.glb",
			},
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			SFXVolume:    0.8,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "glade",
			Insecure:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}
