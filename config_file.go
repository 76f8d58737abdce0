package heatwave

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file formats accepted by ParseConfig.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// fileConfig is the on-disk schema. Absent keys keep their defaults, so
// scalars are pointers.
type fileConfig struct {
	Title            *string    `yaml:"title" toml:"title"`
	Platform         *string    `yaml:"platform" toml:"platform"`
	Backend          *string    `yaml:"backend" toml:"backend"`
	Window           fileWindow `yaml:"window" toml:"window"`
	GPU              fileGPU    `yaml:"gpu" toml:"gpu"`
	ClearColor       string     `yaml:"clear_color" toml:"clear_color"`
	ContinuousRender *bool      `yaml:"continuous_render" toml:"continuous_render"`
	CoalesceResize   *bool      `yaml:"coalesce_resize" toml:"coalesce_resize"`
	LogLevel         string     `yaml:"log_level" toml:"log_level"`
}

type fileWindow struct {
	Title       *string `yaml:"title" toml:"title"`
	Width       *int    `yaml:"width" toml:"width"`
	Height      *int    `yaml:"height" toml:"height"`
	MinWidth    *int    `yaml:"min_width" toml:"min_width"`
	MinHeight   *int    `yaml:"min_height" toml:"min_height"`
	MaxWidth    *int    `yaml:"max_width" toml:"max_width"`
	MaxHeight   *int    `yaml:"max_height" toml:"max_height"`
	X           *int    `yaml:"x" toml:"x"`
	Y           *int    `yaml:"y" toml:"y"`
	Resizable   *bool   `yaml:"resizable" toml:"resizable"`
	Decorated   *bool   `yaml:"decorated" toml:"decorated"`
	Visible     *bool   `yaml:"visible" toml:"visible"`
	Maximized   *bool   `yaml:"maximized" toml:"maximized"`
	Transparent *bool   `yaml:"transparent" toml:"transparent"`
	Floating    *bool   `yaml:"floating" toml:"floating"`
	Fullscreen  *bool   `yaml:"fullscreen" toml:"fullscreen"`
	FocusOnShow *bool   `yaml:"focus_on_show" toml:"focus_on_show"`
	Canvas      *string `yaml:"canvas" toml:"canvas"`
}

type fileGPU struct {
	PowerPreference      string   `yaml:"power_preference" toml:"power_preference"`
	ForceFallbackAdapter *bool    `yaml:"force_fallback_adapter" toml:"force_fallback_adapter"`
	PreferredFormats     []string `yaml:"preferred_formats" toml:"preferred_formats"`
	PresentMode          string   `yaml:"present_mode" toml:"present_mode"`
	AlphaMode            string   `yaml:"alpha_mode" toml:"alpha_mode"`
	RequiredFeatures     []string `yaml:"required_features" toml:"required_features"`
	DeviceLabel          *string  `yaml:"device_label" toml:"device_label"`
	Debug                *bool    `yaml:"debug" toml:"debug"`
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file and merges it
// over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("heatwave: read config: %w", err)
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format (FormatYAML or FormatTOML)
// and merges it over DefaultConfig.
func ParseConfig(data []byte, format string) (Config, error) {
	var fc fileConfig
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}

	cfg := DefaultConfig()
	if err := fc.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (fc *fileConfig) apply(cfg *Config) error {
	set(&cfg.Title, fc.Title)
	set(&cfg.Platform, fc.Platform)
	set(&cfg.Backend, fc.Backend)
	set(&cfg.ContinuousRender, fc.ContinuousRender)
	set(&cfg.CoalesceResize, fc.CoalesceResize)

	w := &cfg.Window
	fw := fc.Window
	set(&w.Title, fw.Title)
	set(&w.Width, fw.Width)
	set(&w.Height, fw.Height)
	set(&w.MinWidth, fw.MinWidth)
	set(&w.MinHeight, fw.MinHeight)
	set(&w.MaxWidth, fw.MaxWidth)
	set(&w.MaxHeight, fw.MaxHeight)
	if fw.X != nil || fw.Y != nil {
		w.Positioned = true
		set(&w.X, fw.X)
		set(&w.Y, fw.Y)
	}
	set(&w.Resizable, fw.Resizable)
	set(&w.Decorated, fw.Decorated)
	set(&w.Visible, fw.Visible)
	set(&w.Maximized, fw.Maximized)
	set(&w.Transparent, fw.Transparent)
	set(&w.Floating, fw.Floating)
	set(&w.Fullscreen, fw.Fullscreen)
	set(&w.FocusOnShow, fw.FocusOnShow)
	set(&w.Canvas, fw.Canvas)
	if fc.Title == nil && fw.Title != nil {
		cfg.Title = ""
	}

	g := &cfg.GPU
	fg := fc.GPU
	set(&g.ForceFallbackAdapter, fg.ForceFallbackAdapter)
	set(&g.DeviceLabel, fg.DeviceLabel)
	set(&g.Debug, fg.Debug)
	var err error
	if fg.PowerPreference != "" {
		if g.PowerPreference, err = ParsePowerPreference(fg.PowerPreference); err != nil {
			return err
		}
	}
	if fg.PresentMode != "" {
		if g.PresentMode, err = ParsePresentMode(fg.PresentMode); err != nil {
			return err
		}
	}
	if fg.AlphaMode != "" {
		if g.AlphaMode, err = ParseAlphaMode(fg.AlphaMode); err != nil {
			return err
		}
	}
	if fg.PreferredFormats != nil {
		g.PreferredFormats = make([]gputypes.TextureFormat, 0, len(fg.PreferredFormats))
		for _, name := range fg.PreferredFormats {
			f, err := ParseTextureFormat(name)
			if err != nil {
				return err
			}
			g.PreferredFormats = append(g.PreferredFormats, f)
		}
	}
	if fg.RequiredFeatures != nil {
		g.RequiredFeatures = 0
		for _, name := range fg.RequiredFeatures {
			f, err := ParseFeature(name)
			if err != nil {
				return err
			}
			g.RequiredFeatures.Insert(f)
		}
	}

	if fc.ClearColor != "" {
		if cfg.ClearColor, err = ParseColor(fc.ClearColor); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if fc.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(fc.LogLevel)); err != nil {
			return fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// normalizeEnum lowercases s and strips separators, so "high-performance",
// "High_Performance" and "HighPerformance" compare equal.
func normalizeEnum(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParsePowerPreference parses "none", "low-power" ("low") or
// "high-performance" ("high").
func ParsePowerPreference(s string) (gputypes.PowerPreference, error) {
	switch normalizeEnum(s) {
	case "none":
		return gputypes.PowerPreferenceNone, nil
	case "lowpower", "low":
		return gputypes.PowerPreferenceLowPower, nil
	case "highperformance", "high":
		return gputypes.PowerPreferenceHighPerformance, nil
	}
	return 0, fmt.Errorf("%w: power preference %q", ErrInvalidConfig, s)
}

// ParsePresentMode parses "fifo" ("vsync"), "fifo-relaxed", "immediate" or
// "mailbox".
func ParsePresentMode(s string) (gputypes.PresentMode, error) {
	switch normalizeEnum(s) {
	case "fifo", "vsync":
		return gputypes.PresentModeFifo, nil
	case "fiforelaxed":
		return gputypes.PresentModeFifoRelaxed, nil
	case "immediate":
		return gputypes.PresentModeImmediate, nil
	case "mailbox":
		return gputypes.PresentModeMailbox, nil
	}
	return 0, fmt.Errorf("%w: present mode %q", ErrInvalidConfig, s)
}

// ParseAlphaMode parses "auto", "opaque", "premultiplied",
// "unpremultiplied" ("postmultiplied") or "inherit".
func ParseAlphaMode(s string) (gputypes.CompositeAlphaMode, error) {
	switch normalizeEnum(s) {
	case "auto":
		return gputypes.CompositeAlphaModeAuto, nil
	case "opaque":
		return gputypes.CompositeAlphaModeOpaque, nil
	case "premultiplied":
		return gputypes.CompositeAlphaModePremultiplied, nil
	case "unpremultiplied", "postmultiplied":
		return gputypes.CompositeAlphaModeUnpremultiplied, nil
	case "inherit":
		return gputypes.CompositeAlphaModeInherit, nil
	}
	return 0, fmt.Errorf("%w: alpha mode %q", ErrInvalidConfig, s)
}

// surfaceFormats are the formats a surface can plausibly advertise.
var surfaceFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatRGB10A2Unorm,
	gputypes.TextureFormatRGBA16Float,
}

// ParseTextureFormat parses a surface format name such as
// "bgra8unorm-srgb" or "RGBA16Float".
func ParseTextureFormat(s string) (gputypes.TextureFormat, error) {
	want := normalizeEnum(s)
	for _, f := range surfaceFormats {
		if normalizeEnum(f.String()) == want {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: texture format %q", ErrInvalidConfig, s)
}

// ParseFeature parses a GPU feature name such as "shader-f16",
// "texture_compression_bc" or "TimestampQuery".
func ParseFeature(s string) (gputypes.Feature, error) {
	want := normalizeEnum(s)
	for bit := range 64 {
		f := gputypes.Feature(1) << bit
		if name := f.String(); name != "Unknown" && normalizeEnum(name) == want {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: gpu feature %q", ErrInvalidConfig, s)
}
