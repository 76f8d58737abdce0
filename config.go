package heatwave

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/window"
)

// Config configures Run.
//
// Example:
//
//	cfg := heatwave.DefaultConfig().
//	    WithTitle("Triangle").
//	    WithSize(800, 600).
//	    WithClearColor(heatwave.Skybox)
type Config struct {
	// Title is the window title. It overrides Window.Title when set.
	Title string

	// Platform names the window source ("glfw", "browser", "headless").
	// Empty picks the best registered one.
	Platform string

	// Backend names the GPU backend ("webgpu", "browser", "null").
	// Empty picks the best registered one.
	Backend string

	Window window.Options
	GPU    GPUConfig

	// ClearColor is what the demo and applications that call
	// webgpu.ClearView clear the frame to.
	ClearColor gputypes.Color

	// ContinuousRender requests a new redraw after every presented frame.
	// When false, frames are drawn only when the platform or the
	// application asks for one.
	ContinuousRender bool

	// CoalesceResize collapses consecutive resize events within one pump
	// into the last size. See Router.
	CoalesceResize bool

	LogLevel slog.Level
}

// GPUConfig configures GPU negotiation and the surface.
type GPUConfig struct {
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool

	// PreferredFormats are tried in order against the surface
	// capabilities. If none is supported the first advertised format is
	// used.
	PreferredFormats []gputypes.TextureFormat

	// PresentMode falls back to Fifo when the surface does not support it.
	PresentMode gputypes.PresentMode

	// AlphaMode Auto selects the first advertised mode.
	AlphaMode gputypes.CompositeAlphaMode

	// RequiredFeatures must all be supported by the adapter. An adapter
	// lacking one fails negotiation with InitNoCompatibleAdapter.
	RequiredFeatures gputypes.Features

	DeviceLabel string

	// Debug enables backend validation layers.
	Debug bool
}

// DefaultGPUConfig returns a high performance, vsynced, sRGB configuration.
func DefaultGPUConfig() GPUConfig {
	return GPUConfig{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
		PreferredFormats: []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8UnormSrgb,
			gputypes.TextureFormatRGBA8UnormSrgb,
		},
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeAuto,
		DeviceLabel: "Heatwave Device",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Title:            "Heatwave App",
		Window:           window.DefaultOptions(),
		GPU:              DefaultGPUConfig(),
		ClearColor:       Skybox,
		ContinuousRender: true,
		CoalesceResize:   true,
		LogLevel:         slog.LevelInfo,
	}
}

// WithTitle sets the window title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize sets the initial window size.
func (c Config) WithSize(width, height int) Config {
	c.Window.Width = width
	c.Window.Height = height
	return c
}

// WithPlatform selects the window source by name.
func (c Config) WithPlatform(name string) Config {
	c.Platform = name
	return c
}

// WithBackend selects the GPU backend by name.
func (c Config) WithBackend(name string) Config {
	c.Backend = name
	return c
}

// WithClearColor sets the clear colour.
func (c Config) WithClearColor(color gputypes.Color) Config {
	c.ClearColor = color
	return c
}

// WithPresentMode sets the preferred present mode.
func (c Config) WithPresentMode(mode gputypes.PresentMode) Config {
	c.GPU.PresentMode = mode
	return c
}

// WithContinuousRender enables or disables redrawing after every frame.
func (c Config) WithContinuousRender(on bool) Config {
	c.ContinuousRender = on
	return c
}

// WithCoalesceResize enables or disables resize coalescing.
func (c Config) WithCoalesceResize(on bool) Config {
	c.CoalesceResize = on
	return c
}

// WithFallbackAdapter forces a software adapter.
func (c Config) WithFallbackAdapter(on bool) Config {
	c.GPU.ForceFallbackAdapter = on
	return c
}

// WindowOptions returns Window with Title applied.
func (c Config) WindowOptions() window.Options {
	o := c.Window
	if c.Title != "" {
		o.Title = c.Title
	}
	return o
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i, f := range c.GPU.PreferredFormats {
		if f == gputypes.TextureFormatUndefined {
			return fmt.Errorf("%w: preferred format %d is undefined", ErrInvalidConfig, i)
		}
	}
	switch c.GPU.PresentMode {
	case gputypes.PresentModeUndefined, gputypes.PresentModeFifo, gputypes.PresentModeFifoRelaxed,
		gputypes.PresentModeImmediate, gputypes.PresentModeMailbox:
	default:
		return fmt.Errorf("%w: present mode %d", ErrInvalidConfig, c.GPU.PresentMode)
	}
	for _, v := range []float64{c.ClearColor.R, c.ClearColor.G, c.ClearColor.B, c.ClearColor.A} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear colour component %g out of [0, 1]", ErrInvalidConfig, v)
		}
	}
	return nil
}
