package heatwave

import (
	"context"
	"fmt"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

// Run opens a window on the configured platform, negotiates the GPU on
// the configured backend and runs the frame loop until the window closes,
// ctx is cancelled, or a fatal error occurs.
//
// Platforms and backends must be registered by blank imports:
//
//	import (
//	    _ "github.com/gogpu/heatwave/gpu/webgpu"
//	    _ "github.com/gogpu/heatwave/window/glfw"
//	)
//
//	err := heatwave.Run(ctx, heatwave.DefaultConfig().WithTitle("Demo"), heatwave.Hooks{
//	    Redraw: func(f *heatwave.Frame) error {
//	        return webgpu.ClearView(f.GPU, f.View, heatwave.Skybox)
//	    },
//	})
//
// On native platforms Run must be called from the main goroutine.
func Run(ctx context.Context, cfg Config, hook Hook) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	backendName := cfg.Backend
	if backendName == "" && cfg.Platform == window.PlatformHeadless {
		backendName = gpu.BackendNull
	}
	backend, err := gpu.Lookup(backendName)
	if err != nil {
		return fmt.Errorf("heatwave: %w", err)
	}

	wopts := cfg.WindowOptions()
	visible := wopts.Visible
	wopts.Visible = false
	src, err := window.Open(cfg.Platform, wopts)
	if err != nil {
		return fmt.Errorf("heatwave: open window: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			Logger().Warn("heatwave: close window", "error", err)
		}
	}()

	d := NewDriver(src, backend, hook,
		WithGPUConfig(cfg.GPU),
		WithResizeCoalescing(cfg.CoalesceResize),
		WithContinuousRendering(cfg.ContinuousRender),
		WithShowOnInit(visible),
	)
	return d.Run(ctx)
}
