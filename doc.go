// Package heatwave is a minimal bootstrap layer between an application, a
// GPU backend and a windowing system.
//
// # Overview
//
// heatwave opens a window, negotiates a GPU adapter, device and surface
// compatible with it, keeps the surface configuration in step with the
// window (size, scale factor, minimization) and calls the application at
// well-defined points of the event cycle. What is drawn is entirely up to
// the application; heatwave only decides when, and into which texture.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/heatwave"
//	    "github.com/gogpu/heatwave/gpu/webgpu"
//	    _ "github.com/gogpu/heatwave/window/glfw"
//	)
//
//	cfg := heatwave.DefaultConfig().WithTitle("Hello").WithSize(800, 600)
//	err := heatwave.Run(context.Background(), cfg, heatwave.Hooks{
//	    Redraw: func(f *heatwave.Frame) error {
//	        return webgpu.ClearView(f.GPU, f.View, cfg.ClearColor)
//	    },
//	})
//
// # Architecture
//
// The module is organized into:
//   - heatwave: GPUContext, SurfaceBinding, Router, Driver, Hook
//   - gpu: backend interfaces and registry; webgpu, jsgpu and nullgpu backends
//   - window: raw events and the Source capability; glfw, browser and
//     headless platforms
//
// # Frame Loop
//
// The Driver moves through Uninitialized, Running, Suspended and
// Terminated. The first Step negotiates the GPU context, binds the
// surface and calls Hook.OnInit. Every later Step pumps the platform once
// and dispatches the translated events in order:
//   - Resized reconfigures the surface before Hook.OnResize sees it.
//   - RedrawRequested acquires a frame, calls Hook.OnRedraw, presents.
//   - CloseRequested asks Hook.OnEvent whether to terminate.
//
// A zero-area window invalidates the surface binding; redraws are skipped
// until a positive size arrives. An outdated surface is reconfigured and
// the acquire retried once. A lost surface is rebound once. Out of memory,
// a second loss, and hook errors end the loop with an error.
//
// # Threading
//
// Everything runs on the goroutine that calls Run or Step. On native
// platforms that must be the main goroutine.
package heatwave

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
