// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the narrow GPU capability set the heatwave frame loop
// needs: an instance that creates window surfaces, an adapter compatible with
// a surface, a logical device, and a swap-chain style surface that hands out
// presentable textures.
//
// Concrete backends live in sub-packages and register themselves on import:
//
//	import _ "github.com/gogpu/heatwave/gpu/webgpu" // native, gogpu/wgpu
//	import _ "github.com/gogpu/heatwave/gpu/jsgpu"  // browser, navigator.gpu
//	import _ "github.com/gogpu/heatwave/gpu/nullgpu" // headless
//
// Backend values are handed to the application as gpucontext tokens
// (gpucontext.Device, gpucontext.Queue, ...). Applications type-assert them to
// the backend's concrete types to issue rendering work.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// SurfaceTarget identifies the native drawable a surface is created for.
//
// Native platforms fill Display and Window:
//   - Windows: Display=0, Window=HWND
//   - macOS: Display=0, Window=NSView* or NSWindow*
//   - Linux/X11: Display=Display*, Window=Window
//   - Linux/Wayland: Display=wl_display*, Window=wl_surface*
//
// The browser fills Canvas with the id of the canvas element.
type SurfaceTarget struct {
	Display uintptr
	Window  uintptr
	Canvas  string
}

// IsZero reports whether the target carries no handle at all.
func (t SurfaceTarget) IsZero() bool {
	return t.Display == 0 && t.Window == 0 && t.Canvas == ""
}

// InstanceDescriptor configures instance creation.
type InstanceDescriptor struct {
	// Debug enables backend validation and debug layers where available.
	Debug bool
}

// AdapterOptions controls adapter selection.
type AdapterOptions struct {
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool

	// CompatibleSurface, if non-nil, restricts selection to adapters that
	// can present to this surface.
	CompatibleSurface Surface
}

// DeviceDescriptor configures logical device creation.
type DeviceDescriptor struct {
	Label string

	// RequiredFeatures must all be supported by the adapter. Backends fail
	// RequestDevice with ErrMissingFeatures otherwise.
	RequiredFeatures gputypes.Features
}

// SurfaceConfiguration is the presentable state of a surface.
type SurfaceConfiguration struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
	PresentMode gputypes.PresentMode
	AlphaMode   gputypes.CompositeAlphaMode
}

// SurfaceCapabilities lists what an adapter can do with a surface.
// Slices are in the backend's preference order.
type SurfaceCapabilities struct {
	Formats      []gputypes.TextureFormat
	PresentModes []gputypes.PresentMode
	AlphaModes   []gputypes.CompositeAlphaMode
}

// Backend is the entry point of a GPU implementation.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// CreateInstance creates a new instance. Each call returns an
	// independent instance that must be released by the caller.
	CreateInstance(desc InstanceDescriptor) (Instance, error)
}

// Instance creates surfaces and enumerates adapters.
type Instance interface {
	CreateSurface(target SurfaceTarget) (Surface, error)
	RequestAdapter(opts AdapterOptions) (Adapter, error)
	Release()
}

// Adapter is a physical GPU as seen by the backend.
type Adapter interface {
	Info() gputypes.AdapterInfo
	Features() gputypes.Features
	RequestDevice(desc DeviceDescriptor) (Device, error)
	SurfaceCapabilities(s Surface) SurfaceCapabilities
	Release()
}

// Device is a logical connection to an adapter.
type Device interface {
	Queue() gpucontext.Queue
	WaitIdle() error
	Release()
}

// Surface is a window-bound swap chain.
//
// AcquireTexture returns errors matching ErrSurfaceOutdated, ErrSurfaceLost
// or ErrOutOfMemory when the backend reports those conditions. The boolean
// result reports a suboptimal surface that still produced a usable texture.
type Surface interface {
	Configure(device Device, config SurfaceConfiguration) error
	Unconfigure()
	AcquireTexture() (SurfaceTexture, bool, error)
	Present(texture SurfaceTexture) error
	Discard()
	Release()
}

// SurfaceTexture is a texture acquired from a surface for one frame.
type SurfaceTexture interface {
	CreateView() (TextureView, error)
}

// TextureView is a render attachment view of a surface texture.
type TextureView interface {
	Release()
}
