// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	// Register the platform HAL backends (Vulkan, Metal, DX12, GLES, software).
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/heatwave/gpu"
)

var defaultBackend = &Backend{}

func init() {
	gpu.Register(gpu.BackendWebGPU, func() gpu.Backend { return defaultBackend })
}

// Backend creates gogpu/wgpu instances.
type Backend struct{}

// Name returns "webgpu".
func (*Backend) Name() string { return gpu.BackendWebGPU }

// SetLogger forwards l to gogpu/wgpu.
func (*Backend) SetLogger(l *slog.Logger) { wgpu.SetLogger(l) }

// CreateInstance creates a wgpu instance over the primary backends.
func (*Backend) CreateInstance(desc gpu.InstanceDescriptor) (gpu.Instance, error) {
	d := &wgpu.InstanceDescriptor{Backends: wgpu.BackendsPrimary}
	if desc.Debug {
		d.Flags = gputypes.InstanceFlagsDebug | gputypes.InstanceFlagsValidation
	}
	inst, err := wgpu.CreateInstance(d)
	if err != nil {
		return nil, fmt.Errorf("webgpu: create instance: %w", err)
	}
	return &Instance{raw: inst}, nil
}

// Instance wraps *wgpu.Instance.
type Instance struct {
	raw *wgpu.Instance
}

// Raw returns the wrapped instance.
func (i *Instance) Raw() *wgpu.Instance { return i.raw }

// CreateSurface creates a surface for a native window.
func (i *Instance) CreateSurface(target gpu.SurfaceTarget) (gpu.Surface, error) {
	if target.Window == 0 {
		return nil, fmt.Errorf("webgpu: surface target has no native window")
	}
	s, err := i.raw.CreateSurface(target.Display, target.Window)
	if err != nil {
		return nil, mapError(err)
	}
	return &Surface{raw: s}, nil
}

// RequestAdapter requests an adapter that can present to the compatible
// surface, when one is given.
func (i *Instance) RequestAdapter(opts gpu.AdapterOptions) (gpu.Adapter, error) {
	o := &wgpu.RequestAdapterOptions{
		PowerPreference:      opts.PowerPreference,
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
	}
	if s, ok := opts.CompatibleSurface.(*Surface); ok && s != nil {
		o.CompatibleSurface = s.raw
	}
	a, err := i.raw.RequestAdapter(o)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gpu.ErrNoAdapter, err)
	}
	if a == nil {
		return nil, gpu.ErrNoAdapter
	}
	return &Adapter{raw: a}, nil
}

// Release releases the instance.
func (i *Instance) Release() { i.raw.Release() }

// Adapter wraps *wgpu.Adapter.
type Adapter struct {
	raw *wgpu.Adapter
}

// Raw returns the wrapped adapter.
func (a *Adapter) Raw() *wgpu.Adapter { return a.raw }

// Info returns the adapter description.
func (a *Adapter) Info() gputypes.AdapterInfo { return a.raw.Info() }

// Features reports what the adapter supports.
func (a *Adapter) Features() gputypes.Features { return a.raw.Features() }

// RequestDevice opens a logical device with default limits and the
// requested features.
func (a *Adapter) RequestDevice(desc gpu.DeviceDescriptor) (gpu.Device, error) {
	if err := gpu.CheckFeatures(a.raw.Features(), desc.RequiredFeatures); err != nil {
		return nil, err
	}
	d, err := a.raw.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            desc.Label,
		RequiredFeatures: desc.RequiredFeatures,
		RequiredLimits:   wgpu.DefaultLimits(),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &Device{raw: d}, nil
}

// SurfaceCapabilities reports what this adapter supports for s.
func (a *Adapter) SurfaceCapabilities(s gpu.Surface) gpu.SurfaceCapabilities {
	ws, ok := s.(*Surface)
	if !ok || ws == nil {
		return gpu.SurfaceCapabilities{}
	}
	caps := a.raw.GetSurfaceCapabilities(ws.raw)
	if caps == nil {
		return gpu.SurfaceCapabilities{}
	}
	return gpu.SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

// Release releases the adapter.
func (a *Adapter) Release() { a.raw.Release() }

// Device wraps *wgpu.Device.
type Device struct {
	raw *wgpu.Device
}

// Raw returns the wrapped device.
func (d *Device) Raw() *wgpu.Device { return d.raw }

// Queue returns the device queue as a *wgpu.Queue.
func (d *Device) Queue() gpucontext.Queue { return d.raw.Queue() }

// WaitIdle blocks until the GPU finished all submitted work.
func (d *Device) WaitIdle() error { return mapError(d.raw.WaitIdle()) }

// Release releases the device.
func (d *Device) Release() { d.raw.Release() }

// Surface wraps *wgpu.Surface.
type Surface struct {
	raw *wgpu.Surface
}

// Raw returns the wrapped surface.
func (s *Surface) Raw() *wgpu.Surface { return s.raw }

// Configure applies config for device.
func (s *Surface) Configure(device gpu.Device, config gpu.SurfaceConfiguration) error {
	d, ok := device.(*Device)
	if !ok {
		return fmt.Errorf("webgpu: foreign device %T", device)
	}
	err := s.raw.Configure(d.raw, &wgpu.SurfaceConfiguration{
		Width:       config.Width,
		Height:      config.Height,
		Format:      config.Format,
		Usage:       config.Usage,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	})
	return mapError(err)
}

// Unconfigure removes the configuration.
func (s *Surface) Unconfigure() { s.raw.Unconfigure() }

// AcquireTexture acquires the next presentable texture.
func (s *Surface) AcquireTexture() (gpu.SurfaceTexture, bool, error) {
	t, suboptimal, err := s.raw.GetCurrentTexture()
	if err != nil {
		return nil, false, mapError(err)
	}
	return &SurfaceTexture{raw: t}, suboptimal, nil
}

// Present presents a texture acquired from this surface.
func (s *Surface) Present(texture gpu.SurfaceTexture) error {
	t, ok := texture.(*SurfaceTexture)
	if !ok {
		return fmt.Errorf("webgpu: foreign surface texture %T", texture)
	}
	return mapError(s.raw.Present(t.raw))
}

// Discard drops the acquired texture without presenting it.
func (s *Surface) Discard() { s.raw.DiscardTexture() }

// Release releases the surface.
func (s *Surface) Release() { s.raw.Release() }

// SurfaceTexture wraps *wgpu.SurfaceTexture.
type SurfaceTexture struct {
	raw *wgpu.SurfaceTexture
}

// Raw returns the wrapped texture.
func (t *SurfaceTexture) Raw() *wgpu.SurfaceTexture { return t.raw }

// CreateView creates the default render attachment view.
func (t *SurfaceTexture) CreateView() (gpu.TextureView, error) {
	v, err := t.raw.CreateView(nil)
	if err != nil {
		return nil, mapError(err)
	}
	return &TextureView{raw: v}, nil
}

// TextureView wraps *wgpu.TextureView.
type TextureView struct {
	raw *wgpu.TextureView
}

// Raw returns the wrapped view.
func (v *TextureView) Raw() *wgpu.TextureView { return v.raw }

// Release releases the view.
func (v *TextureView) Release() { v.raw.Release() }

// mapError wraps wgpu sentinel errors so they match the gpu sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wgpu.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", gpu.ErrSurfaceOutdated, err)
	case errors.Is(err, wgpu.ErrSurfaceLost):
		return fmt.Errorf("%w: %w", gpu.ErrSurfaceLost, err)
	case errors.Is(err, wgpu.ErrOutOfMemory):
		return fmt.Errorf("%w: %w", gpu.ErrOutOfMemory, err)
	case errors.Is(err, wgpu.ErrTimeout):
		return fmt.Errorf("%w: %w", gpu.ErrTimeout, err)
	case errors.Is(err, wgpu.ErrDeviceLost):
		return fmt.Errorf("%w: %w", gpu.ErrDeviceLost, err)
	case errors.Is(err, wgpu.ErrReleased):
		return fmt.Errorf("%w: %w", gpu.ErrReleased, err)
	}
	return err
}

var (
	_ gpu.Backend        = (*Backend)(nil)
	_ gpu.Instance       = (*Instance)(nil)
	_ gpu.Adapter        = (*Adapter)(nil)
	_ gpu.Device         = (*Device)(nil)
	_ gpu.Surface        = (*Surface)(nil)
	_ gpu.SurfaceTexture = (*SurfaceTexture)(nil)
	_ gpu.TextureView    = (*TextureView)(nil)
)
