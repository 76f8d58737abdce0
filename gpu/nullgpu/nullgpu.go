// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nullgpu provides a GPU backend that draws nothing.
//
// It negotiates, configures, acquires and presents like a real backend and
// records every call, so the frame loop can run headless (CI, servers) and
// tests can script failures such as an outdated or lost surface:
//
//	b := nullgpu.New()
//	b.AcquireErrs = []error{gpu.ErrSurfaceOutdated} // first acquire fails
//
// Importing the package registers it under the name "null".
package nullgpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
)

func init() {
	gpu.Register(gpu.BackendNull, func() gpu.Backend { return New() })
}

// DefaultCapabilities is what a null surface advertises unless the backend
// overrides it.
func DefaultCapabilities() gpu.SurfaceCapabilities {
	return gpu.SurfaceCapabilities{
		Formats: []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8Unorm,
			gputypes.TextureFormatBGRA8UnormSrgb,
		},
		PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo},
		AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque},
	}
}

// Stats counts backend calls.
type Stats struct {
	Instances int
	Surfaces  int
	Adapters  int
	Devices   int

	// Configures records every successful Surface.Configure in call order.
	Configures []gpu.SurfaceConfiguration

	Acquires int
	Presents int
	Discards int

	ViewsCreated  int
	ViewsReleased int

	// Released counts Release calls on instances, adapters, devices and
	// surfaces.
	Released int
}

// Backend is a scripted, headless gpu.Backend.
// The zero value is not usable; call New.
type Backend struct {
	// Info is reported by every adapter.
	Info gputypes.AdapterInfo

	// Caps is advertised for every surface.
	Caps gpu.SurfaceCapabilities

	// Features is the feature set every adapter reports. RequestDevice
	// fails with a *gpu.MissingFeaturesError when asked for more.
	Features gputypes.Features

	// NoAdapter makes RequestAdapter fail with gpu.ErrNoAdapter.
	NoAdapter bool

	// Errors returned by the corresponding calls when non-nil.
	SurfaceErr   error
	DeviceErr    error
	ConfigureErr error

	// AcquireErrs are returned by successive AcquireTexture calls on any
	// surface of the backend. A nil entry, or an exhausted slice, means the
	// acquire succeeds.
	AcquireErrs []error

	// Suboptimal marks successive successful acquires as suboptimal.
	Suboptimal []bool

	// PresentErrs are returned by successive Present calls.
	PresentErrs []error

	Stats Stats

	acquireIdx int
	presentIdx int
}

// New returns a backend with a software adapter and DefaultCapabilities.
func New() *Backend {
	return &Backend{
		Info: gputypes.AdapterInfo{
			Name:       "Null Adapter",
			Vendor:     "heatwave",
			DeviceType: gputypes.DeviceTypeCPU,
			Driver:     "null",
		},
		Caps: DefaultCapabilities(),
	}
}

// Name returns "null".
func (b *Backend) Name() string { return gpu.BackendNull }

// CreateInstance returns a new null instance.
func (b *Backend) CreateInstance(gpu.InstanceDescriptor) (gpu.Instance, error) {
	b.Stats.Instances++
	return &Instance{b: b}, nil
}

// Instance is a null gpu.Instance.
type Instance struct {
	b        *Backend
	released bool
}

// CreateSurface returns a surface for target.
func (i *Instance) CreateSurface(target gpu.SurfaceTarget) (gpu.Surface, error) {
	if i.released {
		return nil, gpu.ErrReleased
	}
	if i.b.SurfaceErr != nil {
		return nil, i.b.SurfaceErr
	}
	i.b.Stats.Surfaces++
	return &Surface{b: i.b, Target: target}, nil
}

// RequestAdapter returns the null adapter unless NoAdapter is set.
func (i *Instance) RequestAdapter(gpu.AdapterOptions) (gpu.Adapter, error) {
	if i.released {
		return nil, gpu.ErrReleased
	}
	if i.b.NoAdapter {
		return nil, gpu.ErrNoAdapter
	}
	i.b.Stats.Adapters++
	return &Adapter{b: i.b}, nil
}

// Release releases the instance.
func (i *Instance) Release() {
	if i.released {
		return
	}
	i.released = true
	i.b.Stats.Released++
}

// Adapter is a null gpu.Adapter.
type Adapter struct {
	b *Backend
}

// Info returns the backend's adapter info.
func (a *Adapter) Info() gputypes.AdapterInfo { return a.b.Info }

// Features returns the backend's feature set.
func (a *Adapter) Features() gputypes.Features { return a.b.Features }

// RequestDevice returns a null device unless DeviceErr is set or desc
// requires a feature the backend does not report.
func (a *Adapter) RequestDevice(desc gpu.DeviceDescriptor) (gpu.Device, error) {
	if err := gpu.CheckFeatures(a.b.Features, desc.RequiredFeatures); err != nil {
		return nil, err
	}
	if a.b.DeviceErr != nil {
		return nil, a.b.DeviceErr
	}
	a.b.Stats.Devices++
	return &Device{b: a.b, queue: &Queue{}}, nil
}

// SurfaceCapabilities returns the backend's capabilities.
func (a *Adapter) SurfaceCapabilities(gpu.Surface) gpu.SurfaceCapabilities { return a.b.Caps }

// Release releases the adapter.
func (a *Adapter) Release() { a.b.Stats.Released++ }

// Device is a null gpu.Device.
type Device struct {
	b     *Backend
	queue *Queue
}

// Queue returns the device queue as a *Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// WaitIdle returns immediately.
func (d *Device) WaitIdle() error { return nil }

// Release releases the device.
func (d *Device) Release() { d.b.Stats.Released++ }

// Queue is the null command queue. It has nothing to submit to.
type Queue struct{}

// Surface is a null gpu.Surface.
type Surface struct {
	b      *Backend
	Target gpu.SurfaceTarget

	config   *gpu.SurfaceConfiguration
	acquired *Texture
	released bool
}

// Configure records config.
func (s *Surface) Configure(_ gpu.Device, config gpu.SurfaceConfiguration) error {
	if s.released {
		return gpu.ErrReleased
	}
	if s.b.ConfigureErr != nil {
		return s.b.ConfigureErr
	}
	c := config
	s.config = &c
	s.b.Stats.Configures = append(s.b.Stats.Configures, config)
	return nil
}

// Unconfigure drops the configuration.
func (s *Surface) Unconfigure() { s.config = nil }

// Config returns the current configuration, if any.
func (s *Surface) Config() (gpu.SurfaceConfiguration, bool) {
	if s.config == nil {
		return gpu.SurfaceConfiguration{}, false
	}
	return *s.config, true
}

// AcquireTexture returns the next scripted result.
func (s *Surface) AcquireTexture() (gpu.SurfaceTexture, bool, error) {
	if s.released {
		return nil, false, gpu.ErrReleased
	}
	s.b.Stats.Acquires++
	idx := s.b.acquireIdx
	s.b.acquireIdx++
	if idx < len(s.b.AcquireErrs) && s.b.AcquireErrs[idx] != nil {
		return nil, false, s.b.AcquireErrs[idx]
	}
	if s.config == nil {
		return nil, false, gpu.ErrSurfaceOutdated
	}
	suboptimal := idx < len(s.b.Suboptimal) && s.b.Suboptimal[idx]
	s.acquired = &Texture{b: s.b, Width: s.config.Width, Height: s.config.Height, Format: s.config.Format}
	return s.acquired, suboptimal, nil
}

// Present returns the next scripted present result.
func (s *Surface) Present(gpu.SurfaceTexture) error {
	idx := s.b.presentIdx
	s.b.presentIdx++
	if idx < len(s.b.PresentErrs) && s.b.PresentErrs[idx] != nil {
		return s.b.PresentErrs[idx]
	}
	s.acquired = nil
	s.b.Stats.Presents++
	return nil
}

// Discard drops the acquired texture.
func (s *Surface) Discard() {
	s.acquired = nil
	s.b.Stats.Discards++
}

// Release releases the surface.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.b.Stats.Released++
}

// Texture is a null gpu.SurfaceTexture.
type Texture struct {
	b      *Backend
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// CreateView returns a null view.
func (t *Texture) CreateView() (gpu.TextureView, error) {
	t.b.Stats.ViewsCreated++
	return &TextureView{b: t.b}, nil
}

// TextureView is a null gpu.TextureView.
type TextureView struct {
	b *Backend
}

// Release releases the view.
func (v *TextureView) Release() { v.b.Stats.ViewsReleased++ }

var (
	_ gpu.Backend        = (*Backend)(nil)
	_ gpu.Instance       = (*Instance)(nil)
	_ gpu.Adapter        = (*Adapter)(nil)
	_ gpu.Device         = (*Device)(nil)
	_ gpu.Surface        = (*Surface)(nil)
	_ gpu.SurfaceTexture = (*Texture)(nil)
	_ gpu.TextureView    = (*TextureView)(nil)
)
