package heatwave

import (
	"context"
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
)

// GPUContext owns the GPU instance, adapter, logical device and queue.
//
// It is negotiated once by NewGPUContext, shared by reference with the
// surface binding and the application, and must outlive every
// SurfaceBinding created from it. It implements gpucontext.DeviceProvider;
// Device, Queue and Adapter return the backend's concrete values, which
// the backend package knows how to unwrap (see webgpu.Unwrap).
type GPUContext struct {
	backend  gpu.Backend
	instance gpu.Instance
	adapter  gpu.Adapter
	device   gpu.Device
	queue    gpucontext.Queue
	info     gputypes.AdapterInfo
	cfg      GPUConfig
	format   gputypes.TextureFormat

	// surface was created during negotiation for target. The first Bind
	// for that target takes it over.
	surface gpu.Surface
	target  gpu.SurfaceTarget

	released bool
}

// NewGPUContext negotiates an adapter and device able to present to the
// window identified by target.
//
// Negotiation is a single blocking call: instance, a surface for target,
// an adapter compatible with that surface, then the device. ctx is checked
// between steps and a cancelled ctx returns ctx.Err(). Other failures are
// *InitError values; there is no internal retry. A caller wanting a
// software fallback retries with GPUConfig.ForceFallbackAdapter.
func NewGPUContext(ctx context.Context, backend gpu.Backend, target gpu.SurfaceTarget, cfg GPUConfig) (*GPUContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if target.IsZero() {
		return nil, &InitError{Kind: InitSurfaceCreation, Err: errors.New("empty surface target")}
	}

	inst, err := backend.CreateInstance(gpu.InstanceDescriptor{Debug: cfg.Debug})
	if err != nil {
		return nil, &InitError{Kind: InitInstance, Err: err}
	}
	c := &GPUContext{backend: backend, instance: inst, cfg: cfg, target: target}
	fail := func(kind InitKind, err error) (*GPUContext, error) {
		c.Release()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &InitError{Kind: kind, Err: err}
	}

	if c.surface, err = inst.CreateSurface(target); err != nil {
		return fail(InitSurfaceCreation, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(InitNoCompatibleAdapter, err)
	}

	c.adapter, err = inst.RequestAdapter(gpu.AdapterOptions{
		PowerPreference:      cfg.PowerPreference,
		ForceFallbackAdapter: cfg.ForceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		return fail(InitNoCompatibleAdapter, err)
	}
	if caps := c.adapter.SurfaceCapabilities(c.surface); len(caps.Formats) == 0 {
		return fail(InitNoCompatibleAdapter, errors.New("adapter reports no surface formats"))
	}
	if err := gpu.CheckFeatures(c.adapter.Features(), cfg.RequiredFeatures); err != nil {
		return fail(InitNoCompatibleAdapter, err)
	}
	c.info = c.adapter.Info()
	if err := ctx.Err(); err != nil {
		return fail(InitDeviceRequest, err)
	}

	c.device, err = c.adapter.RequestDevice(gpu.DeviceDescriptor{
		Label:            cfg.DeviceLabel,
		RequiredFeatures: cfg.RequiredFeatures,
	})
	if err != nil {
		return fail(InitDeviceRequest, err)
	}
	c.queue = c.device.Queue()

	Logger().Info("heatwave: adapter selected",
		"backend", backend.Name(),
		"adapter", c.info.Name,
		"type", c.info.DeviceType.String(),
		"driver", c.info.Driver)
	return c, nil
}

// Backend returns the backend the context was negotiated with.
func (c *GPUContext) Backend() gpu.Backend { return c.backend }

// Instance returns the backend instance.
func (c *GPUContext) Instance() gpu.Instance { return c.instance }

// GPUDevice returns the device as the backend-neutral interface.
func (c *GPUContext) GPUDevice() gpu.Device { return c.device }

// Info returns the selected adapter's description.
func (c *GPUContext) Info() gputypes.AdapterInfo { return c.info }

// Config returns the configuration the context was negotiated with.
func (c *GPUContext) Config() GPUConfig { return c.cfg }

// Device implements gpucontext.DeviceProvider.
func (c *GPUContext) Device() gpucontext.Device { return c.device }

// Queue implements gpucontext.DeviceProvider.
func (c *GPUContext) Queue() gpucontext.Queue { return c.queue }

// Adapter implements gpucontext.DeviceProvider.
func (c *GPUContext) Adapter() gpucontext.Adapter { return c.adapter }

// SurfaceFormat returns the format chosen by the most recent Bind, or
// TextureFormatUndefined before any.
func (c *GPUContext) SurfaceFormat() gputypes.TextureFormat { return c.format }

// AdapterInfo implements gpucontext.DeviceProvider.
func (c *GPUContext) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: c.info.Name, Type: adapterType(c.info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterTypeUnknown
}

// WaitIdle blocks until the device has finished all submitted work.
func (c *GPUContext) WaitIdle() error {
	if c.released {
		return ErrReleased
	}
	return c.device.WaitIdle()
}

// takeSurface hands the negotiated surface to a binding for target.
func (c *GPUContext) takeSurface(target gpu.SurfaceTarget) gpu.Surface {
	if c.surface == nil || c.target != target {
		return nil
	}
	s := c.surface
	c.surface = nil
	return s
}

// Release releases the device, adapter and instance. Bindings must be
// released first. Release is idempotent.
func (c *GPUContext) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.device != nil {
		c.device.Release()
	}
	if c.adapter != nil {
		c.adapter.Release()
	}
	if c.instance != nil {
		c.instance.Release()
	}
}

var _ gpucontext.DeviceProvider = (*GPUContext)(nil)
