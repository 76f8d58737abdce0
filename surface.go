package heatwave

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
)

// SurfaceBinding owns the surface of one window and keeps its
// configuration in step with the window size.
//
// The configured width and height are never zero. A zero-area window
// marks the binding invalid instead, and no frame can be acquired until a
// positive size arrives.
type SurfaceBinding struct {
	gc      *GPUContext
	target  gpu.SurfaceTarget
	surface gpu.Surface
	caps    gpu.SurfaceCapabilities

	// config holds the last configuration applied to the surface.
	config     gpu.SurfaceConfiguration
	configured bool
	valid      bool

	seq      uint64
	released bool
}

// Bind creates the binding for the window identified by target and
// configures it at width x height.
//
// The surface format is the first of GPUConfig.PreferredFormats that the
// surface supports, or else the first format it advertises. A zero width
// or height yields an invalid binding and no GPU configuration call.
func Bind(gc *GPUContext, target gpu.SurfaceTarget, width, height int) (*SurfaceBinding, error) {
	if gc == nil || gc.released {
		return nil, ErrReleased
	}
	surface := gc.takeSurface(target)
	if surface == nil {
		var err error
		if surface, err = gc.instance.CreateSurface(target); err != nil {
			return nil, fmt.Errorf("heatwave: create surface: %w", err)
		}
	}

	b := &SurfaceBinding{gc: gc, target: target, surface: surface}
	if err := b.negotiate(); err != nil {
		surface.Release()
		return nil, err
	}
	Logger().Info("heatwave: surface bound",
		"format", b.config.Format.String(),
		"present_mode", b.config.PresentMode.String(),
		"alpha_mode", b.config.AlphaMode.String())

	if err := b.Reconfigure(width, height); err != nil && !errors.Is(err, ErrDegenerateSize) {
		surface.Release()
		return nil, err
	}
	return b, nil
}

// negotiate picks format, present mode and alpha mode from the surface
// capabilities.
func (b *SurfaceBinding) negotiate() error {
	b.caps = b.gc.adapter.SurfaceCapabilities(b.surface)
	if len(b.caps.Formats) == 0 {
		return fmt.Errorf("heatwave: surface reports no formats: %w", ErrNoCompatibleAdapter)
	}
	cfg := b.gc.cfg
	b.config.Format = chooseFormat(cfg.PreferredFormats, b.caps.Formats)
	b.config.PresentMode = choosePresentMode(cfg.PresentMode, b.caps.PresentModes)
	b.config.AlphaMode = chooseAlphaMode(cfg.AlphaMode, b.caps.AlphaModes)
	b.config.Usage = gputypes.TextureUsageRenderAttachment
	b.gc.format = b.config.Format
	return nil
}

// chooseFormat returns the first preferred format the surface supports,
// or the first supported format.
func chooseFormat(preferred, supported []gputypes.TextureFormat) gputypes.TextureFormat {
	for _, f := range preferred {
		if slices.Contains(supported, f) {
			return f
		}
	}
	return supported[0]
}

// choosePresentMode returns want if supported, else Fifo, which every
// surface supports.
func choosePresentMode(want gputypes.PresentMode, supported []gputypes.PresentMode) gputypes.PresentMode {
	if want != gputypes.PresentModeUndefined && slices.Contains(supported, want) {
		return want
	}
	return gputypes.PresentModeFifo
}

// chooseAlphaMode returns want if supported. Auto, or an unsupported
// mode, selects the first advertised one.
func chooseAlphaMode(want gputypes.CompositeAlphaMode, supported []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	if want != gputypes.CompositeAlphaModeAuto && slices.Contains(supported, want) {
		return want
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return gputypes.CompositeAlphaModeAuto
}

// Reconfigure updates the surface size.
//
// A zero width or height marks the binding invalid and returns an error
// wrapping ErrDegenerateSize without touching the GPU. A size equal to
// the current configuration makes the binding valid again without a GPU
// call. Any other size reconfigures the surface.
func (b *SurfaceBinding) Reconfigure(width, height int) error {
	if b.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 {
		b.valid = false
		return fmt.Errorf("%w: width=%d, height=%d", ErrDegenerateSize, width, height)
	}
	if b.configured && int(b.config.Width) == width && int(b.config.Height) == height {
		b.valid = true
		return nil
	}
	return b.configure(width, height)
}

// Refresh reconfigures the surface at its current size even if nothing
// changed, as needed after an outdated or suboptimal acquire. It does
// nothing while the binding is invalid.
func (b *SurfaceBinding) Refresh() error {
	if b.released {
		return ErrReleased
	}
	if !b.valid {
		return nil
	}
	return b.configure(int(b.config.Width), int(b.config.Height))
}

// RefreshTo reconfigures the surface at the given size even if it equals
// the current configuration. A zero width or height marks the binding
// invalid and returns an error wrapping ErrDegenerateSize.
func (b *SurfaceBinding) RefreshTo(width, height int) error {
	if b.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 {
		b.valid = false
		return fmt.Errorf("%w: width=%d, height=%d", ErrDegenerateSize, width, height)
	}
	return b.configure(width, height)
}

func (b *SurfaceBinding) configure(width, height int) error {
	cfg := b.config
	cfg.Width = uint32(width)
	cfg.Height = uint32(height)
	if err := b.surface.Configure(b.gc.device, cfg); err != nil {
		b.valid = false
		return fmt.Errorf("heatwave: configure surface %dx%d: %w", width, height, err)
	}
	b.config = cfg
	b.configured = true
	b.valid = true
	Logger().Debug("heatwave: surface configured", "width", width, "height", height)
	return nil
}

// Rebind recreates the surface for the same window after it was lost and
// configures it at the last size. The binding stays invalid if the window
// is minimized.
func (b *SurfaceBinding) Rebind() error {
	if b.released {
		return ErrReleased
	}
	wasValid := b.valid
	b.surface.Release()
	b.configured = false
	b.valid = false

	surface, err := b.gc.instance.CreateSurface(b.target)
	if err != nil {
		b.surface = nil
		b.released = true
		return fmt.Errorf("heatwave: recreate surface: %w", err)
	}
	b.surface = surface
	if err := b.negotiate(); err != nil {
		return err
	}
	if !wasValid || b.config.Width == 0 || b.config.Height == 0 {
		return nil
	}
	return b.configure(int(b.config.Width), int(b.config.Height))
}

// AcquireFrame obtains the next presentable texture.
//
// Errors match gpu.ErrSurfaceOutdated (reconfigure and retry once),
// gpu.ErrSurfaceLost (Rebind), gpu.ErrOutOfMemory (fatal) or
// ErrBindingInvalid (nothing to draw into).
func (b *SurfaceBinding) AcquireFrame() (*Frame, error) {
	if b.released {
		return nil, ErrReleased
	}
	if !b.valid {
		return nil, ErrBindingInvalid
	}
	tex, suboptimal, err := b.surface.AcquireTexture()
	if err != nil {
		return nil, fmt.Errorf("heatwave: acquire: %w", err)
	}
	view, err := tex.CreateView()
	if err != nil {
		b.surface.Discard()
		return nil, fmt.Errorf("heatwave: create view: %w", err)
	}
	b.seq++
	return &Frame{
		Texture:    tex,
		View:       view,
		Width:      int(b.config.Width),
		Height:     int(b.config.Height),
		Format:     b.config.Format,
		Seq:        b.seq,
		Suboptimal: suboptimal,
		GPU:        b.gc,
	}, nil
}

// Present queues f for display and releases its view.
func (b *SurfaceBinding) Present(f *Frame) error {
	if b.released {
		return ErrReleased
	}
	if !f.finish() {
		return fmt.Errorf("heatwave: frame %d already finished: %w", f.Seq, ErrReleased)
	}
	if err := b.surface.Present(f.Texture); err != nil {
		return fmt.Errorf("heatwave: present: %w", err)
	}
	return nil
}

// Discard returns f to the surface without presenting it.
func (b *SurfaceBinding) Discard(f *Frame) {
	if b.released || !f.finish() {
		return
	}
	b.surface.Discard()
}

// Config returns the last applied configuration. Width and Height are
// zero until the first successful configuration.
func (b *SurfaceBinding) Config() gpu.SurfaceConfiguration { return b.config }

// Valid reports whether frames can be acquired.
func (b *SurfaceBinding) Valid() bool { return b.valid && !b.released }

// Target returns the window handle the binding was created for.
func (b *SurfaceBinding) Target() gpu.SurfaceTarget { return b.target }

// Surface returns the backend surface.
func (b *SurfaceBinding) Surface() gpu.Surface { return b.surface }

// Release unconfigures and releases the surface. It is idempotent.
func (b *SurfaceBinding) Release() {
	if b.released {
		return
	}
	b.released = true
	b.valid = false
	if b.surface != nil {
		b.surface.Unconfigure()
		b.surface.Release()
	}
}
