package heatwave

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

// ErrTerminated is returned by Step once the driver has terminated.
var ErrTerminated = errors.New("heatwave: driver terminated")

// State is the lifecycle state of a Driver.
type State int

// Driver states. Suspended is only entered on platforms that report
// backgrounding.
const (
	StateUninitialized State = iota
	StateRunning
	StateSuspended
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// errSkipFrame reports a frame that is dropped without being fatal.
var errSkipFrame = errors.New("heatwave: frame skipped")

// Driver runs the frame loop: it pumps the window source, routes events,
// keeps the surface binding in step with the window, and calls the hook.
//
// A Driver is single-threaded. Run, Step and every hook call happen on
// the calling goroutine; only RequestRedraw may be called from elsewhere.
type Driver struct {
	src     window.Source
	backend gpu.Backend
	hook    Hook
	opts    driverOptions
	router  Router

	state   State
	err     error
	gc      *GPUContext
	binding *SurfaceBinding
	events  *eventSource
}

// NewDriver creates a driver for an open window source and a GPU backend.
// Nothing is negotiated until the first Step.
func NewDriver(src window.Source, backend gpu.Backend, hook Hook, opts ...DriverOption) *Driver {
	o := defaultDriverOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Driver{
		src:     src,
		backend: backend,
		hook:    hook,
		opts:    o,
		router:  Router{CoalesceResize: o.coalesce},
	}
	d.events = newEventSource(src.ScaleFactor)
	return d
}

// State returns the current state.
func (d *Driver) State() State { return d.state }

// GPU returns the GPU context, or nil before initialization.
func (d *Driver) GPU() *GPUContext { return d.gc }

// Binding returns the surface binding, or nil before initialization.
func (d *Driver) Binding() *SurfaceBinding { return d.binding }

// Err returns the error the driver terminated with, if any.
func (d *Driver) Err() error { return d.err }

// EventSource returns a gpucontext.EventSource fed with the input the
// driver routes. Callbacks run after the hook has seen the event.
func (d *Driver) EventSource() gpucontext.EventSource { return d.events }

// RequestRedraw asks the window for a RedrawRequested event. It is safe
// for concurrent use.
func (d *Driver) RequestRedraw() { d.src.RequestRedraw() }

// Run steps the driver until it terminates and releases its GPU
// resources. It returns nil when the window was closed or destroyed,
// ctx.Err() when ctx was cancelled, and the fatal error otherwise.
func (d *Driver) Run(ctx context.Context) error {
	defer d.Close()
	for d.state != StateTerminated {
		if err := d.Step(ctx); err != nil {
			return err
		}
	}
	return d.err
}

// Step runs one tick: it initializes on the first call, pumps the
// platform once, and dispatches every resulting event to completion.
// It returns the fatal error that terminated the driver during this tick,
// or ErrTerminated if the driver had already terminated.
func (d *Driver) Step(ctx context.Context) error {
	if d.state == StateTerminated {
		return ErrTerminated
	}
	if err := ctx.Err(); err != nil {
		return d.terminate(err)
	}
	if d.state == StateUninitialized {
		if err := d.init(ctx); err != nil {
			return err
		}
	}

	raw, err := d.src.Pump(ctx, !d.opts.poll)
	switch {
	case errors.Is(err, window.ErrClosed):
		return d.terminate(nil)
	case ctx.Err() != nil:
		return d.terminate(ctx.Err())
	case err != nil:
		return d.terminate(fmt.Errorf("heatwave: pump: %w", err))
	}

	for _, e := range d.router.TranslateBatch(raw) {
		d.dispatch(e)
		if d.state == StateTerminated {
			return d.err
		}
	}
	return nil
}

func (d *Driver) init(ctx context.Context) error {
	gc, err := NewGPUContext(ctx, d.backend, d.src.Target(), d.opts.gpu)
	if err != nil {
		return d.terminate(err)
	}
	d.gc = gc

	w, h := d.src.Size()
	b, err := Bind(gc, d.src.Target(), w, h)
	if err != nil {
		return d.terminate(err)
	}
	d.binding = b
	d.setState(StateRunning)

	if err := d.hook.OnInit(gc); err != nil {
		return d.terminate(fmt.Errorf("heatwave: init hook: %w", err))
	}
	if s, ok := d.src.(window.Shower); ok && d.opts.show {
		s.Show()
	}
	if b.Valid() {
		d.src.RequestRedraw()
	}
	return nil
}

func (d *Driver) dispatch(e AppEvent) {
	switch e := e.(type) {
	case Resized:
		d.resize(e.Width, e.Height)
		if d.state == StateTerminated {
			return
		}
		d.events.dispatch(e)
	case RedrawRequested:
		d.redraw()
	case ScaleFactorChanged:
		if !d.reconfigure(e.Width, e.Height) {
			return
		}
		d.hook.OnEvent(e)
		if d.binding.Valid() {
			d.src.RequestRedraw()
		}
	case CloseRequested:
		if d.hook.OnEvent(e) == Terminate {
			d.terminate(nil)
			return
		}
		Logger().Debug("heatwave: close vetoed")
	case Destroyed:
		d.hook.OnEvent(e)
		d.terminate(nil)
	case Suspended:
		d.setState(StateSuspended)
		d.hook.OnEvent(e)
	case Resumed:
		d.setState(StateRunning)
		d.hook.OnEvent(e)
		d.src.RequestRedraw()
	default:
		d.hook.OnEvent(e)
		d.events.dispatch(e)
	}
}

// resize reconfigures the binding, then tells the hook.
func (d *Driver) resize(w, h int) {
	if !d.reconfigure(w, h) {
		return
	}
	d.hook.OnResize(w, h)
	if d.binding.Valid() {
		d.src.RequestRedraw()
	}
}

// reconfigure reports false if the driver terminated.
func (d *Driver) reconfigure(w, h int) bool {
	err := d.binding.Reconfigure(w, h)
	switch {
	case err == nil:
	case errors.Is(err, ErrDegenerateSize):
		Logger().Debug("heatwave: surface invalid until resized", "width", w, "height", h)
	default:
		d.terminate(fmt.Errorf("heatwave: reconfigure: %w", err))
		return false
	}
	return true
}

func (d *Driver) redraw() {
	if d.state == StateSuspended {
		Logger().Debug("heatwave: redraw skipped while suspended")
		return
	}
	if !d.binding.Valid() {
		Logger().Debug("heatwave: redraw skipped, surface invalid")
		return
	}
	if gate, ok := d.hook.(RenderGate); ok && !gate.ShouldRender() {
		return
	}

	frame, err := d.acquire()
	if errors.Is(err, errSkipFrame) {
		if d.opts.continuous && d.binding.Valid() {
			d.src.RequestRedraw()
		}
		return
	}
	if err != nil {
		d.terminate(err)
		return
	}

	if err := d.hook.OnRedraw(frame); err != nil {
		d.binding.Discard(frame)
		d.terminate(fmt.Errorf("heatwave: redraw hook: %w", err))
		return
	}
	if err := d.present(frame); err != nil {
		d.terminate(err)
		return
	}
	if d.opts.continuous {
		d.src.RequestRedraw()
	}
}

// acquire applies the acquisition policy: an outdated surface is
// reconfigured and retried once, a lost surface is rebound and retried
// once, out of memory and anything unexpected are fatal. Transient
// failures return errSkipFrame.
func (d *Driver) acquire() (*Frame, error) {
	var refreshed, rebound bool
	for {
		f, err := d.binding.AcquireFrame()
		switch {
		case err == nil:
			return f, nil
		case errors.Is(err, gpu.ErrSurfaceOutdated) && !refreshed:
			refreshed = true
			Logger().Debug("heatwave: surface outdated, reconfiguring")
			if err := d.refresh(); err != nil {
				return nil, err
			}
		case errors.Is(err, gpu.ErrSurfaceLost) && !rebound:
			rebound = true
			Logger().Warn("heatwave: surface lost, rebinding")
			if err := d.binding.Rebind(); err != nil {
				return nil, fmt.Errorf("heatwave: rebind: %w", err)
			}
		case errors.Is(err, gpu.ErrSurfaceOutdated):
			Logger().Warn("heatwave: surface still outdated after reconfigure, skipping frame")
			return nil, errSkipFrame
		case errors.Is(err, gpu.ErrTimeout), errors.Is(err, ErrBindingInvalid):
			Logger().Debug("heatwave: frame skipped", "reason", err)
			return nil, errSkipFrame
		default:
			return nil, err
		}
	}
}

// present presents f and repairs the surface for the next frame.
func (d *Driver) present(f *Frame) error {
	err := d.binding.Present(f)
	switch {
	case err == nil:
		if f.Suboptimal {
			Logger().Debug("heatwave: surface suboptimal, reconfiguring")
			return d.refresh()
		}
		return nil
	case errors.Is(err, gpu.ErrSurfaceOutdated):
		return d.refresh()
	case errors.Is(err, gpu.ErrSurfaceLost):
		Logger().Warn("heatwave: surface lost on present, rebinding")
		if err := d.binding.Rebind(); err != nil {
			return fmt.Errorf("heatwave: rebind: %w", err)
		}
		return nil
	}
	return err
}

// refresh reconfigures the binding at the window's current size, which
// may differ from the configured one when the surface went outdated
// because of a resize not yet delivered. A degenerate size leaves the
// binding invalid and is not an error.
func (d *Driver) refresh() error {
	w, h := d.src.Size()
	err := d.binding.RefreshTo(w, h)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDegenerateSize):
		Logger().Debug("heatwave: surface invalid until resized", "width", w, "height", h)
		return nil
	}
	return fmt.Errorf("heatwave: reconfigure: %w", err)
}

func (d *Driver) setState(s State) {
	if d.state == s {
		return
	}
	Logger().Info("heatwave: state", "from", d.state.String(), "to", s.String())
	d.state = s
}

// terminate records err as the terminal error and returns it.
func (d *Driver) terminate(err error) error {
	d.err = err
	d.setState(StateTerminated)
	return err
}

// Close releases the surface binding and the GPU context. Run calls it
// on return; callers driving Step themselves call it when done.
func (d *Driver) Close() {
	if d.binding != nil {
		d.binding.Release()
	}
	if d.gc != nil {
		d.gc.Release()
	}
	if d.state != StateTerminated {
		d.setState(StateTerminated)
	}
}
