package heatwave

// DriverOption configures a Driver during creation.
//
// Example:
//
//	d := heatwave.NewDriver(src, backend, hook,
//	    heatwave.WithResizeCoalescing(false),
//	    heatwave.WithContinuousRendering(false))
type DriverOption func(*driverOptions)

// driverOptions holds optional configuration for Driver creation.
type driverOptions struct {
	gpu        GPUConfig
	coalesce   bool
	continuous bool
	poll       bool
	show       bool
}

// defaultDriverOptions returns the default driver options.
func defaultDriverOptions() driverOptions {
	return driverOptions{
		gpu:        DefaultGPUConfig(),
		coalesce:   true,
		continuous: true,
		show:       true,
	}
}

// WithGPUConfig sets the configuration used to negotiate the GPU context
// and the surface.
func WithGPUConfig(cfg GPUConfig) DriverOption {
	return func(o *driverOptions) {
		o.gpu = cfg
	}
}

// WithResizeCoalescing sets whether consecutive resize events of one pump
// are collapsed into the last size. On by default.
func WithResizeCoalescing(on bool) DriverOption {
	return func(o *driverOptions) {
		o.coalesce = on
	}
}

// WithContinuousRendering sets whether a redraw is requested after every
// presented frame. On by default. When off, frames are drawn on platform
// request, on resize, and after Driver.RequestRedraw.
func WithContinuousRendering(on bool) DriverOption {
	return func(o *driverOptions) {
		o.continuous = on
	}
}

// WithPolling makes Step return after processing whatever events are
// pending instead of waiting for one. Use it when the host owns the loop
// and calls Step once per tick.
func WithPolling(on bool) DriverOption {
	return func(o *driverOptions) {
		o.poll = on
	}
}

// WithShowOnInit sets whether the window is shown once the GPU context is
// negotiated and the init hook succeeded. On by default. It only affects
// sources implementing window.Shower; Run opens its window hidden and
// passes Options.Visible here, so a failed negotiation never flashes an
// empty window.
func WithShowOnInit(on bool) DriverOption {
	return func(o *driverOptions) {
		o.show = on
	}
}
