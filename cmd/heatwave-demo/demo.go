package main

import (
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave"
)

// renderer draws one frame. Backends without a renderer get an empty
// frame.
type renderer interface {
	draw(f *heatwave.Frame, clear gputypes.Color) error
	release()
}

// demo is the application hook.
type demo struct {
	clear  atomic.Pointer[gputypes.Color]
	r      renderer
	frames int
}

var _ heatwave.Hook = (*demo)(nil)

func newDemo(clear gputypes.Color) *demo {
	d := &demo{}
	d.clear.Store(&clear)
	return d
}

// reload picks up the clear colour of a reloaded config. It may be called
// from any goroutine; the new colour shows on the next frame.
func (d *demo) reload(cfg heatwave.Config) {
	c := cfg.ClearColor
	d.clear.Store(&c)
	heatwave.Logger().Info("heatwave-demo: clear colour reloaded",
		"r", c.R, "g", c.G, "b", c.B, "a", c.A)
}

func (d *demo) OnInit(gc *heatwave.GPUContext) error {
	info := gc.Info()
	heatwave.Logger().Info("heatwave-demo: gpu ready",
		"backend", gc.Backend().Name(),
		"adapter", info.Name,
		"format", gc.SurfaceFormat())
	r, err := newRenderer(gc)
	if err != nil {
		return err
	}
	d.r = r
	return nil
}

func (d *demo) OnEvent(e heatwave.AppEvent) heatwave.Decision {
	switch e := e.(type) {
	case heatwave.CloseRequested:
		return heatwave.Terminate
	case heatwave.KeyEvent:
		if e.Pressed && e.Key == gpucontext.KeyEscape {
			return heatwave.Terminate
		}
	case heatwave.FileDropped:
		heatwave.Logger().Info("heatwave-demo: file dropped", "path", e.Path)
	}
	return heatwave.Continue
}

func (d *demo) OnResize(width, height int) {
	heatwave.Logger().Debug("heatwave-demo: resized", "width", width, "height", height)
}

func (d *demo) OnRedraw(f *heatwave.Frame) error {
	d.frames++
	if d.r == nil {
		return nil
	}
	return d.r.draw(f, *d.clear.Load())
}

func (d *demo) release() {
	if d.r != nil {
		d.r.release()
		d.r = nil
	}
}
