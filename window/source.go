// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package window defines the platform side of heatwave: a raw event model
// and Source, the single capability every platform implements to open a
// window and pump its events.
//
// Native platforms pump the OS event queue directly. The browser drives the
// loop from requestAnimationFrame and yields back to the host between
// ticks. Both look the same through Pump.
//
// Platforms register themselves on import:
//
//	import _ "github.com/gogpu/heatwave/window/glfw"     // desktop
//	import _ "github.com/gogpu/heatwave/window/browser"  // js/wasm
//	import _ "github.com/gogpu/heatwave/window/headless" // tests, CI
package window

import (
	"context"
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/heatwave/gpu"
)

// ErrClosed is returned by Pump once the window is gone.
var ErrClosed = errors.New("window: closed")

// Source is an open window and its event stream.
//
// All methods except RequestRedraw must be called from the goroutine that
// opened the source. Native platforms require that goroutine to be locked
// to the main OS thread.
type Source interface {
	// Target returns the native handle a GPU surface is created for.
	Target() gpu.SurfaceTarget

	// Size returns the client area in physical pixels.
	Size() (width, height int)

	// ScaleFactor returns physical pixels per logical point.
	ScaleFactor() float64

	// RequestRedraw schedules a RedrawRequested event. Several requests
	// before the next pump produce one event. Safe for concurrent use.
	RequestRedraw()

	// Pump processes pending platform events and returns them in emission
	// order. With block set it waits until at least one event is available
	// or ctx is done. It returns ErrClosed after the window is destroyed.
	Pump(ctx context.Context, block bool) ([]Event, error)

	// Close destroys the window. Further Pump calls return ErrClosed.
	Close() error
}

// Shower is implemented by sources that open hidden and can be made
// visible later, once the GPU is ready to draw into them.
type Shower interface {
	Show()
}

// Provider exposes src as a gpucontext.WindowProvider. Size is reported in
// logical points.
func Provider(src Source) gpucontext.WindowProvider {
	return provider{src}
}

type provider struct {
	src Source
}

func (p provider) Size() (int, int) {
	w, h := p.src.Size()
	s := p.src.ScaleFactor()
	if s <= 0 {
		return w, h
	}
	return int(float64(w)/s + 0.5), int(float64(h)/s + 0.5)
}

func (p provider) ScaleFactor() float64 {
	if s := p.src.ScaleFactor(); s > 0 {
		return s
	}
	return 1
}

func (p provider) RequestRedraw() { p.src.RequestRedraw() }
