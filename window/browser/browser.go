// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

// Package browser is the window.Source for WebAssembly in a browser page.
//
// The page owns the loop: DOM listeners queue events and redraws are
// aligned with requestAnimationFrame. Pump with block set yields to the
// JavaScript event loop until something arrives.
//
// Importing the package registers it under the name "browser".
package browser

import (
	"context"
	"strconv"
	"sync/atomic"
	"syscall/js"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

func init() {
	window.Register(window.PlatformBrowser, func(opts window.Options) (window.Source, error) {
		return Open(opts)
	})
}

type listener struct {
	target js.Value
	name   string
	fn     js.Func
}

// Source is a canvas element and the page events around it.
type Source struct {
	canvas js.Value
	id     string
	queue  window.Queue

	listeners []listener
	raf       js.Func
	rafQueued atomic.Bool

	width, height int
	scale         float64
	closed        bool
}

// Open binds the canvas with id opts.Canvas, creating it when the page has
// none. A non-resizable canvas keeps opts.Width x opts.Height CSS pixels;
// otherwise it fills the viewport.
func Open(opts window.Options) (*Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", opts.Canvas)
	if canvas.IsNull() || canvas.IsUndefined() {
		canvas = doc.Call("createElement", "canvas")
		canvas.Set("id", opts.Canvas)
		doc.Get("body").Call("appendChild", canvas)
	}
	if opts.Title != "" {
		doc.Set("title", opts.Title)
	}
	style := canvas.Get("style")
	style.Set("display", "block")
	if opts.Resizable {
		style.Set("width", "100vw")
		style.Set("height", "100vh")
	} else {
		style.Set("width", strconv.Itoa(opts.Width)+"px")
		style.Set("height", strconv.Itoa(opts.Height)+"px")
	}
	if !opts.Visible {
		style.Set("visibility", "hidden")
	}
	canvas.Set("tabIndex", 0)

	s := &Source{canvas: canvas, id: opts.Canvas}
	s.width, s.height, s.scale = s.measure()
	s.raf = js.FuncOf(func(js.Value, []js.Value) any {
		s.rafQueued.Store(false)
		s.queue.Push(window.RedrawRequested{})
		return nil
	})
	s.install()
	if opts.FocusOnShow {
		canvas.Call("focus")
	}
	return s, nil
}

// measure returns the canvas size in device pixels and the pixel ratio.
func (s *Source) measure() (int, int, float64) {
	dpr := js.Global().Get("devicePixelRatio").Float()
	if dpr <= 0 {
		dpr = 1
	}
	w := s.canvas.Get("clientWidth").Float()
	h := s.canvas.Get("clientHeight").Float()
	return int(w*dpr + 0.5), int(h*dpr + 0.5), dpr
}

// Target returns the canvas id.
func (s *Source) Target() gpu.SurfaceTarget { return gpu.SurfaceTarget{Canvas: s.id} }

// Size returns the canvas size in device pixels.
func (s *Source) Size() (int, int) { return s.width, s.height }

// ScaleFactor returns window.devicePixelRatio.
func (s *Source) ScaleFactor() float64 { return s.scale }

// RequestRedraw schedules a RedrawRequested on the next animation frame.
func (s *Source) RequestRedraw() {
	if s.closed || s.rafQueued.Swap(true) {
		return
	}
	js.Global().Call("requestAnimationFrame", s.raf)
}

// Pump returns the queued events. With block set it yields to the page
// until an event arrives or ctx is done.
func (s *Source) Pump(ctx context.Context, block bool) ([]window.Event, error) {
	if s.closed {
		return nil, window.ErrClosed
	}
	if block {
		if err := s.queue.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if s.queue.Closed() {
		return nil, window.ErrClosed
	}
	return s.queue.Drain(), nil
}

// Show makes the canvas visible.
func (s *Source) Show() {
	s.canvas.Get("style").Set("visibility", "visible")
}

// Close removes the listeners. The canvas stays in the page.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, l := range s.listeners {
		l.target.Call("removeEventListener", l.name, l.fn)
		l.fn.Release()
	}
	s.listeners = nil
	s.queue.Close()
	return nil
}

func (s *Source) listen(target js.Value, name string, fn func(e js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", name, f)
	s.listeners = append(s.listeners, listener{target: target, name: name, fn: f})
}

func (s *Source) install() {
	win := js.Global()
	doc := win.Get("document")

	s.listen(win, "resize", func(js.Value) {
		w, h, dpr := s.measure()
		if dpr != s.scale {
			s.scale = dpr
			s.width, s.height = w, h
			s.queue.Push(window.ScaleFactorChanged{Scale: dpr, Width: w, Height: h})
			return
		}
		if w != s.width || h != s.height {
			s.width, s.height = w, h
			s.queue.Push(window.Resized{Width: w, Height: h})
		}
	})
	s.listen(doc, "visibilitychange", func(js.Value) {
		hidden := doc.Get("hidden").Bool()
		s.queue.Push(window.Occluded{Occluded: hidden})
		if hidden {
			s.queue.Push(window.Suspended{})
		} else {
			s.queue.Push(window.Resumed{})
		}
	})
	s.listen(win, "pagehide", func(js.Value) {
		s.queue.Push(window.Destroyed{})
	})
	s.listen(s.canvas, "focus", func(js.Value) { s.queue.Push(window.Focused{Focused: true}) })
	s.listen(s.canvas, "blur", func(js.Value) { s.queue.Push(window.Focused{Focused: false}) })

	s.listen(s.canvas, "keydown", func(e js.Value) {
		k := mapCode(e.Get("code").String())
		mods := eventMods(e)
		s.queue.Push(window.KeyDown{Key: k, Mods: mods, Repeat: e.Get("repeat").Bool()})
		if key := e.Get("key").String(); len([]rune(key)) == 1 && !mods.HasControl() && !mods.HasSuper() {
			s.queue.Push(window.TextInput{Text: key})
		}
		if k != gpucontext.KeyUnknown {
			e.Call("preventDefault")
		}
	})
	s.listen(s.canvas, "keyup", func(e js.Value) {
		s.queue.Push(window.KeyUp{Key: mapCode(e.Get("code").String()), Mods: eventMods(e)})
	})
	s.listen(s.canvas, "compositionupdate", func(e js.Value) {
		s.queue.Push(window.IMEPreedit{Text: e.Get("data").String()})
	})
	s.listen(s.canvas, "compositionend", func(e js.Value) {
		for _, ev := range compositionEnd(e.Get("data").String()) {
			s.queue.Push(ev)
		}
	})

	s.listen(s.canvas, "mousemove", func(e js.Value) {
		s.queue.Push(window.CursorMoved{X: e.Get("offsetX").Float() * s.scale, Y: e.Get("offsetY").Float() * s.scale})
	})
	s.listen(s.canvas, "mouseenter", func(js.Value) { s.queue.Push(window.CursorEntered{}) })
	s.listen(s.canvas, "mouseleave", func(js.Value) { s.queue.Push(window.CursorLeft{}) })
	s.listen(s.canvas, "mousedown", func(e js.Value) {
		s.queue.Push(window.MouseDown{
			Button: mapButton(e.Get("button").Int()),
			Mods:   eventMods(e),
			X:      e.Get("offsetX").Float() * s.scale,
			Y:      e.Get("offsetY").Float() * s.scale,
		})
	})
	s.listen(s.canvas, "mouseup", func(e js.Value) {
		s.queue.Push(window.MouseUp{
			Button: mapButton(e.Get("button").Int()),
			Mods:   eventMods(e),
			X:      e.Get("offsetX").Float() * s.scale,
			Y:      e.Get("offsetY").Float() * s.scale,
		})
	})
	s.listen(s.canvas, "wheel", func(e js.Value) {
		// DOM wheel deltas grow downwards and rightwards.
		s.queue.Push(window.MouseWheel{
			DX:    -e.Get("deltaX").Float(),
			DY:    -e.Get("deltaY").Float(),
			Lines: e.Get("deltaMode").Int() == 1,
		})
		e.Call("preventDefault")
	})
	s.listen(s.canvas, "contextmenu", func(e js.Value) { e.Call("preventDefault") })

	for name, phase := range map[string]window.TouchPhase{
		"touchstart":  window.TouchStarted,
		"touchmove":   window.TouchMoved,
		"touchend":    window.TouchEnded,
		"touchcancel": window.TouchCancelled,
	} {
		s.listen(s.canvas, name, func(e js.Value) {
			rect := s.canvas.Call("getBoundingClientRect")
			left, top := rect.Get("left").Float(), rect.Get("top").Float()
			touches := e.Get("changedTouches")
			for i := 0; i < touches.Length(); i++ {
				t := touches.Index(i)
				force := -1.0
				if f := t.Get("force"); f.Type() == js.TypeNumber {
					force = f.Float()
				}
				s.queue.Push(window.Touch{
					ID:    t.Get("identifier").Int(),
					Phase: phase,
					X:     (t.Get("clientX").Float() - left) * s.scale,
					Y:     (t.Get("clientY").Float() - top) * s.scale,
					Force: force,
				})
			}
			e.Call("preventDefault")
		})
	}

	s.listen(s.canvas, "dragover", func(e js.Value) {
		e.Call("preventDefault")
		for _, name := range fileNames(e) {
			s.queue.Push(window.HoveredFile{Path: name})
		}
	})
	s.listen(s.canvas, "dragleave", func(js.Value) { s.queue.Push(window.HoveredFileCancelled{}) })
	s.listen(s.canvas, "drop", func(e js.Value) {
		e.Call("preventDefault")
		for _, name := range fileNames(e) {
			s.queue.Push(window.DroppedFile{Path: name})
		}
	})
}

func fileNames(e js.Value) []string {
	dt := e.Get("dataTransfer")
	if dt.IsNull() || dt.IsUndefined() {
		return nil
	}
	items := dt.Get("items")
	if items.IsUndefined() {
		return nil
	}
	var names []string
	for i := 0; i < items.Length(); i++ {
		it := items.Index(i)
		if it.Get("kind").String() != "file" {
			continue
		}
		f := it.Call("getAsFile")
		if f.IsNull() {
			continue
		}
		names = append(names, f.Get("name").String())
	}
	return names
}

func eventMods(e js.Value) gpucontext.Modifiers {
	var m gpucontext.Modifiers
	if e.Get("shiftKey").Bool() {
		m |= gpucontext.ModShift
	}
	if e.Get("ctrlKey").Bool() {
		m |= gpucontext.ModControl
	}
	if e.Get("altKey").Bool() {
		m |= gpucontext.ModAlt
	}
	if e.Get("metaKey").Bool() {
		m |= gpucontext.ModSuper
	}
	if gs := e.Get("getModifierState"); gs.Type() == js.TypeFunction {
		if e.Call("getModifierState", "CapsLock").Bool() {
			m |= gpucontext.ModCapsLock
		}
		if e.Call("getModifierState", "NumLock").Bool() {
			m |= gpucontext.ModNumLock
		}
	}
	return m
}

func mapButton(b int) gpucontext.MouseButton {
	switch b {
	case 1:
		return gpucontext.MouseButtonMiddle
	case 2:
		return gpucontext.MouseButtonRight
	case 3:
		return gpucontext.MouseButton4
	case 4:
		return gpucontext.MouseButton5
	}
	return gpucontext.MouseButtonLeft
}

var (
	_ window.Source = (*Source)(nil)
	_ window.Shower = (*Source)(nil)
)
