// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !js

// Package glfw is the desktop window.Source, built on GLFW 3.3.
//
// GLFW must be driven from the main OS thread. The package locks the main
// goroutine to it in init, so Open and Pump must be called from main.
//
// Importing the package registers it under the name "glfw".
package glfw

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

func init() {
	runtime.LockOSThread()
	window.Register(window.PlatformGLFW, func(opts window.Options) (window.Source, error) {
		return Open(opts)
	})
}

var (
	initMu    sync.Mutex
	initCount int
)

func acquireGLFW() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initCount == 0 {
		if err := glfw.Init(); err != nil {
			return fmt.Errorf("glfw: init: %w", err)
		}
	}
	initCount++
	return nil
}

// postEmptyEvent wakes WaitEvents. It does nothing once GLFW has been
// terminated, since GLFW calls then panic.
func postEmptyEvent() {
	initMu.Lock()
	defer initMu.Unlock()
	if initCount > 0 {
		glfw.PostEmptyEvent()
	}
}

func releaseGLFW() {
	initMu.Lock()
	defer initMu.Unlock()
	initCount--
	if initCount == 0 {
		glfw.Terminate()
	}
}

// Source is a GLFW window.
type Source struct {
	win   *glfw.Window
	queue window.Queue

	target gpu.SurfaceTarget

	mods      glfw.ModifierKey
	iconified bool
	axes      map[glfw.Joystick][]float32

	// closed is set by Close; RequestRedraw may run on other goroutines.
	closed atomic.Bool
}

// Open creates a window without a client API context, ready for a GPU
// surface.
func Open(opts window.Options) (*Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := acquireGLFW(); err != nil {
		return nil, err
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolHint(opts.Resizable))
	glfw.WindowHint(glfw.Decorated, boolHint(opts.Decorated))
	glfw.WindowHint(glfw.Visible, boolHint(opts.Visible))
	glfw.WindowHint(glfw.Maximized, boolHint(opts.Maximized))
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(opts.Transparent))
	glfw.WindowHint(glfw.Floating, boolHint(opts.Floating))
	glfw.WindowHint(glfw.FocusOnShow, boolHint(opts.FocusOnShow))

	width, height := opts.Width, opts.Height
	var monitor *glfw.Monitor
	if opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if monitor != nil {
			if mode := monitor.GetVideoMode(); mode != nil {
				width, height = mode.Width, mode.Height
			}
		}
	}

	win, err := glfw.CreateWindow(width, height, opts.Title, monitor, nil)
	if err != nil {
		releaseGLFW()
		return nil, fmt.Errorf("glfw: create window: %w", err)
	}
	if opts.MinWidth > 0 || opts.MinHeight > 0 || opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		win.SetSizeLimits(limit(opts.MinWidth), limit(opts.MinHeight), limit(opts.MaxWidth), limit(opts.MaxHeight))
	}
	if opts.Positioned && monitor == nil {
		win.SetPos(opts.X, opts.Y)
	}

	s := &Source{win: win, axes: make(map[glfw.Joystick][]float32)}
	s.install()
	return s, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func limit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// Window returns the underlying GLFW window, or nil after Close.
func (s *Source) Window() *glfw.Window { return s.win }

// Target returns the native handles of the window.
func (s *Source) Target() gpu.SurfaceTarget {
	if s.win == nil {
		return gpu.SurfaceTarget{}
	}
	if s.target.IsZero() {
		s.target = nativeTarget(s.win)
	}
	return s.target
}

// Size returns the framebuffer size in pixels, or zero while the window
// is iconified.
func (s *Source) Size() (int, int) {
	if s.win == nil || s.iconified {
		return 0, 0
	}
	return s.win.GetFramebufferSize()
}

// ScaleFactor returns the horizontal content scale.
func (s *Source) ScaleFactor() float64 {
	if s.win == nil {
		return 1
	}
	x, _ := s.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw schedules a redraw and wakes a blocked Pump. Safe for
// concurrent use.
func (s *Source) RequestRedraw() {
	s.queue.RequestRedraw()
	if !s.closed.Load() {
		postEmptyEvent()
	}
}

// Show makes the window visible.
func (s *Source) Show() {
	if s.win != nil {
		s.win.Show()
	}
}

// Pump processes pending GLFW events. With block set and no redraw pending
// it waits for the next event or for ctx to be done.
func (s *Source) Pump(ctx context.Context, block bool) ([]window.Event, error) {
	if s.win == nil {
		return nil, window.ErrClosed
	}
	if block && !s.queue.RedrawPending() {
		stop := context.AfterFunc(ctx, postEmptyEvent)
		glfw.WaitEvents()
		stop()
	} else {
		glfw.PollEvents()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.pollJoysticks()
	return s.queue.Drain(), nil
}

// Close destroys the window.
func (s *Source) Close() error {
	if s.win == nil {
		return nil
	}
	s.closed.Store(true)
	s.win.Destroy()
	s.win = nil
	s.target = gpu.SurfaceTarget{}
	s.queue.Close()
	releaseGLFW()
	return nil
}

// refresh handles an expose: the contents were damaged and must be drawn
// again.
func (s *Source) refresh() { s.queue.RequestRedraw() }

// install registers the GLFW callbacks that feed the queue.
func (s *Source) install() {
	w := s.win
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s.queue.Push(window.Resized{Width: width, Height: height})
	})
	w.SetPosCallback(func(_ *glfw.Window, x, y int) {
		s.queue.Push(window.Moved{X: x, Y: y})
	})
	w.SetCloseCallback(func(gw *glfw.Window) {
		// The application decides; Close destroys the window.
		gw.SetShouldClose(false)
		s.queue.Push(window.CloseRequested{})
	})
	w.SetRefreshCallback(func(*glfw.Window) { s.refresh() })
	w.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		s.queue.Push(window.Focused{Focused: focused})
	})
	w.SetIconifyCallback(func(gw *glfw.Window, iconified bool) {
		s.iconified = iconified
		s.queue.Push(window.Occluded{Occluded: iconified})
		if iconified {
			s.queue.Push(window.Resized{})
			return
		}
		width, height := gw.GetFramebufferSize()
		s.queue.Push(window.Resized{Width: width, Height: height})
	})
	w.SetContentScaleCallback(func(gw *glfw.Window, x, _ float32) {
		width, height := gw.GetFramebufferSize()
		s.queue.Push(window.ScaleFactorChanged{Scale: float64(x), Width: width, Height: height})
	})
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		s.modsChanged(mods)
		k := mapKey(key)
		m := mapMods(mods)
		switch action {
		case glfw.Press:
			s.queue.Push(window.KeyDown{Key: k, Mods: m, Scancode: scancode})
		case glfw.Repeat:
			s.queue.Push(window.KeyDown{Key: k, Mods: m, Scancode: scancode, Repeat: true})
		case glfw.Release:
			s.queue.Push(window.KeyUp{Key: k, Mods: m, Scancode: scancode})
		}
	})
	w.SetCharCallback(func(_ *glfw.Window, r rune) {
		s.queue.Push(window.TextInput{Text: string(r)})
	})
	w.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		s.modsChanged(mods)
		b := mapButton(button)
		cx, cy := gw.GetCursorPos()
		sx, sy := pixelRatio(gw)
		cx, cy = cx*sx, cy*sy
		if action == glfw.Press {
			s.queue.Push(window.MouseDown{Button: b, Mods: mapMods(mods), X: cx, Y: cy})
		} else {
			s.queue.Push(window.MouseUp{Button: b, Mods: mapMods(mods), X: cx, Y: cy})
		}
	})
	w.SetCursorPosCallback(func(gw *glfw.Window, x, y float64) {
		sx, sy := pixelRatio(gw)
		s.queue.Push(window.CursorMoved{X: x * sx, Y: y * sy})
	})
	w.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			s.queue.Push(window.CursorEntered{})
		} else {
			s.queue.Push(window.CursorLeft{})
		}
	})
	w.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		s.queue.Push(window.MouseWheel{DX: dx, DY: dy, Lines: true})
	})
	w.SetDropCallback(func(_ *glfw.Window, names []string) {
		for _, n := range names {
			s.queue.Push(window.DroppedFile{Path: n})
		}
	})
}

func (s *Source) modsChanged(mods glfw.ModifierKey) {
	if mods == s.mods {
		return
	}
	s.mods = mods
	s.queue.Push(window.ModifiersChanged{Mods: mapMods(mods)})
}

// pixelRatio converts screen coordinates to framebuffer pixels.
func pixelRatio(w *glfw.Window) (float64, float64) {
	ww, wh := w.GetSize()
	fw, fh := w.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float64(fw) / float64(ww), float64(fh) / float64(wh)
}

// pollJoysticks reports changed analog axes of connected joysticks.
func (s *Source) pollJoysticks() {
	for j := glfw.Joystick1; j <= glfw.JoystickLast; j++ {
		if !j.Present() {
			delete(s.axes, j)
			continue
		}
		axes := j.GetAxes()
		prev := s.axes[j]
		for i, v := range axes {
			if i < len(prev) && prev[i] == v {
				continue
			}
			s.queue.Push(window.AxisMotion{Device: int(j), Axis: i, Value: float64(v)})
		}
		s.axes[j] = append(prev[:0], axes...)
	}
}

var (
	_ window.Source = (*Source)(nil)
	_ window.Shower = (*Source)(nil)
)
