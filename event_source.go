package heatwave

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// eventSource feeds translated input to gpucontext.EventSource callbacks,
// so UI toolkits written against gpucontext can attach to a Driver.
// Coordinates and sizes are converted to logical points.
type eventSource struct {
	mu    sync.Mutex
	scale func() float64

	keyPress     []func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease   []func(gpucontext.Key, gpucontext.Modifiers)
	text         []func(string)
	mouseMove    []func(x, y float64)
	mousePress   []func(gpucontext.MouseButton, float64, float64)
	mouseRelease []func(gpucontext.MouseButton, float64, float64)
	scroll       []func(dx, dy float64)
	resize       []func(w, h int)
	focus        []func(bool)
	imeStart     []func()
	imeUpdate    []func(gpucontext.IMEState)
	imeEnd       []func(string)

	// x, y is the last cursor position in logical points.
	x, y      float64
	composing bool
}

func newEventSource(scale func() float64) *eventSource {
	return &eventSource{scale: scale}
}

func (s *eventSource) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyPress = append(s.keyPress, fn)
}

func (s *eventSource) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyRelease = append(s.keyRelease, fn)
}

func (s *eventSource) OnTextInput(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = append(s.text, fn)
}

func (s *eventSource) OnMouseMove(fn func(x, y float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseMove = append(s.mouseMove, fn)
}

func (s *eventSource) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mousePress = append(s.mousePress, fn)
}

func (s *eventSource) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseRelease = append(s.mouseRelease, fn)
}

func (s *eventSource) OnScroll(fn func(dx, dy float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = append(s.scroll, fn)
}

func (s *eventSource) OnResize(fn func(w, h int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize = append(s.resize, fn)
}

func (s *eventSource) OnFocus(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = append(s.focus, fn)
}

func (s *eventSource) OnIMECompositionStart(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imeStart = append(s.imeStart, fn)
}

func (s *eventSource) OnIMECompositionUpdate(fn func(gpucontext.IMEState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imeUpdate = append(s.imeUpdate, fn)
}

func (s *eventSource) OnIMECompositionEnd(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imeEnd = append(s.imeEnd, fn)
}

func (s *eventSource) logical(v float64) float64 {
	if f := s.scale(); f > 0 {
		return v / f
	}
	return v
}

// dispatch runs the callbacks registered for e. Callbacks run without
// the lock held so they may register further callbacks.
func (s *eventSource) dispatch(e AppEvent) {
	s.mu.Lock()
	var calls []func()
	switch e := e.(type) {
	case KeyEvent:
		fns := s.keyRelease
		if e.Pressed {
			fns = s.keyPress
		}
		for _, fn := range fns {
			calls = append(calls, func() { fn(e.Key, e.Mods) })
		}
	case TextEvent:
		if s.composing {
			s.composing = false
			for _, fn := range s.imeEnd {
				calls = append(calls, func() { fn(e.Text) })
			}
		}
		for _, fn := range s.text {
			calls = append(calls, func() { fn(e.Text) })
		}
	case PreeditEvent:
		calls = s.preedit(e, calls)
	case PointerMoved:
		s.x, s.y = s.logical(e.X), s.logical(e.Y)
		x, y := s.x, s.y
		for _, fn := range s.mouseMove {
			calls = append(calls, func() { fn(x, y) })
		}
	case PointerButton:
		fns := s.mouseRelease
		if e.Pressed {
			fns = s.mousePress
		}
		s.x, s.y = s.logical(e.X), s.logical(e.Y)
		x, y := s.x, s.y
		for _, fn := range fns {
			calls = append(calls, func() { fn(e.Button, x, y) })
		}
	case Scroll:
		// Platform deltas grow left and up; gpucontext's grow right and down.
		for _, fn := range s.scroll {
			calls = append(calls, func() { fn(-e.DX, -e.DY) })
		}
	case Resized:
		w, h := int(s.logical(float64(e.Width))+0.5), int(s.logical(float64(e.Height))+0.5)
		for _, fn := range s.resize {
			calls = append(calls, func() { fn(w, h) })
		}
	case Focused:
		for _, fn := range s.focus {
			calls = append(calls, func() { fn(e.Focused) })
		}
	}
	s.mu.Unlock()
	for _, call := range calls {
		call()
	}
}

func (s *eventSource) preedit(e PreeditEvent, calls []func()) []func() {
	if e.Text == "" {
		if !s.composing {
			return calls
		}
		s.composing = false
		for _, fn := range s.imeEnd {
			calls = append(calls, func() { fn("") })
		}
		return calls
	}
	if !s.composing {
		s.composing = true
		for _, fn := range s.imeStart {
			calls = append(calls, fn)
		}
	}
	state := gpucontext.IMEState{
		Composing:       true,
		CompositionText: e.Text,
		CursorPos:       e.Cursor,
		SelectionStart:  e.Cursor,
		SelectionEnd:    e.Cursor,
	}
	for _, fn := range s.imeUpdate {
		calls = append(calls, func() { fn(state) })
	}
	return calls
}

var _ gpucontext.EventSource = (*eventSource)(nil)
