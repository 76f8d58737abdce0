package heatwave

import (
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/heatwave/window"
)

// Router translates raw window events into AppEvents.
//
// With CoalesceResize set, TranslateBatch collapses each run of
// consecutive Resized events into one, which changes the number of
// OnResize calls an application observes. The surface still ends up at
// the last non-degenerate size of the run.
type Router struct {
	CoalesceResize bool
}

// Translate maps one raw event. It returns false for unknown events and
// empty text input.
// Translate has no side effects.
func (Router) Translate(e window.Event) (AppEvent, bool) {
	switch e := e.(type) {
	case window.Resized:
		return Resized{Width: e.Width, Height: e.Height}, true
	case window.ScaleFactorChanged:
		return ScaleFactorChanged{Scale: e.Scale, Width: e.Width, Height: e.Height}, true
	case window.CloseRequested:
		return CloseRequested{}, true
	case window.RedrawRequested:
		return RedrawRequested{}, true
	case window.Suspended:
		return Suspended{}, true
	case window.Resumed:
		return Resumed{}, true
	case window.Destroyed:
		return Destroyed{}, true
	case window.Moved:
		return Moved{X: e.X, Y: e.Y}, true
	case window.Focused:
		return Focused{Focused: e.Focused}, true
	case window.Occluded:
		return Occluded{Occluded: e.Occluded}, true
	case window.DroppedFile:
		return FileDropped{Path: e.Path}, true
	case window.HoveredFile:
		return FileHovered{Path: e.Path}, true
	case window.HoveredFileCancelled:
		return FileHoverCancelled{}, true
	case window.KeyDown:
		return KeyEvent{Key: e.Key, Mods: e.Mods, Scancode: e.Scancode, Pressed: true, Repeat: e.Repeat, Synthetic: e.Synthetic}, true
	case window.KeyUp:
		return KeyEvent{Key: e.Key, Mods: e.Mods, Scancode: e.Scancode, Synthetic: e.Synthetic}, true
	case window.ModifiersChanged:
		return ModifiersEvent{Mods: e.Mods}, true
	case window.TextInput:
		text := norm.NFC.String(e.Text)
		if text == "" {
			return nil, false
		}
		return TextEvent{Text: text}, true
	case window.IMEPreedit:
		return PreeditEvent{Text: e.Text, Cursor: e.Cursor}, true
	case window.CursorMoved:
		return PointerMoved{X: e.X, Y: e.Y}, true
	case window.CursorEntered:
		return PointerCrossed{Entered: true}, true
	case window.CursorLeft:
		return PointerCrossed{}, true
	case window.MouseWheel:
		return Scroll{DX: e.DX, DY: e.DY, Lines: e.Lines}, true
	case window.MouseDown:
		return PointerButton{Button: e.Button, Mods: e.Mods, Pressed: true, X: e.X, Y: e.Y}, true
	case window.MouseUp:
		return PointerButton{Button: e.Button, Mods: e.Mods, X: e.X, Y: e.Y}, true
	case window.Touch:
		return TouchEvent{ID: e.ID, Phase: e.Phase, X: e.X, Y: e.Y, Force: e.Force}, true
	case window.AxisMotion:
		return AxisEvent{Device: e.Device, Axis: e.Axis, Value: e.Value}, true
	}
	return nil, false
}

// TranslateBatch translates the events of one pump in order.
//
// When coalescing, a run of consecutive Resized events becomes its last
// event. If the run ends on a degenerate size, the last non-degenerate
// size of the run is kept in front of it so the surface is configured to
// that size before the window is reported minimized.
func (r Router) TranslateBatch(events []window.Event) []AppEvent {
	out := make([]AppEvent, 0, len(events))
	runStart := -1
	for _, raw := range events {
		ev, ok := r.Translate(raw)
		if !ok {
			if u, isUnknown := raw.(window.Unknown); isUnknown {
				Logger().Warn("heatwave: dropping unknown platform event", "name", u.Name)
			}
			continue
		}
		rs, isResize := ev.(Resized)
		if !isResize || !r.CoalesceResize {
			runStart = -1
			out = append(out, ev)
			continue
		}
		if runStart < 0 {
			runStart = len(out)
			out = append(out, rs)
			continue
		}
		out = coalesceResize(out, runStart, rs)
	}
	return out
}

// coalesceResize folds next into the resize run out[start:], which holds
// either one event or a non-degenerate size followed by a degenerate one.
func coalesceResize(out []AppEvent, start int, next Resized) []AppEvent {
	run := out[start:]
	if !degenerate(next) {
		return append(out[:start], next)
	}
	keep := run[0].(Resized)
	if len(run) == 2 {
		return append(out[:start], keep, next)
	}
	if degenerate(keep) {
		return append(out[:start], next)
	}
	return append(out[:start], keep, next)
}

func degenerate(r Resized) bool {
	return r.Width <= 0 || r.Height <= 0
}
