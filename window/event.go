// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import "github.com/gogpu/gpucontext"

// Event is a raw platform event as reported by a Source.
//
// The concrete types below form a closed set; sources never report other
// types. Unknown stands for platform events that have no equivalent.
type Event interface {
	event()
}

// Resized reports a new client area size in physical pixels. Either
// dimension may be zero while the window is minimized.
type Resized struct {
	Width  int
	Height int
}

// Moved reports the new position of the window's top-left corner.
type Moved struct {
	X, Y int
}

// CloseRequested reports that the user asked to close the window.
type CloseRequested struct{}

// Destroyed reports that the window no longer exists.
type Destroyed struct{}

// DroppedFile reports one file dropped on the window. A drop of several
// files produces one event per file.
type DroppedFile struct {
	Path string
}

// HoveredFile reports one file dragged over the window.
type HoveredFile struct {
	Path string
}

// HoveredFileCancelled reports that a drag left the window without a drop.
// It is reported once regardless of the number of files.
type HoveredFileCancelled struct{}

// Focused reports keyboard focus gained (true) or lost.
type Focused struct {
	Focused bool
}

// KeyDown reports a key press. Repeat is set for auto-repeat presses and
// Synthetic for presses generated by the platform, for example when
// focus returns with a key held down.
type KeyDown struct {
	Key       gpucontext.Key
	Mods      gpucontext.Modifiers
	Scancode  int
	Repeat    bool
	Synthetic bool
}

// KeyUp reports a key release.
type KeyUp struct {
	Key       gpucontext.Key
	Mods      gpucontext.Modifiers
	Scancode  int
	Synthetic bool
}

// ModifiersChanged reports the new modifier state.
type ModifiersChanged struct {
	Mods gpucontext.Modifiers
}

// TextInput reports committed text, from a plain key press or from an
// input method.
type TextInput struct {
	Text string
}

// IMEPreedit reports the text an input method is composing. An empty Text
// ends the composition.
type IMEPreedit struct {
	Text   string
	Cursor int
}

// CursorMoved reports the cursor position in physical pixels relative to
// the top-left of the client area.
type CursorMoved struct {
	X, Y float64
}

// CursorEntered reports that the cursor entered the client area.
type CursorEntered struct{}

// CursorLeft reports that the cursor left the client area.
type CursorLeft struct{}

// MouseWheel reports a scroll. Lines is set when the deltas count lines
// rather than pixels.
type MouseWheel struct {
	DX, DY float64
	Lines  bool
}

// MouseDown reports a mouse button press at the cursor position X, Y in
// physical pixels.
type MouseDown struct {
	Button gpucontext.MouseButton
	Mods   gpucontext.Modifiers
	X, Y   float64
}

// MouseUp reports a mouse button release at the cursor position X, Y in
// physical pixels.
type MouseUp struct {
	Button gpucontext.MouseButton
	Mods   gpucontext.Modifiers
	X, Y   float64
}

// AxisMotion reports an analog axis change on a joystick or gamepad.
type AxisMotion struct {
	Device int
	Axis   int
	Value  float64
}

// TouchPhase is the phase of a touch point.
type TouchPhase uint8

// Touch phases.
const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

func (p TouchPhase) String() string {
	switch p {
	case TouchStarted:
		return "started"
	case TouchMoved:
		return "moved"
	case TouchEnded:
		return "ended"
	case TouchCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Touch reports a touch point on a touch screen.
type Touch struct {
	ID    int
	Phase TouchPhase
	X, Y  float64
	// Force is in [0, 1], or -1 when the platform does not report it.
	Force float64
}

// ScaleFactorChanged reports a new DPI scale factor, with the physical size
// the window will have at that factor.
type ScaleFactorChanged struct {
	Scale  float64
	Width  int
	Height int
}

// Occluded reports that the window became fully hidden (true) or visible.
type Occluded struct {
	Occluded bool
}

// RedrawRequested reports that the window should draw a new frame.
type RedrawRequested struct{}

// Suspended reports that the application moved to the background. The
// surface must not be drawn to until Resumed.
type Suspended struct{}

// Resumed reports that the application returned to the foreground.
type Resumed struct{}

// Unknown is a platform event with no equivalent in this package.
type Unknown struct {
	Name string
}

func (Resized) event()              {}
func (Moved) event()                {}
func (CloseRequested) event()       {}
func (Destroyed) event()            {}
func (DroppedFile) event()          {}
func (HoveredFile) event()          {}
func (HoveredFileCancelled) event() {}
func (Focused) event()              {}
func (KeyDown) event()              {}
func (KeyUp) event()                {}
func (ModifiersChanged) event()     {}
func (TextInput) event()            {}
func (IMEPreedit) event()           {}
func (CursorMoved) event()          {}
func (CursorEntered) event()        {}
func (CursorLeft) event()           {}
func (MouseWheel) event()           {}
func (MouseDown) event()            {}
func (MouseUp) event()              {}
func (AxisMotion) event()           {}
func (Touch) event()                {}
func (ScaleFactorChanged) event()   {}
func (Occluded) event()             {}
func (RedrawRequested) event()      {}
func (Suspended) event()            {}
func (Resumed) event()              {}
func (Unknown) event()              {}
