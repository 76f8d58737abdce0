package heatwave

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/heatwave/window"
)

// AppEvent is an application-facing event produced by Router and
// delivered exactly once to the Hook, in platform emission order.
//
// Init, Resized and RedrawRequested reach the hook through OnInit,
// OnResize and OnRedraw. Every other event goes to OnEvent.
type AppEvent interface {
	appEvent()
}

// Input is an AppEvent carrying user input.
type Input interface {
	AppEvent
	input()
}

// Init is delivered once, after the GPU context and the surface binding
// exist and before any other event.
type Init struct{}

// Resized reports a new surface size in physical pixels. By the time the
// hook sees it, the surface has been reconfigured. Zero dimensions mean
// the window is minimized and frames are skipped.
type Resized struct {
	Width, Height int
}

// ScaleFactorChanged reports a new DPI scale and the physical size that
// goes with it.
type ScaleFactorChanged struct {
	Scale         float64
	Width, Height int
}

// CloseRequested asks the application whether to close. OnEvent returns
// Continue to veto or Terminate to accept.
type CloseRequested struct{}

// RedrawRequested is a frame tick.
type RedrawRequested struct{}

// Suspended reports the application moving to the background. No frames
// are produced until Resumed.
type Suspended struct{}

// Resumed reports the application returning to the foreground.
type Resumed struct{}

// Moved reports the new window position.
type Moved struct {
	X, Y int
}

// Focused reports keyboard focus gained or lost.
type Focused struct {
	Focused bool
}

// Occluded reports the window becoming hidden or visible.
type Occluded struct {
	Occluded bool
}

// FileDropped reports a file dropped on the window.
type FileDropped struct {
	Path string
}

// FileHovered reports a file dragged over the window.
type FileHovered struct {
	Path string
}

// FileHoverCancelled reports a drag that left without dropping.
type FileHoverCancelled struct{}

// Destroyed reports that the window is gone. The driver terminates after
// delivering it.
type Destroyed struct{}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key       gpucontext.Key
	Mods      gpucontext.Modifiers
	Scancode  int
	Pressed   bool
	Repeat    bool
	Synthetic bool
}

// TextEvent reports committed text in NFC form.
type TextEvent struct {
	Text string
}

// PreeditEvent reports input method composition text. Empty Text ends
// the composition.
type PreeditEvent struct {
	Text   string
	Cursor int
}

// ModifiersEvent reports a new modifier state.
type ModifiersEvent struct {
	Mods gpucontext.Modifiers
}

// PointerMoved reports the cursor position in physical pixels.
type PointerMoved struct {
	X, Y float64
}

// PointerButton reports a mouse button press or release at X, Y in
// physical pixels.
type PointerButton struct {
	Button  gpucontext.MouseButton
	Mods    gpucontext.Modifiers
	Pressed bool
	X, Y    float64
}

// PointerCrossed reports the cursor entering (true) or leaving the window.
type PointerCrossed struct {
	Entered bool
}

// Scroll reports a wheel or touchpad scroll. Lines is set when the deltas
// count lines rather than pixels.
type Scroll struct {
	DX, DY float64
	Lines  bool
}

// TouchEvent reports a touch point.
type TouchEvent struct {
	ID    int
	Phase window.TouchPhase
	X, Y  float64
	Force float64
}

// AxisEvent reports an analog axis change.
type AxisEvent struct {
	Device int
	Axis   int
	Value  float64
}

func (Init) appEvent()               {}
func (Resized) appEvent()            {}
func (ScaleFactorChanged) appEvent() {}
func (CloseRequested) appEvent()     {}
func (RedrawRequested) appEvent()    {}
func (Suspended) appEvent()          {}
func (Resumed) appEvent()            {}
func (Moved) appEvent()              {}
func (Focused) appEvent()            {}
func (Occluded) appEvent()           {}
func (FileDropped) appEvent()        {}
func (FileHovered) appEvent()        {}
func (FileHoverCancelled) appEvent() {}
func (Destroyed) appEvent()          {}
func (KeyEvent) appEvent()           {}
func (TextEvent) appEvent()          {}
func (PreeditEvent) appEvent()       {}
func (ModifiersEvent) appEvent()     {}
func (PointerMoved) appEvent()       {}
func (PointerButton) appEvent()      {}
func (PointerCrossed) appEvent()     {}
func (Scroll) appEvent()             {}
func (TouchEvent) appEvent()         {}
func (AxisEvent) appEvent()          {}

func (KeyEvent) input()       {}
func (TextEvent) input()      {}
func (PreeditEvent) input()   {}
func (ModifiersEvent) input() {}
func (PointerMoved) input()   {}
func (PointerButton) input()  {}
func (PointerCrossed) input() {}
func (Scroll) input()         {}
func (TouchEvent) input()     {}
func (AxisEvent) input()      {}
