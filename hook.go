package heatwave

// Decision is the answer of Hook.OnEvent. It only matters for
// CloseRequested; it is ignored for every other event.
type Decision int

const (
	// Continue keeps the loop running. For CloseRequested it vetoes the
	// close.
	Continue Decision = iota
	// Terminate accepts a close request and ends the loop.
	Terminate
)

func (d Decision) String() string {
	if d == Terminate {
		return "terminate"
	}
	return "continue"
}

// Hook is implemented by the application. The driver calls it from the
// goroutine running the loop, never concurrently.
type Hook interface {
	// OnInit is called once the GPU context and the surface binding
	// exist. An error terminates the loop and is returned by Run.
	OnInit(gc *GPUContext) error

	// OnEvent receives every AppEvent except Init, Resized and
	// RedrawRequested.
	OnEvent(e AppEvent) Decision

	// OnResize is called after the surface was reconfigured to the new
	// size. Zero dimensions mean the window is minimized.
	OnResize(width, height int)

	// OnRedraw records and submits GPU work into f. The driver presents f
	// afterwards. An error discards the frame and terminates the loop.
	OnRedraw(f *Frame) error
}

// RenderGate is optionally implemented by a Hook to skip frames without
// acquiring a surface texture. A skipped frame is not re-requested; call
// Driver.RequestRedraw when there is something to draw again.
type RenderGate interface {
	ShouldRender() bool
}

// Hooks adapts functions to Hook and RenderGate. Nil fields do nothing,
// continue, or allow rendering.
type Hooks struct {
	Init   func(gc *GPUContext) error
	Event  func(e AppEvent) Decision
	Resize func(width, height int)
	Redraw func(f *Frame) error
	Gate   func() bool
}

// OnInit calls h.Init.
func (h Hooks) OnInit(gc *GPUContext) error {
	if h.Init == nil {
		return nil
	}
	return h.Init(gc)
}

// OnEvent calls h.Event. Without it a close request terminates.
func (h Hooks) OnEvent(e AppEvent) Decision {
	if h.Event == nil {
		if _, ok := e.(CloseRequested); ok {
			return Terminate
		}
		return Continue
	}
	return h.Event(e)
}

// OnResize calls h.Resize.
func (h Hooks) OnResize(width, height int) {
	if h.Resize != nil {
		h.Resize(width, height)
	}
}

// OnRedraw calls h.Redraw.
func (h Hooks) OnRedraw(f *Frame) error {
	if h.Redraw == nil {
		return nil
	}
	return h.Redraw(f)
}

// ShouldRender calls h.Gate.
func (h Hooks) ShouldRender() bool {
	if h.Gate == nil {
		return true
	}
	return h.Gate()
}

var (
	_ Hook       = Hooks{}
	_ RenderGate = Hooks{}
)
