package heatwave

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/gpu/nullgpu"
	"github.com/gogpu/heatwave/window"
	"github.com/gogpu/heatwave/window/headless"
)

// recorder is a Hook that logs every call.
type recorder struct {
	calls    []string
	events   []AppEvent
	decision Decision
	initErr  error
	drawErr  error
	gate     func() bool
	onInit   func()

	// sizes holds the binding size seen by each OnRedraw.
	sizes []string
	d     *Driver
}

func (r *recorder) OnInit(gc *GPUContext) error {
	r.calls = append(r.calls, "init")
	if r.onInit != nil {
		r.onInit()
	}
	return r.initErr
}

func (r *recorder) OnEvent(e AppEvent) Decision {
	r.events = append(r.events, e)
	r.calls = append(r.calls, fmt.Sprintf("event %T", e))
	return r.decision
}

func (r *recorder) OnResize(w, h int) {
	r.calls = append(r.calls, fmt.Sprintf("resize %dx%d", w, h))
}

func (r *recorder) OnRedraw(f *Frame) error {
	r.calls = append(r.calls, fmt.Sprintf("redraw %dx%d", f.Width, f.Height))
	cfg := r.d.Binding().Config()
	r.sizes = append(r.sizes, fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	if f.Width != int(cfg.Width) || f.Height != int(cfg.Height) {
		return fmt.Errorf("frame %dx%d does not match surface %dx%d", f.Width, f.Height, cfg.Width, cfg.Height)
	}
	return r.drawErr
}

func (r *recorder) redraws() int {
	n := 0
	for _, c := range r.calls {
		if len(c) > 6 && c[:6] == "redraw" {
			n++
		}
	}
	return n
}

type gatedRecorder struct {
	*recorder
}

func (g gatedRecorder) ShouldRender() bool { return g.gate() }

// harness builds an 800x600 headless window on a fresh null backend.
func harness(t *testing.T, hook *recorder, script [][]window.Event, opts ...DriverOption) (*Driver, *nullgpu.Backend, *headless.Source) {
	t.Helper()
	wopts := window.DefaultOptions()
	wopts.Width, wopts.Height = 800, 600
	src := headless.New(wopts, headless.WithScript(script...))
	b := nullgpu.New()
	opts = append([]DriverOption{WithContinuousRendering(false)}, opts...)
	var h Hook = hook
	if hook.gate != nil {
		h = gatedRecorder{hook}
	}
	d := NewDriver(src, b, h, opts...)
	hook.d = d
	return d, b, src
}

func configSizes(b *nullgpu.Backend) []string {
	out := make([]string, 0, len(b.Stats.Configures))
	for _, c := range b.Stats.Configures {
		out = append(out, fmt.Sprintf("%dx%d", c.Width, c.Height))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScenarioInitThenRedraw(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	want := []string{"init", "redraw 800x600", "event heatwave.Destroyed"}
	if !equalStrings(hook.calls, want) {
		t.Errorf("calls = %q, want %q", hook.calls, want)
	}
	if b.Stats.Presents != 1 {
		t.Errorf("Presents = %d, want 1", b.Stats.Presents)
	}
	if b.Stats.ViewsCreated != 1 || b.Stats.ViewsReleased != 1 {
		t.Errorf("views created/released = %d/%d, want 1/1", b.Stats.ViewsCreated, b.Stats.ViewsReleased)
	}
	if got := configSizes(b); !equalStrings(got, []string{"800x600"}) {
		t.Errorf("configures = %q, want [800x600]", got)
	}
	if d.State() != StateTerminated {
		t.Errorf("State() = %v, want terminated", d.State())
	}
}

func TestScenarioMinimize(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{
		{window.Resized{}},
		{window.RedrawRequested{}},
		{window.RedrawRequested{}},
		{window.Resized{Width: 640, Height: 480}},
	})

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := hook.redraws(); got != 1 {
		t.Errorf("redraws = %d, want 1 (only after restore); calls = %q", got, hook.calls)
	}
	if !equalStrings(hook.sizes, []string{"640x480"}) {
		t.Errorf("redraw sizes = %q, want [640x480]", hook.sizes)
	}
	for _, c := range b.Stats.Configures {
		if c.Width == 0 || c.Height == 0 {
			t.Errorf("degenerate configure %dx%d", c.Width, c.Height)
		}
	}
	if got := configSizes(b); !equalStrings(got, []string{"800x600", "640x480"}) {
		t.Errorf("configures = %q", got)
	}
}

func TestScenarioCoalescedResize(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{{
		window.Resized{Width: 800, Height: 600},
		window.Resized{Width: 801, Height: 600},
		window.Resized{Width: 900, Height: 700},
	}})

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := configSizes(b); !equalStrings(got, []string{"800x600", "900x700"}) {
		t.Errorf("configures = %q, want bind plus one reconfigure to 900x700", got)
	}
	// The resize requests its own redraw, which lands in the next pump.
	want := []string{"init", "resize 900x700", "redraw 900x700", "redraw 900x700", "event heatwave.Destroyed"}
	if !equalStrings(hook.calls, want) {
		t.Errorf("calls = %q, want %q", hook.calls, want)
	}
}

func TestUncoalescedResize(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{{
		window.Resized{Width: 800, Height: 600},
		window.Resized{Width: 801, Height: 600},
		window.Resized{Width: 900, Height: 700},
	}}, WithResizeCoalescing(false))

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// 800x600 matches the bound size and costs no GPU call.
	if got := configSizes(b); !equalStrings(got, []string{"800x600", "801x600", "900x700"}) {
		t.Errorf("configures = %q", got)
	}
	if got := hook.redraws(); got != 2 {
		t.Errorf("redraws = %d, want 2", got)
	}
}

func TestResizeSequenceEndsAtLastNonDegenerate(t *testing.T) {
	tests := []struct {
		name     string
		sizes    [][2]int
		want     string
		valid    bool
		coalesce bool
	}{
		{"grow", [][2]int{{1024, 768}, {1280, 720}}, "1280x720", true, true},
		{"minimize", [][2]int{{1024, 768}, {0, 0}}, "1024x768", false, true},
		{"minimize uncoalesced", [][2]int{{1024, 768}, {0, 0}}, "1024x768", false, false},
		{"zero width", [][2]int{{0, 600}}, "800x600", false, true},
		{"restore", [][2]int{{0, 0}, {0, 0}, {640, 480}}, "640x480", true, true},
		{"degenerate tail", [][2]int{{300, 200}, {0, 0}, {0, 10}}, "300x200", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var batch []window.Event
			for _, s := range tt.sizes {
				batch = append(batch, window.Resized{Width: s[0], Height: s[1]})
			}
			hook := &recorder{}
			d, _, _ := harness(t, hook, [][]window.Event{batch}, WithResizeCoalescing(tt.coalesce))
			ctx := context.Background()
			if err := d.Step(ctx); err != nil {
				t.Fatalf("Step() = %v", err)
			}
			cfg := d.Binding().Config()
			if got := fmt.Sprintf("%dx%d", cfg.Width, cfg.Height); got != tt.want {
				t.Errorf("configured %s, want %s", got, tt.want)
			}
			if d.Binding().Valid() != tt.valid {
				t.Errorf("Valid() = %v, want %v", d.Binding().Valid(), tt.valid)
			}
			d.Close()
		})
	}
}

func TestScenarioOutdatedRetry(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	b.AcquireErrs = []error{gpu.ErrSurfaceOutdated}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := hook.redraws(); got != 1 {
		t.Errorf("redraws = %d, want 1", got)
	}
	if b.Stats.Acquires != 2 {
		t.Errorf("Acquires = %d, want 2", b.Stats.Acquires)
	}
	if len(b.Stats.Configures) != 2 {
		t.Errorf("Configures = %d, want 2 (bind + refresh)", len(b.Stats.Configures))
	}
}

func TestOutdatedReconfiguresAtWindowSize(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		configures []string
		sizes      []string
	}{
		{"grown", 1024, 768, []string{"800x600", "1024x768"}, []string{"1024x768"}},
		{"minimized", 0, 0, []string{"800x600"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := &recorder{}
			d, b, src := harness(t, hook, nil)
			b.AcquireErrs = []error{gpu.ErrSurfaceOutdated}
			hook.onInit = func() { src.SetSize(tt.w, tt.h) }

			if err := d.Run(context.Background()); err != nil {
				t.Fatalf("Run() = %v", err)
			}
			if got := configSizes(b); !equalStrings(got, tt.configures) {
				t.Errorf("configures = %q, want %q", got, tt.configures)
			}
			if !equalStrings(hook.sizes, tt.sizes) {
				t.Errorf("redraw sizes = %q, want %q", hook.sizes, tt.sizes)
			}
		})
	}
}

func TestOutdatedTwiceSkipsFrame(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	b.AcquireErrs = []error{gpu.ErrSurfaceOutdated, gpu.ErrSurfaceOutdated}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil (skipped frame is not fatal)", err)
	}
	if got := hook.redraws(); got != 0 {
		t.Errorf("redraws = %d, want 0", got)
	}
	if b.Stats.Acquires != 2 {
		t.Errorf("Acquires = %d, want 2 (one retry only)", b.Stats.Acquires)
	}
}

func TestSurfaceLostRebindsOnce(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	b.AcquireErrs = []error{gpu.ErrSurfaceLost}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := hook.redraws(); got != 1 {
		t.Errorf("redraws = %d, want 1", got)
	}
	if b.Stats.Surfaces != 2 {
		t.Errorf("Surfaces = %d, want 2 (rebound)", b.Stats.Surfaces)
	}
}

func TestFatalAcquireErrors(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want error
	}{
		{"lost twice", []error{gpu.ErrSurfaceLost, gpu.ErrSurfaceLost}, gpu.ErrSurfaceLost},
		{"out of memory", []error{gpu.ErrOutOfMemory}, gpu.ErrOutOfMemory},
		{"device lost", []error{gpu.ErrDeviceLost}, gpu.ErrDeviceLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := &recorder{}
			d, b, _ := harness(t, hook, nil)
			b.AcquireErrs = tt.errs

			err := d.Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() = %v, want %v", err, tt.want)
			}
			if hook.redraws() != 0 || b.Stats.Presents != 0 {
				t.Errorf("redraws=%d presents=%d, want no partial frame", hook.redraws(), b.Stats.Presents)
			}
			if d.State() != StateTerminated {
				t.Errorf("State() = %v", d.State())
			}
			if !errors.Is(d.Err(), tt.want) {
				t.Errorf("Err() = %v", d.Err())
			}
		})
	}
}

func TestPresentErrors(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{{}, {window.RedrawRequested{}}})
	b.PresentErrs = []error{gpu.ErrSurfaceOutdated}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := hook.redraws(); got != 2 {
		t.Errorf("redraws = %d, want 2", got)
	}
	if len(b.Stats.Configures) != 2 {
		t.Errorf("Configures = %d, want 2 (refresh after outdated present)", len(b.Stats.Configures))
	}
}

func TestSuboptimalRefreshes(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	b.Suboptimal = []bool{true}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if b.Stats.Presents != 1 || len(b.Stats.Configures) != 2 {
		t.Errorf("Presents=%d Configures=%d, want 1 and 2", b.Stats.Presents, len(b.Stats.Configures))
	}
}

func TestScenarioCloseRequested(t *testing.T) {
	t.Run("continue", func(t *testing.T) {
		hook := &recorder{decision: Continue}
		d, _, _ := harness(t, hook, [][]window.Event{
			{window.CloseRequested{}},
			{window.Focused{Focused: true}},
		})
		ctx := context.Background()
		for range 2 {
			if err := d.Step(ctx); err != nil {
				t.Fatalf("Step() = %v", err)
			}
			if d.State() != StateRunning {
				t.Fatalf("State() = %v after vetoed close, want running", d.State())
			}
		}
		if err := d.Run(ctx); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		var focused bool
		for _, e := range hook.events {
			if _, ok := e.(Focused); ok {
				focused = true
			}
		}
		if !focused {
			t.Error("events after a vetoed close were not dispatched")
		}
	})

	t.Run("terminate", func(t *testing.T) {
		hook := &recorder{decision: Terminate}
		d, _, src := harness(t, hook, [][]window.Event{
			{window.CloseRequested{}, window.Focused{Focused: true}},
			{window.Moved{X: 1, Y: 2}},
		})
		if err := d.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		if d.State() != StateTerminated {
			t.Fatalf("State() = %v, want terminated", d.State())
		}
		if len(hook.events) != 1 {
			t.Errorf("events = %v, want only CloseRequested", hook.events)
		}
		if src.Pumps() != 1 {
			t.Errorf("Pumps = %d, want 1", src.Pumps())
		}
		if err := d.Step(context.Background()); !errors.Is(err, ErrTerminated) {
			t.Errorf("Step() after termination = %v, want ErrTerminated", err)
		}
	})
}

func TestInitFailure(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	b.NoAdapter = true

	err := d.Run(context.Background())
	if !errors.Is(err, ErrNoCompatibleAdapter) {
		t.Fatalf("Run() = %v, want ErrNoCompatibleAdapter", err)
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Kind != InitNoCompatibleAdapter {
		t.Errorf("Run() = %#v, want *InitError of kind no compatible adapter", err)
	}
	if len(hook.calls) != 0 {
		t.Errorf("hook called: %q", hook.calls)
	}
	if b.Stats.Released != b.Stats.Instances+b.Stats.Surfaces {
		t.Errorf("Released = %d, want every created object released (%+v)", b.Stats.Released, b.Stats)
	}
}

func TestShowOnInit(t *testing.T) {
	t.Run("after init hook", func(t *testing.T) {
		hook := &recorder{}
		d, _, src := harness(t, hook, nil)
		var shownDuringInit bool
		hook.onInit = func() { shownDuringInit = src.Shown() }
		if err := d.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		if shownDuringInit {
			t.Error("window shown before the init hook ran")
		}
		if !src.Shown() {
			t.Error("window never shown")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		hook := &recorder{}
		d, _, src := harness(t, hook, nil, WithShowOnInit(false))
		if err := d.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		if src.Shown() {
			t.Error("window shown with WithShowOnInit(false)")
		}
	})

	t.Run("negotiation fails", func(t *testing.T) {
		hook := &recorder{}
		d, b, src := harness(t, hook, nil)
		b.NoAdapter = true
		if err := d.Run(context.Background()); err == nil {
			t.Fatal("Run() = nil, want an init error")
		}
		if src.Shown() {
			t.Error("window shown after failed negotiation")
		}
	})

	t.Run("init hook fails", func(t *testing.T) {
		hook := &recorder{initErr: errors.New("boom")}
		d, _, src := harness(t, hook, nil)
		if err := d.Run(context.Background()); err == nil {
			t.Fatal("Run() = nil, want the hook error")
		}
		if src.Shown() {
			t.Error("window shown after the init hook failed")
		}
	})
}

func TestHookErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("init", func(t *testing.T) {
		hook := &recorder{initErr: boom}
		d, _, _ := harness(t, hook, nil)
		if err := d.Run(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("Run() = %v, want boom", err)
		}
		if hook.redraws() != 0 {
			t.Error("redraw after failed init")
		}
	})

	t.Run("redraw", func(t *testing.T) {
		hook := &recorder{drawErr: boom}
		d, b, _ := harness(t, hook, nil)
		if err := d.Run(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("Run() = %v, want boom", err)
		}
		if b.Stats.Presents != 0 || b.Stats.Discards != 1 {
			t.Errorf("Presents=%d Discards=%d, want 0 and 1", b.Stats.Presents, b.Stats.Discards)
		}
	})
}

func TestCancelledContext(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if b.Stats.Instances != 0 {
		t.Errorf("negotiated with a cancelled context: %+v", b.Stats)
	}
}

func TestSuspendResume(t *testing.T) {
	hook := &recorder{}
	d, _, _ := harness(t, hook, [][]window.Event{
		{window.Suspended{}},
		{window.RedrawRequested{}},
		{window.Resumed{}},
	})
	ctx := context.Background()
	for range 2 {
		if err := d.Step(ctx); err != nil {
			t.Fatalf("Step() = %v", err)
		}
	}
	if d.State() != StateSuspended {
		t.Fatalf("State() = %v, want suspended", d.State())
	}
	if hook.redraws() != 0 {
		t.Fatalf("redraw while suspended: %q", hook.calls)
	}
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if hook.redraws() != 1 {
		t.Errorf("redraws after resume = %d, want 1", hook.redraws())
	}
}

func TestRenderGate(t *testing.T) {
	hook := &recorder{gate: func() bool { return false }}
	d, b, _ := harness(t, hook, nil)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if hook.redraws() != 0 || b.Stats.Acquires != 0 {
		t.Errorf("gated frame acquired: redraws=%d acquires=%d", hook.redraws(), b.Stats.Acquires)
	}
}

func TestContinuousRendering(t *testing.T) {
	wopts := window.DefaultOptions()
	src := headless.New(wopts, headless.WithMaxFrames(5))
	b := nullgpu.New()
	var frames []uint64
	d := NewDriver(src, b, Hooks{
		Redraw: func(f *Frame) error {
			frames = append(frames, f.Seq)
			return nil
		},
	})

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("frames = %v, want 5", frames)
	}
	for i, seq := range frames {
		if seq != uint64(i+1) {
			t.Errorf("frame %d has Seq %d", i, seq)
		}
	}
	if b.Stats.Released == 0 {
		t.Error("Run did not release GPU resources")
	}
}

func TestScaleFactorChanged(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{
		{window.ScaleFactorChanged{Scale: 2, Width: 1600, Height: 1200}},
	})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := configSizes(b); !equalStrings(got, []string{"800x600", "1600x1200"}) {
		t.Errorf("configures = %q", got)
	}
	if len(hook.events) == 0 {
		t.Fatal("no events")
	}
	if e, ok := hook.events[0].(ScaleFactorChanged); !ok || e.Scale != 2 {
		t.Errorf("first event = %#v", hook.events[0])
	}
}

func TestScaleFactorChangedRestoresDegenerate(t *testing.T) {
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{
		{window.Resized{}},
		{window.ScaleFactorChanged{Scale: 2, Width: 1600, Height: 1200}},
	})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !equalStrings(hook.sizes, []string{"1600x1200"}) {
		t.Errorf("redraw sizes = %q, want [1600x1200]; calls = %q", hook.sizes, hook.calls)
	}
	if got := configSizes(b); !equalStrings(got, []string{"800x600", "1600x1200"}) {
		t.Errorf("configures = %q", got)
	}
}

func TestFailedResizeSkipsEventSource(t *testing.T) {
	configureErr := errors.New("device gone")
	hook := &recorder{}
	d, b, _ := harness(t, hook, [][]window.Event{{window.Resized{Width: 1024, Height: 768}}})
	hook.onInit = func() { b.ConfigureErr = configureErr }
	var resized bool
	d.EventSource().OnResize(func(int, int) { resized = true })

	if err := d.Run(context.Background()); !errors.Is(err, configureErr) {
		t.Fatalf("Run() = %v, want %v", err, configureErr)
	}
	if resized {
		t.Error("OnResize callback ran after the driver terminated")
	}
	if hook.redraws() != 0 {
		t.Errorf("redraws = %d after a fatal reconfigure", hook.redraws())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUninitialized, "uninitialized"},
		{StateRunning, "running"},
		{StateSuspended, "suspended"},
		{StateTerminated, "terminated"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}
