package heatwave

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/gpu/nullgpu"
)

func bindTest(t *testing.T, b *nullgpu.Backend, w, h int) *SurfaceBinding {
	t.Helper()
	gc := newTestContext(t, b)
	sb, err := Bind(gc, testTarget, w, h)
	if err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	t.Cleanup(sb.Release)
	return sb
}

func TestBindReusesNegotiatedSurface(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 800, 600)
	if b.Stats.Surfaces != 1 {
		t.Errorf("Surfaces = %d, want 1", b.Stats.Surfaces)
	}
	if !sb.Valid() {
		t.Fatal("binding invalid")
	}
	cfg := sb.Config()
	if cfg.Width != 800 || cfg.Height != 600 || cfg.Usage != gputypes.TextureUsageRenderAttachment {
		t.Errorf("Config() = %+v", cfg)
	}
	if cfg.PresentMode != gputypes.PresentModeFifo || cfg.AlphaMode != gputypes.CompositeAlphaModeOpaque {
		t.Errorf("present/alpha = %v/%v", cfg.PresentMode, cfg.AlphaMode)
	}
	if got := sb.gc.SurfaceFormat(); got != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Errorf("SurfaceFormat() = %v, want BGRA8UnormSrgb", got)
	}
	if ns := sb.Surface().(*nullgpu.Surface); ns.Target != testTarget {
		t.Errorf("surface target = %+v", ns.Target)
	}
}

func TestChooseFormat(t *testing.T) {
	bgra := gputypes.TextureFormatBGRA8Unorm
	bgraSrgb := gputypes.TextureFormatBGRA8UnormSrgb
	rgbaSrgb := gputypes.TextureFormatRGBA8UnormSrgb
	rgba16 := gputypes.TextureFormatRGBA16Float
	tests := []struct {
		name      string
		preferred []gputypes.TextureFormat
		supported []gputypes.TextureFormat
		want      gputypes.TextureFormat
	}{
		{"first preference", []gputypes.TextureFormat{bgraSrgb, rgbaSrgb}, []gputypes.TextureFormat{rgbaSrgb, bgraSrgb}, bgraSrgb},
		{"second preference", []gputypes.TextureFormat{bgraSrgb, rgbaSrgb}, []gputypes.TextureFormat{bgra, rgbaSrgb}, rgbaSrgb},
		{"fallback to first advertised", []gputypes.TextureFormat{bgraSrgb}, []gputypes.TextureFormat{rgba16, bgra}, rgba16},
		{"no preferences", nil, []gputypes.TextureFormat{bgra}, bgra},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseFormat(tt.preferred, tt.supported); got != tt.want {
				t.Errorf("chooseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChoosePresentAndAlphaMode(t *testing.T) {
	modes := []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeMailbox}
	if got := choosePresentMode(gputypes.PresentModeMailbox, modes); got != gputypes.PresentModeMailbox {
		t.Errorf("supported mode = %v", got)
	}
	if got := choosePresentMode(gputypes.PresentModeImmediate, modes); got != gputypes.PresentModeFifo {
		t.Errorf("unsupported mode = %v, want Fifo", got)
	}

	alphas := []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque, gputypes.CompositeAlphaModePremultiplied}
	if got := chooseAlphaMode(gputypes.CompositeAlphaModeAuto, alphas); got != gputypes.CompositeAlphaModeOpaque {
		t.Errorf("auto = %v, want first advertised", got)
	}
	if got := chooseAlphaMode(gputypes.CompositeAlphaModePremultiplied, alphas); got != gputypes.CompositeAlphaModePremultiplied {
		t.Errorf("supported = %v", got)
	}
	if got := chooseAlphaMode(gputypes.CompositeAlphaModeInherit, alphas); got != gputypes.CompositeAlphaModeOpaque {
		t.Errorf("unsupported = %v, want first advertised", got)
	}
}

func TestPreferredFormatFromConfig(t *testing.T) {
	b := nullgpu.New()
	cfg := DefaultGPUConfig()
	cfg.PreferredFormats = []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm}
	gc, err := NewGPUContext(context.Background(), b, testTarget, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer gc.Release()
	sb, err := Bind(gc, testTarget, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer sb.Release()
	if sb.Config().Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v", sb.Config().Format)
	}
}

func TestBindDegenerate(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 0, 600)
	if sb.Valid() {
		t.Error("zero-width binding is valid")
	}
	if len(b.Stats.Configures) != 0 {
		t.Errorf("Configures = %d, want 0", len(b.Stats.Configures))
	}
	if _, err := sb.AcquireFrame(); !errors.Is(err, ErrBindingInvalid) {
		t.Errorf("AcquireFrame() = %v, want ErrBindingInvalid", err)
	}
	if err := sb.Reconfigure(640, 480); err != nil {
		t.Fatalf("Reconfigure() = %v", err)
	}
	if !sb.Valid() || len(b.Stats.Configures) != 1 {
		t.Errorf("valid=%v configures=%d after restore", sb.Valid(), len(b.Stats.Configures))
	}
}

func TestReconfigure(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 800, 600)

	if err := sb.Reconfigure(1024, 768); err != nil {
		t.Fatal(err)
	}
	// Idempotent: the same size again issues no GPU call.
	if err := sb.Reconfigure(1024, 768); err != nil {
		t.Fatal(err)
	}
	if n := len(b.Stats.Configures); n != 2 {
		t.Errorf("Configures = %d, want 2", n)
	}

	err := sb.Reconfigure(0, 0)
	if !errors.Is(err, ErrDegenerateSize) {
		t.Fatalf("Reconfigure(0, 0) = %v, want ErrDegenerateSize", err)
	}
	if sb.Valid() {
		t.Error("binding valid at 0x0")
	}
	if cfg := sb.Config(); cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("Config() = %dx%d, want last good size", cfg.Width, cfg.Height)
	}

	// Restoring the previous size revalidates without a GPU call.
	if err := sb.Reconfigure(1024, 768); err != nil {
		t.Fatal(err)
	}
	if !sb.Valid() || len(b.Stats.Configures) != 2 {
		t.Errorf("valid=%v configures=%d", sb.Valid(), len(b.Stats.Configures))
	}
}

func TestReconfigureError(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 800, 600)
	b.ConfigureErr = gpu.ErrDeviceLost
	if err := sb.Reconfigure(10, 10); !errors.Is(err, gpu.ErrDeviceLost) {
		t.Fatalf("Reconfigure() = %v", err)
	}
	if sb.Valid() {
		t.Error("binding valid after failed configure")
	}
}

func TestAcquirePresent(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 320, 200)

	f, err := sb.AcquireFrame()
	if err != nil {
		t.Fatalf("AcquireFrame() = %v", err)
	}
	if f.Width != 320 || f.Height != 200 || f.Seq != 1 || f.GPU != sb.gc {
		t.Errorf("frame = %+v", f)
	}
	if err := sb.Present(f); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	if err := sb.Present(f); !errors.Is(err, ErrReleased) {
		t.Errorf("second Present() = %v, want ErrReleased", err)
	}
	sb.Discard(f)
	if b.Stats.Presents != 1 || b.Stats.Discards != 0 || b.Stats.ViewsReleased != 1 {
		t.Errorf("Stats = %+v", b.Stats)
	}

	f2, err := sb.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f2.Seq != 2 {
		t.Errorf("Seq = %d, want 2", f2.Seq)
	}
	sb.Discard(f2)
	if b.Stats.Discards != 1 {
		t.Errorf("Discards = %d", b.Stats.Discards)
	}
}

func TestAcquireErrorsMatchSentinels(t *testing.T) {
	for _, want := range []error{gpu.ErrSurfaceOutdated, gpu.ErrSurfaceLost, gpu.ErrOutOfMemory} {
		b := nullgpu.New()
		sb := bindTest(t, b, 1, 1)
		b.AcquireErrs = []error{want}
		if _, err := sb.AcquireFrame(); !errors.Is(err, want) {
			t.Errorf("AcquireFrame() = %v, want %v", err, want)
		}
	}
}

func TestRefreshAndRebind(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 800, 600)

	if err := sb.Refresh(); err != nil {
		t.Fatal(err)
	}
	if n := len(b.Stats.Configures); n != 2 {
		t.Errorf("Configures after Refresh = %d, want 2", n)
	}

	old := sb.Surface()
	if err := sb.Rebind(); err != nil {
		t.Fatal(err)
	}
	if sb.Surface() == old || b.Stats.Surfaces != 2 {
		t.Error("Rebind did not recreate the surface")
	}
	if !sb.Valid() || len(b.Stats.Configures) != 3 {
		t.Errorf("valid=%v configures=%d after Rebind", sb.Valid(), len(b.Stats.Configures))
	}
	cfg := sb.Config()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("rebound at %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRebindWhileMinimized(t *testing.T) {
	b := nullgpu.New()
	sb := bindTest(t, b, 800, 600)
	_ = sb.Reconfigure(0, 0)
	if err := sb.Rebind(); err != nil {
		t.Fatal(err)
	}
	if sb.Valid() {
		t.Error("rebound binding valid while minimized")
	}
	if err := sb.Reconfigure(800, 600); err != nil {
		t.Fatal(err)
	}
	if n := len(b.Stats.Configures); n != 2 {
		t.Errorf("Configures = %d, want 2 (restore reconfigures the new surface)", n)
	}
}

func TestBindingRelease(t *testing.T) {
	b := nullgpu.New()
	gc := newTestContext(t, b)
	sb, err := Bind(gc, testTarget, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	sb.Release()
	sb.Release()
	if sb.Valid() {
		t.Error("released binding is valid")
	}
	if _, err := sb.AcquireFrame(); !errors.Is(err, ErrReleased) {
		t.Errorf("AcquireFrame() = %v, want ErrReleased", err)
	}
	if err := sb.Reconfigure(1, 1); !errors.Is(err, ErrReleased) {
		t.Errorf("Reconfigure() = %v, want ErrReleased", err)
	}
}

func TestBindOtherTargetCreatesSurface(t *testing.T) {
	b := nullgpu.New()
	gc := newTestContext(t, b)
	sb, err := Bind(gc, gpu.SurfaceTarget{Window: 7}, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	defer sb.Release()
	if b.Stats.Surfaces != 2 {
		t.Errorf("Surfaces = %d, want 2", b.Stats.Surfaces)
	}
}
