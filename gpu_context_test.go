package heatwave

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/gpu/nullgpu"
)

var testTarget = gpu.SurfaceTarget{Window: 42}

func newTestContext(t *testing.T, b *nullgpu.Backend) *GPUContext {
	t.Helper()
	gc, err := NewGPUContext(context.Background(), b, testTarget, DefaultGPUConfig())
	if err != nil {
		t.Fatalf("NewGPUContext() = %v", err)
	}
	t.Cleanup(gc.Release)
	return gc
}

func TestNewGPUContext(t *testing.T) {
	b := nullgpu.New()
	gc := newTestContext(t, b)

	if gc.Device() == nil || gc.Queue() == nil || gc.Adapter() == nil {
		t.Fatal("DeviceProvider returned nil values")
	}
	if _, ok := gc.Queue().(*nullgpu.Queue); !ok {
		t.Errorf("Queue() = %T, want *nullgpu.Queue", gc.Queue())
	}
	info := gc.AdapterInfo()
	if info.Name != "Null Adapter" || info.Type != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterInfo() = %+v", info)
	}
	if gc.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() before Bind = %v", gc.SurfaceFormat())
	}
	if b.Stats.Instances != 1 || b.Stats.Surfaces != 1 || b.Stats.Adapters != 1 || b.Stats.Devices != 1 {
		t.Errorf("Stats = %+v", b.Stats)
	}
	if err := gc.WaitIdle(); err != nil {
		t.Errorf("WaitIdle() = %v", err)
	}
}

func TestNewGPUContextErrors(t *testing.T) {
	surfaceErr := errors.New("no display")
	deviceErr := errors.New("denied")
	tests := []struct {
		name   string
		setup  func(b *nullgpu.Backend)
		target gpu.SurfaceTarget
		kind   InitKind
		is     error
	}{
		{"empty target", func(*nullgpu.Backend) {}, gpu.SurfaceTarget{}, InitSurfaceCreation, nil},
		{"surface", func(b *nullgpu.Backend) { b.SurfaceErr = surfaceErr }, testTarget, InitSurfaceCreation, surfaceErr},
		{"no adapter", func(b *nullgpu.Backend) { b.NoAdapter = true }, testTarget, InitNoCompatibleAdapter, ErrNoCompatibleAdapter},
		{"no formats", func(b *nullgpu.Backend) { b.Caps.Formats = nil }, testTarget, InitNoCompatibleAdapter, ErrNoCompatibleAdapter},
		{"device", func(b *nullgpu.Backend) { b.DeviceErr = deviceErr }, testTarget, InitDeviceRequest, deviceErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := nullgpu.New()
			tt.setup(b)
			gc, err := NewGPUContext(context.Background(), b, tt.target, DefaultGPUConfig())
			if gc != nil {
				t.Fatal("NewGPUContext returned a context on failure")
			}
			var ie *InitError
			if !errors.As(err, &ie) || ie.Kind != tt.kind {
				t.Fatalf("error = %v, want InitError of kind %v", err, tt.kind)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.is)
			}
			created := b.Stats.Instances + b.Stats.Surfaces + b.Stats.Adapters + b.Stats.Devices
			if b.Stats.Released != created {
				t.Errorf("released %d of %d created objects", b.Stats.Released, created)
			}
		})
	}
}

func TestRequiredFeatures(t *testing.T) {
	shaderF16 := gputypes.Features(gputypes.FeatureShaderF16)
	timestamps := gputypes.Features(gputypes.FeatureTimestampQuery)

	t.Run("supported", func(t *testing.T) {
		b := nullgpu.New()
		b.Features = shaderF16 | timestamps
		cfg := DefaultGPUConfig()
		cfg.RequiredFeatures = shaderF16
		gc, err := NewGPUContext(context.Background(), b, testTarget, cfg)
		if err != nil {
			t.Fatalf("NewGPUContext() = %v", err)
		}
		gc.Release()
		if b.Stats.Devices != 1 {
			t.Errorf("Devices = %d, want 1", b.Stats.Devices)
		}
	})

	t.Run("missing", func(t *testing.T) {
		b := nullgpu.New()
		b.Features = shaderF16
		cfg := DefaultGPUConfig()
		cfg.RequiredFeatures = shaderF16 | timestamps
		_, err := NewGPUContext(context.Background(), b, testTarget, cfg)
		var ie *InitError
		if !errors.As(err, &ie) || ie.Kind != InitNoCompatibleAdapter {
			t.Fatalf("error = %v, want InitError of kind %v", err, InitNoCompatibleAdapter)
		}
		if !errors.Is(err, ErrNoCompatibleAdapter) || !errors.Is(err, gpu.ErrMissingFeatures) {
			t.Errorf("errors.Is mismatch for %v", err)
		}
		var mf *gpu.MissingFeaturesError
		if !errors.As(err, &mf) || mf.Missing != timestamps {
			t.Errorf("missing = %+v, want TimestampQuery only", mf)
		}
		if b.Stats.Devices != 0 {
			t.Errorf("a device was requested for an incompatible adapter")
		}
		created := b.Stats.Instances + b.Stats.Surfaces + b.Stats.Adapters
		if b.Stats.Released != created {
			t.Errorf("released %d of %d created objects", b.Stats.Released, created)
		}
	})
}

func TestInitErrorIsOnlyMatchesItsKind(t *testing.T) {
	err := &InitError{Kind: InitDeviceRequest, Err: errors.New("x")}
	if errors.Is(err, ErrNoCompatibleAdapter) {
		t.Error("device request error matched ErrNoCompatibleAdapter")
	}
	if got := err.Error(); got != "heatwave: init: device request: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGPUContextReleaseIdempotent(t *testing.T) {
	b := nullgpu.New()
	gc, err := NewGPUContext(context.Background(), b, testTarget, DefaultGPUConfig())
	if err != nil {
		t.Fatal(err)
	}
	gc.Release()
	released := b.Stats.Released
	gc.Release()
	if b.Stats.Released != released {
		t.Errorf("second Release released %d more objects", b.Stats.Released-released)
	}
	if err := gc.WaitIdle(); !errors.Is(err, ErrReleased) {
		t.Errorf("WaitIdle() after Release = %v, want ErrReleased", err)
	}
	if _, err := Bind(gc, testTarget, 1, 1); !errors.Is(err, ErrReleased) {
		t.Errorf("Bind() after Release = %v, want ErrReleased", err)
	}
}
