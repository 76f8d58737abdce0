package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave"
	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("heatwave-demo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	f, err := parseFlags(newFlagSet(), []string{"-width", "320", "-title", "T", "-headless", "-frames", "4", "-v"})
	if err != nil {
		t.Fatalf("parseFlags() = %v", err)
	}
	if f.width != 320 || f.title != "T" || !f.headless || f.frames != 4 || !f.verbose {
		t.Errorf("flags = %+v", f)
	}

	if _, err := parseFlags(newFlagSet(), []string{"-watch"}); err == nil {
		t.Error("-watch without -config accepted")
	}
	if _, err := parseFlags(newFlagSet(), []string{"-nope"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestFlagsApply(t *testing.T) {
	base := heatwave.DefaultConfig()

	tests := []struct {
		name  string
		flags flags
		check func(t *testing.T, cfg heatwave.Config)
	}{
		{"zero keeps config", flags{}, func(t *testing.T, cfg heatwave.Config) {
			if cfg.Title != base.Title || cfg.Window.Width != base.Window.Width || cfg.Platform != "" {
				t.Errorf("cfg changed: %+v", cfg)
			}
		}},
		{"width only", flags{width: 640}, func(t *testing.T, cfg heatwave.Config) {
			if cfg.Window.Width != 640 || cfg.Window.Height != base.Window.Height {
				t.Errorf("size = %dx%d", cfg.Window.Width, cfg.Window.Height)
			}
		}},
		{"headless wins", flags{platform: window.PlatformGLFW, backend: gpu.BackendWebGPU, headless: true}, func(t *testing.T, cfg heatwave.Config) {
			if cfg.Platform != window.PlatformHeadless || cfg.Backend != gpu.BackendNull {
				t.Errorf("platform/backend = %q/%q", cfg.Platform, cfg.Backend)
			}
		}},
		{"fallback and verbose", flags{fallback: true, verbose: true}, func(t *testing.T, cfg heatwave.Config) {
			if !cfg.GPU.ForceFallbackAdapter || cfg.LogLevel != slog.LevelDebug {
				t.Errorf("gpu = %+v, level = %v", cfg.GPU, cfg.LogLevel)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.flags.apply(base))
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "title: File\nclear_color: black\n")
	cfg, err := loadConfig(flags{config: path, title: "Flag"})
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.Title != "Flag" {
		t.Errorf("Title = %q, flag should override the file", cfg.Title)
	}
	if cfg.ClearColor != (gputypes.Color{A: 1}) {
		t.Errorf("ClearColor = %+v", cfg.ClearColor)
	}

	if _, err := loadConfig(flags{width: -5}); err != nil {
		t.Errorf("negative width flag should be ignored, got %v", err)
	}
	if _, err := loadConfig(flags{config: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestDemoEvents(t *testing.T) {
	d := newDemo(heatwave.Skybox)
	tests := []struct {
		event heatwave.AppEvent
		want  heatwave.Decision
	}{
		{heatwave.CloseRequested{}, heatwave.Terminate},
		{heatwave.KeyEvent{Key: gpucontext.KeyEscape, Pressed: true}, heatwave.Terminate},
		{heatwave.KeyEvent{Key: gpucontext.KeyEscape}, heatwave.Continue},
		{heatwave.KeyEvent{Key: gpucontext.KeyA, Pressed: true}, heatwave.Continue},
		{heatwave.FileDropped{Path: "a.png"}, heatwave.Continue},
		{heatwave.Focused{Focused: true}, heatwave.Continue},
	}
	for _, tt := range tests {
		if got := d.OnEvent(tt.event); got != tt.want {
			t.Errorf("OnEvent(%#v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestDemoReload(t *testing.T) {
	d := newDemo(heatwave.Skybox)
	cfg := heatwave.DefaultConfig().WithClearColor(gputypes.Color{R: 1, A: 1})
	d.reload(cfg)
	if got := *d.clear.Load(); got != cfg.ClearColor {
		t.Errorf("clear = %+v", got)
	}
}

func TestRunHeadless(t *testing.T) {
	cfg := heatwave.DefaultConfig().
		WithPlatform(window.PlatformHeadless).
		WithBackend(gpu.BackendNull).
		WithSize(64, 48)
	d := newDemo(cfg.ClearColor)
	t.Cleanup(d.release)

	if err := runHeadless(context.Background(), cfg, 3, d); err != nil {
		t.Fatalf("runHeadless() = %v", err)
	}
	if d.frames != 3 {
		t.Errorf("frames = %d, want 3", d.frames)
	}
	if d.r != nil {
		t.Error("null backend got a renderer")
	}
}

func TestRunHeadlessUnknownBackend(t *testing.T) {
	cfg := heatwave.DefaultConfig().WithPlatform(window.PlatformHeadless).WithBackend("nope")
	if err := runHeadless(context.Background(), cfg, 1, newDemo(cfg.ClearColor)); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestWatchConfig(t *testing.T) {
	path := writeConfig(t, "clear_color: black\n")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	got := make(chan heatwave.Config, 32)
	if err := watchConfig(ctx, path, func(cfg heatwave.Config) { got <- cfg }); err != nil {
		t.Fatalf("watchConfig() = %v", err)
	}
	if err := os.WriteFile(path, []byte("clear_color: white\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A write can show up as a truncate followed by the new contents, so
	// wait for the final colour.
	white := gputypes.Color{R: 1, G: 1, B: 1, A: 1}
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-got:
			if cfg.ClearColor == white {
				return
			}
		case <-timeout:
			t.Fatal("no reload after write")
		}
	}
}
