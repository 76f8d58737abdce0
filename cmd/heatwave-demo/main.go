// Command heatwave-demo opens a window and draws a triangle over a clear
// colour.
//
// Usage:
//
//	heatwave-demo [flags]
//
// Flags override values loaded from -config. With -watch the clear colour
// follows edits to the config file while the demo runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/heatwave"
	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
	"github.com/gogpu/heatwave/window/headless"
)

// flags holds the command line. Zero values leave the config untouched.
type flags struct {
	config   string
	width    int
	height   int
	title    string
	backend  string
	platform string
	headless bool
	frames   int
	fallback bool
	watch    bool
	verbose  bool
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, error) {
	var f flags
	fs.StringVar(&f.config, "config", "", "YAML or TOML config file")
	fs.IntVar(&f.width, "width", 0, "window width")
	fs.IntVar(&f.height, "height", 0, "window height")
	fs.StringVar(&f.title, "title", "", "window title")
	fs.StringVar(&f.backend, "backend", "", "GPU backend (webgpu, browser, null)")
	fs.StringVar(&f.platform, "platform", "", "window platform (glfw, browser, headless)")
	fs.BoolVar(&f.headless, "headless", false, "run without a window on the null backend")
	fs.IntVar(&f.frames, "frames", 0, "exit after this many frames in headless mode")
	fs.BoolVar(&f.fallback, "fallback", false, "force the fallback adapter")
	fs.BoolVar(&f.watch, "watch", false, "reload the clear colour when -config changes")
	fs.BoolVar(&f.verbose, "v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if f.watch && f.config == "" {
		return flags{}, errors.New("-watch needs -config")
	}
	return f, nil
}

// apply overlays the flags on cfg.
func (f flags) apply(cfg heatwave.Config) heatwave.Config {
	if f.title != "" {
		cfg = cfg.WithTitle(f.title)
	}
	if f.width > 0 || f.height > 0 {
		w, h := cfg.Window.Width, cfg.Window.Height
		if f.width > 0 {
			w = f.width
		}
		if f.height > 0 {
			h = f.height
		}
		cfg = cfg.WithSize(w, h)
	}
	if f.platform != "" {
		cfg = cfg.WithPlatform(f.platform)
	}
	if f.backend != "" {
		cfg = cfg.WithBackend(f.backend)
	}
	if f.headless {
		cfg = cfg.WithPlatform(window.PlatformHeadless).WithBackend(gpu.BackendNull)
	}
	if f.fallback {
		cfg = cfg.WithFallbackAdapter(true)
	}
	if f.verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg
}

func loadConfig(f flags) (heatwave.Config, error) {
	cfg := heatwave.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = heatwave.LoadConfig(f.config); err != nil {
			return heatwave.Config{}, err
		}
	}
	cfg = f.apply(cfg)
	return cfg, cfg.Validate()
}

func main() {
	f, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "heatwave-demo:", err)
		os.Exit(2)
	}
	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, "heatwave-demo:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	heatwave.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := newDemo(cfg.ClearColor)
	defer d.release()

	if f.watch {
		if err := watchConfig(ctx, f.config, d.reload); err != nil {
			return err
		}
	}

	if cfg.Platform == window.PlatformHeadless {
		return runHeadless(ctx, cfg, f.frames, d)
	}
	return heatwave.Run(ctx, cfg, d)
}

// runHeadless builds the driver by hand so the frame limit can be passed
// to the headless source.
func runHeadless(ctx context.Context, cfg heatwave.Config, frames int, hook heatwave.Hook) error {
	name := cfg.Backend
	if name == "" {
		name = gpu.BackendNull
	}
	backend, err := gpu.Lookup(name)
	if err != nil {
		return err
	}
	src := headless.New(cfg.WindowOptions(), headless.WithMaxFrames(frames))
	defer src.Close()

	d := heatwave.NewDriver(src, backend, hook,
		heatwave.WithGPUConfig(cfg.GPU),
		heatwave.WithResizeCoalescing(cfg.CoalesceResize),
		heatwave.WithContinuousRendering(cfg.ContinuousRender),
	)
	err = d.Run(ctx)
	heatwave.Logger().Info("heatwave-demo: done", "frames", src.Frames())
	return err
}
