// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/heatwave/window"
)

func TestScriptThenDestroyed(t *testing.T) {
	src := New(window.DefaultOptions(), WithScript(
		[]window.Event{window.Resized{Width: 640, Height: 480}, window.Focused{Focused: true}},
		[]window.Event{window.CloseRequested{}},
	))
	ctx := context.Background()

	ev, err := src.Pump(ctx, true)
	if err != nil || len(ev) != 2 {
		t.Fatalf("pump 1 = %v, %v", ev, err)
	}
	if w, h := src.Size(); w != 640 || h != 480 {
		t.Errorf("Size after Resized = %dx%d", w, h)
	}

	src.RequestRedraw()
	ev, err = src.Pump(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(ev) != 2 || ev[0] != (window.CloseRequested{}) || ev[1] != (window.RedrawRequested{}) {
		t.Errorf("pump 2 = %v, want script batch then redraw", ev)
	}

	ev, err = src.Pump(ctx, true)
	if err != nil || len(ev) != 1 || ev[0] != (window.Destroyed{}) {
		t.Fatalf("pump 3 = %v, %v, want Destroyed", ev, err)
	}
	if _, err := src.Pump(ctx, true); !errors.Is(err, window.ErrClosed) {
		t.Errorf("pump 4 = %v, want ErrClosed", err)
	}
}

func TestMaxFrames(t *testing.T) {
	src := New(window.DefaultOptions(), WithMaxFrames(2))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		src.RequestRedraw()
		if _, err := src.Pump(ctx, false); err != nil {
			t.Fatalf("pump %d: %v", i, err)
		}
	}
	if src.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", src.Frames())
	}
	src.RequestRedraw()
	if _, err := src.Pump(ctx, false); !errors.Is(err, window.ErrClosed) {
		t.Errorf("pump after limit = %v, want ErrClosed", err)
	}
}

func TestPushAndClose(t *testing.T) {
	src := New(window.DefaultOptions())
	src.Push(window.TextInput{Text: "é"})
	ev, err := src.Pump(context.Background(), false)
	if err != nil || len(ev) != 1 {
		t.Fatalf("Pump = %v, %v", ev, err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Pump(context.Background(), false); !errors.Is(err, window.ErrClosed) {
		t.Errorf("Pump after Close = %v, want ErrClosed", err)
	}
}

func TestCancelledContext(t *testing.T) {
	src := New(window.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Pump(ctx, true); !errors.Is(err, context.Canceled) {
		t.Errorf("Pump = %v, want context.Canceled", err)
	}
}
