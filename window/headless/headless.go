// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless provides a window.Source with no window behind it.
//
// Events come from a script, one batch per Pump, followed by redraw
// requests. Paired with the null GPU backend it runs the whole frame loop
// in tests and on machines without a display.
//
// Importing the package registers it under the name "headless".
package headless

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/window"
)

func init() {
	window.Register(window.PlatformHeadless, func(opts window.Options) (window.Source, error) {
		return New(opts), nil
	})
}

var nextHandle atomic.Uintptr

// Option configures a Source.
type Option func(*Source)

// WithScript queues batches of events. Each Pump delivers one batch, in
// order, ahead of pending redraw requests.
func WithScript(batches ...[]window.Event) Option {
	return func(s *Source) { s.script = append(s.script, batches...) }
}

// WithMaxFrames closes the window after n RedrawRequested events were
// delivered. Zero means no limit.
func WithMaxFrames(n int) Option {
	return func(s *Source) { s.maxFrames = n }
}

// WithScaleFactor sets the reported scale factor.
func WithScaleFactor(f float64) Option {
	return func(s *Source) { s.scale = f }
}

// Source is a scripted window.Source.
type Source struct {
	queue  window.Queue
	target gpu.SurfaceTarget
	width  int
	height int
	scale  float64

	script    [][]window.Event
	maxFrames int
	frames    int

	destroyed bool
	closed    bool
	shown     bool
	pumps     int
}

// New returns a source sized like opts.
func New(opts window.Options, options ...Option) *Source {
	s := &Source{
		target: gpu.SurfaceTarget{Window: nextHandle.Add(1), Canvas: opts.Canvas},
		width:  opts.Width,
		height: opts.Height,
		scale:  1,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Target returns a unique fake handle.
func (s *Source) Target() gpu.SurfaceTarget { return s.target }

// Size returns the size after the last delivered Resized event.
func (s *Source) Size() (int, int) { return s.width, s.height }

// SetSize changes the size reported by Size without queueing a Resized
// event, like a window resized by the OS before the event is pumped.
func (s *Source) SetSize(width, height int) { s.width, s.height = width, height }

// Show marks the source visible.
func (s *Source) Show() { s.shown = true }

// Shown reports whether Show was called.
func (s *Source) Shown() bool { return s.shown }

// ScaleFactor returns the configured scale factor.
func (s *Source) ScaleFactor() float64 { return s.scale }

// RequestRedraw schedules a RedrawRequested for the next Pump.
func (s *Source) RequestRedraw() { s.queue.RequestRedraw() }

// Push queues events for the next Pump, after any scripted batch.
func (s *Source) Push(events ...window.Event) {
	for _, e := range events {
		s.queue.Push(e)
	}
}

// Frames returns the number of RedrawRequested events delivered.
func (s *Source) Frames() int { return s.frames }

// Pumps returns the number of Pump calls that delivered events.
func (s *Source) Pumps() int { return s.pumps }

// Pump delivers the next scripted batch followed by pushed events and a
// pending redraw. Once the script is used up and nothing is pending, it
// reports Destroyed, then ErrClosed.
func (s *Source) Pump(ctx context.Context, block bool) ([]window.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed || s.destroyed {
		return nil, window.ErrClosed
	}

	var out []window.Event
	if len(s.script) > 0 {
		out = append(out, s.script[0]...)
		s.script = s.script[1:]
	}
	out = append(out, s.queue.Drain()...)

	if len(out) == 0 && len(s.script) == 0 {
		s.destroyed = true
		return []window.Event{window.Destroyed{}}, nil
	}

	delivered := out[:0]
	for _, e := range out {
		switch ev := e.(type) {
		case window.Resized:
			s.width, s.height = ev.Width, ev.Height
		case window.ScaleFactorChanged:
			s.scale = ev.Scale
			s.width, s.height = ev.Width, ev.Height
		case window.RedrawRequested:
			if s.maxFrames > 0 && s.frames >= s.maxFrames {
				continue
			}
			s.frames++
		case window.Destroyed:
			s.destroyed = true
		}
		delivered = append(delivered, e)
	}
	if s.maxFrames > 0 && s.frames >= s.maxFrames && !s.destroyed {
		delivered = append(delivered, window.Destroyed{})
		s.destroyed = true
	}
	s.pumps++
	return delivered, nil
}

// Close closes the source.
func (s *Source) Close() error {
	s.closed = true
	s.queue.Close()
	return nil
}

var (
	_ window.Source = (*Source)(nil)
	_ window.Shower = (*Source)(nil)
)
