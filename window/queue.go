// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"context"
	"sync"
)

// Queue buffers events produced by platform callbacks until the next Pump.
// It also tracks pending redraw requests and closing, which every Source
// needs. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	events []Event
	redraw bool
	closed bool
	notify chan struct{}
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
	q.wake()
}

// RequestRedraw marks a redraw as pending. Pending requests collapse into
// one RedrawRequested at the end of the next Drain.
func (q *Queue) RequestRedraw() {
	q.mu.Lock()
	q.redraw = true
	q.mu.Unlock()
	q.wake()
}

// RedrawPending reports whether a redraw request is waiting.
func (q *Queue) RedrawPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.redraw
}

// Close marks the queue closed. Drain still returns events pushed before.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// Closed reports whether Close was called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Drain returns and clears the buffered events. A pending redraw is
// appended as a single RedrawRequested after the other events.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	if q.redraw {
		out = append(out, RedrawRequested{})
		q.redraw = false
	}
	return out
}

// Wait blocks until an event, a redraw request or Close arrives, or ctx is
// done.
func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		ready := len(q.events) > 0 || q.redraw || q.closed
		if q.notify == nil {
			q.notify = make(chan struct{}, 1)
		}
		ch := q.notify
		q.mu.Unlock()
		if ready {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *Queue) wake() {
	q.mu.Lock()
	if q.notify == nil {
		q.notify = make(chan struct{}, 1)
	}
	ch := q.notify
	q.mu.Unlock()
	select {
	case ch <- struct{}{}:
	default:
	}
}
