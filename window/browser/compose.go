// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package browser

import "github.com/gogpu/heatwave/window"

// compositionEnd returns the events for a compositionend carrying data.
// A commit is reported as text alone, which ends the composition with
// that text. An empty commit cancels the composition.
func compositionEnd(data string) []window.Event {
	if data == "" {
		return []window.Event{window.IMEPreedit{}}
	}
	return []window.Event{window.TextInput{Text: data}}
}
