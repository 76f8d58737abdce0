// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is wrapped by Options.Validate failures.
var ErrInvalidOptions = errors.New("window: invalid options")

// Options describes the window a Source opens.
type Options struct {
	Title string

	// Width and Height are the initial client size in screen coordinates.
	Width  int
	Height int

	// Size limits. Zero means unbounded.
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// X and Y position the window when Positioned is set; otherwise the
	// platform places it.
	X, Y       int
	Positioned bool

	Resizable   bool
	Decorated   bool
	Visible     bool
	Maximized   bool
	Transparent bool
	// Floating keeps the window above others.
	Floating bool
	// Fullscreen covers the primary monitor.
	Fullscreen bool
	// FocusOnShow focuses the window when it is first shown.
	FocusOnShow bool

	// Canvas is the id of the canvas element used in the browser.
	Canvas string
}

// DefaultOptions returns a visible, decorated, resizable 200x200 window.
func DefaultOptions() Options {
	return Options{
		Title:       "Heatwave App",
		Width:       200,
		Height:      200,
		Resizable:   true,
		Decorated:   true,
		Visible:     true,
		FocusOnShow: true,
		Canvas:      "heatwave",
	}
}

// Validate checks sizes and limits.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.MinWidth < 0 || o.MinHeight < 0 || o.MaxWidth < 0 || o.MaxHeight < 0 {
		return fmt.Errorf("%w: negative size limit", ErrInvalidOptions)
	}
	if o.MaxWidth > 0 && o.MinWidth > o.MaxWidth {
		return fmt.Errorf("%w: min width %d exceeds max width %d", ErrInvalidOptions, o.MinWidth, o.MaxWidth)
	}
	if o.MaxHeight > 0 && o.MinHeight > o.MaxHeight {
		return fmt.Errorf("%w: min height %d exceeds max height %d", ErrInvalidOptions, o.MinHeight, o.MaxHeight)
	}
	return nil
}
