// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"errors"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Platform names registered by the sub-packages.
const (
	PlatformBrowser  = "browser"
	PlatformGLFW     = "glfw"
	PlatformHeadless = "headless"
)

// ErrNoPlatform is returned by Open when no platform is registered.
var ErrNoPlatform = errors.New("window: no platform registered")

// PlatformNotFoundError indicates a named platform is not registered.
type PlatformNotFoundError struct {
	Name string
}

func (e *PlatformNotFoundError) Error() string {
	return "window: platform not found: " + e.Name
}

// Opener opens a window with the given options.
type Opener func(opts Options) (Source, error)

var registry = gpucontext.NewRegistry[Opener](
	gpucontext.WithPriority(PlatformBrowser, PlatformGLFW, PlatformHeadless),
)

// Register makes a platform available under name. It is typically called
// from init() in platform packages.
func Register(name string, open Opener) {
	registry.Register(name, func() Opener { return open })
}

// Unregister removes a platform. This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered platform names, sorted.
func Available() []string {
	names := registry.Available()
	sort.Strings(names)
	return names
}

// BestName returns the platform Open("") would use, or "".
func BestName() string {
	return registry.BestName()
}

// Open validates opts and opens a window on the named platform, or on the
// best registered platform when name is empty.
func Open(name string, opts Options) (Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		name = registry.BestName()
		if name == "" {
			return nil, ErrNoPlatform
		}
	}
	if !registry.Has(name) {
		return nil, &PlatformNotFoundError{Name: name}
	}
	return registry.Get(name)(opts)
}
