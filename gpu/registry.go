// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// Backend names registered by the sub-packages.
const (
	BackendBrowser = "browser"
	BackendWebGPU  = "webgpu"
	BackendNull    = "null"
)

// registry holds the registered backends. The priority order puts real
// GPUs ahead of the headless backend; the browser backend is only ever
// compiled for js/wasm so it never competes with webgpu.
var registry = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(BackendBrowser, BackendWebGPU, BackendNull),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory func() Backend) {
	registry.Register(name, factory)
	if l := loggerPtr.Load(); l != nil {
		propagateLogger(factory(), l)
	}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := registry.Available()
	sort.Strings(names)
	return names
}

// Lookup returns the named backend, or the best registered one when name
// is empty.
func Lookup(name string) (Backend, error) {
	if name == "" {
		b := registry.Best()
		if b == nil {
			return nil, ErrNoBackend
		}
		return b, nil
	}
	if !registry.Has(name) {
		return nil, &BackendNotFoundError{Name: name}
	}
	return registry.Get(name), nil
}

// BestName returns the name Lookup("") would pick, or "" if none.
func BestName() string {
	return registry.BestName()
}

// loggerPtr is the last logger passed to SetLogger.
var loggerPtr atomic.Pointer[slog.Logger]

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// SetLogger hands l to every registered backend that accepts a logger, and
// to backends registered later. heatwave.SetLogger calls this.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(l)
	for _, name := range registry.Available() {
		propagateLogger(registry.Get(name), l)
	}
}

func propagateLogger(b Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
