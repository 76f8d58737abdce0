// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"math/bits"
	"strings"

	"github.com/gogpu/gputypes"
)

// Surface acquisition errors. Backends wrap their native errors so that
// errors.Is matches these sentinels.
var (
	// ErrSurfaceOutdated means the surface configuration no longer matches
	// the window. Reconfigure and try again.
	ErrSurfaceOutdated = errors.New("gpu: surface outdated")

	// ErrSurfaceLost means the surface must be recreated, not just
	// reconfigured.
	ErrSurfaceLost = errors.New("gpu: surface lost")

	// ErrOutOfMemory is unrecoverable.
	ErrOutOfMemory = errors.New("gpu: out of memory")

	// ErrTimeout means no texture became available in time.
	ErrTimeout = errors.New("gpu: acquire timeout")

	// ErrNoAdapter is returned when no adapter satisfies the request.
	ErrNoAdapter = errors.New("gpu: no compatible adapter")

	// ErrDeviceLost means the logical device is gone.
	ErrDeviceLost = errors.New("gpu: device lost")

	// ErrReleased is returned when a released object is used.
	ErrReleased = errors.New("gpu: object released")

	// ErrNoBackend is returned when no backend is registered.
	ErrNoBackend = errors.New("gpu: no backend registered")

	// ErrMissingFeatures is returned when an adapter lacks a required
	// feature.
	ErrMissingFeatures = errors.New("gpu: adapter lacks required features")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "gpu: backend not found: " + e.Name
}

// MissingFeaturesError lists the required features an adapter lacks.
type MissingFeaturesError struct {
	Missing gputypes.Features
}

func (e *MissingFeaturesError) Error() string {
	return "gpu: adapter lacks required features: " + strings.Join(FeatureNames(e.Missing), ", ")
}

// Unwrap reports ErrMissingFeatures.
func (e *MissingFeaturesError) Unwrap() error { return ErrMissingFeatures }

// CheckFeatures returns a *MissingFeaturesError when have does not contain
// every feature in want.
func CheckFeatures(have, want gputypes.Features) error {
	if have.ContainsAll(want) {
		return nil
	}
	return &MissingFeaturesError{Missing: want &^ have}
}

// FeatureNames returns the names of the features in f, lowest bit first.
func FeatureNames(f gputypes.Features) []string {
	var names []string
	for v := uint64(f); v != 0; v &= v - 1 {
		names = append(names, gputypes.Feature(1<<bits.TrailingZeros64(v)).String())
	}
	return names
}
