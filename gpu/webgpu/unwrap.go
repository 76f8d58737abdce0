// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/heatwave/gpu"
)

// ErrNotWebGPU is returned when a provider or view was not created by this
// backend.
var ErrNotWebGPU = errors.New("webgpu: value does not belong to the webgpu backend")

// Unwrap returns the wgpu device and queue behind a device provider such as
// *heatwave.GPUContext.
func Unwrap(p gpucontext.DeviceProvider) (*wgpu.Device, *wgpu.Queue, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("%w: nil provider", ErrNotWebGPU)
	}
	d, ok := p.Device().(*Device)
	if !ok || d == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNotWebGPU, p.Device())
	}
	return d.raw, d.raw.Queue(), nil
}

// View returns the wgpu texture view behind a frame view.
func View(v gpu.TextureView) (*wgpu.TextureView, error) {
	tv, ok := v.(*TextureView)
	if !ok || tv == nil {
		return nil, fmt.Errorf("%w: view is %T", ErrNotWebGPU, v)
	}
	return tv.raw, nil
}
