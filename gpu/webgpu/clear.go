// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/heatwave/gpu"
)

// ClearView records and submits a render pass that clears view to color.
func ClearView(p gpucontext.DeviceProvider, view gpu.TextureView, color gputypes.Color) error {
	return Draw(p, view, color, nil)
}

// Draw records one render pass over view. The pass clears to color and then
// calls record, if non-nil, to encode draw calls. The command buffer is
// submitted before Draw returns.
func Draw(p gpucontext.DeviceProvider, view gpu.TextureView, color gputypes.Color, record func(*wgpu.RenderPassEncoder)) error {
	device, queue, err := Unwrap(p)
	if err != nil {
		return err
	}
	target, err := View(view)
	if err != nil {
		return err
	}

	encoder, err := device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "heatwave_frame"})
	if err != nil {
		return fmt.Errorf("webgpu: create encoder: %w", err)
	}
	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "heatwave_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: color,
		}},
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("webgpu: begin render pass: %w", err)
	}
	if record != nil {
		record(pass)
	}
	if err := pass.End(); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("webgpu: end render pass: %w", err)
	}
	cmd, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	if _, err := queue.Submit(cmd); err != nil {
		return mapError(err)
	}
	return nil
}
