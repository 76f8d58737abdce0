// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// SimpleRenderPipeline describes a render pipeline with the settings most
// applications want:
//   - the fragment stage replaces old pixels and writes all colour channels
//   - triangle list topology with counter-clockwise front faces
//   - back faces are culled
//   - polygons are filled, single sample, no depth attachment
//
// Layout and fragment colour targets are filled in by Resources when the
// pipeline is added.
type SimpleRenderPipeline struct {
	// Label is used for debugging.
	Label string

	// VertexShader is WGSL source for the vertex stage.
	VertexShader string
	// VertexEntryPoint defaults to "vs_main".
	VertexEntryPoint string

	// FragmentShader is WGSL source for the fragment stage. Empty means
	// the vertex source also holds the fragment entry point.
	FragmentShader string
	// FragmentEntryPoint defaults to "fs_main". Set NoFragment to build a
	// vertex-only pipeline.
	FragmentEntryPoint string
	NoFragment         bool

	// VertexBuffers describes the vertex buffers the pipeline reads.
	VertexBuffers []gputypes.VertexBufferLayout
}

func (p *SimpleRenderPipeline) vertexEntry() string {
	if p.VertexEntryPoint == "" {
		return "vs_main"
	}
	return p.VertexEntryPoint
}

func (p *SimpleRenderPipeline) fragmentEntry() string {
	if p.FragmentEntryPoint == "" {
		return "fs_main"
	}
	return p.FragmentEntryPoint
}

// primitiveState is the fixed rasterisation state of a SimpleRenderPipeline.
func primitiveState() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeBack,
	}
}

// colorTarget is the fragment target substituted for a surface of format.
func colorTarget(format gputypes.TextureFormat) wgpu.ColorTargetState {
	blend := gputypes.BlendStateReplace()
	return wgpu.ColorTargetState{
		Format:    format,
		Blend:     &blend,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}

// descriptor builds the wgpu descriptor from already created modules.
// fragment is nil for vertex-only pipelines.
func (p *SimpleRenderPipeline) descriptor(layout *wgpu.PipelineLayout, vertex, fragment *wgpu.ShaderModule, format gputypes.TextureFormat) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertex,
			EntryPoint: p.vertexEntry(),
			Buffers:    p.VertexBuffers,
		},
		Primitive:   primitiveState(),
		Multisample: gputypes.DefaultMultisampleState(),
	}
	if fragment != nil {
		desc.Fragment = &wgpu.FragmentState{
			Module:     fragment,
			EntryPoint: p.fragmentEntry(),
			Targets:    []wgpu.ColorTargetState{colorTarget(format)},
		}
	}
	return desc
}

// ComputePipeline describes a compute pipeline added to Resources.
type ComputePipeline struct {
	Label string
	// Shader is WGSL source.
	Shader string
	// EntryPoint defaults to "cs_main".
	EntryPoint string
	// Constants overrides pipeline-overridable constants.
	Constants map[string]float64
}

func (p *ComputePipeline) entry() string {
	if p.EntryPoint == "" {
		return "cs_main"
	}
	return p.EntryPoint
}
