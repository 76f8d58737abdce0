// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// ErrUnknownResource is returned for ids Resources never handed out or
// already removed.
var ErrUnknownResource = errors.New("webgpu: unknown resource id")

// Resources owns GPU buffers and pipelines created for one device and hands
// out integer ids for them. Ids are never reused.
//
// Pipelines without an explicit layout get a shared empty pipeline layout,
// and render pipelines get a colour target matching the surface format.
type Resources struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue
	format gputypes.TextureFormat

	layout *wgpu.PipelineLayout

	buffers  map[int]*wgpu.Buffer
	renders  map[int]*wgpu.RenderPipeline
	computes map[int]*wgpu.ComputePipeline
	modules  []*wgpu.ShaderModule

	nextBuffer  int
	nextRender  int
	nextCompute int
}

// NewResources creates an empty registry for the device behind p.
func NewResources(p gpucontext.DeviceProvider) (*Resources, error) {
	device, queue, err := Unwrap(p)
	if err != nil {
		return nil, err
	}
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "heatwave_pipeline_layout",
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create pipeline layout: %w", err)
	}
	return &Resources{
		device:   device,
		queue:    queue,
		format:   p.SurfaceFormat(),
		layout:   layout,
		buffers:  make(map[int]*wgpu.Buffer),
		renders:  make(map[int]*wgpu.RenderPipeline),
		computes: make(map[int]*wgpu.ComputePipeline),
	}, nil
}

// Layout returns the shared pipeline layout.
func (r *Resources) Layout() *wgpu.PipelineLayout { return r.layout }

// AddBuffer creates an uninitialised buffer and returns its id.
func (r *Resources) AddBuffer(label string, size uint64, usage gputypes.BufferUsage) (int, error) {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: create buffer %q: %w", label, err)
	}
	return r.storeBuffer(buf), nil
}

// AddBufferInit creates a buffer holding contents and returns its id.
// CopyDst is added to usage; the size is rounded up to a multiple of 4.
func (r *Resources) AddBufferInit(label string, contents []byte, usage gputypes.BufferUsage) (int, error) {
	size := alignCopy(uint64(len(contents)))
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: create buffer %q: %w", label, err)
	}
	data := contents
	if uint64(len(data)) != size {
		data = make([]byte, size)
		copy(data, contents)
	}
	if len(data) > 0 {
		if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
			buf.Release()
			return 0, fmt.Errorf("webgpu: write buffer %q: %w", label, err)
		}
	}
	return r.storeBuffer(buf), nil
}

func (r *Resources) storeBuffer(buf *wgpu.Buffer) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextBuffer
	r.nextBuffer++
	r.buffers[id] = buf
	return id
}

// Buffer returns the buffer with the given id.
func (r *Resources) Buffer(id int) (*wgpu.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	return b, nil
}

// RemoveBuffer releases the buffer with the given id.
func (r *Resources) RemoveBuffer(id int) error {
	r.mu.Lock()
	b, ok := r.buffers[id]
	delete(r.buffers, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	b.Release()
	return nil
}

// AddRenderPipeline validates and compiles the shaders of desc, creates the
// pipeline and returns its id.
func (r *Resources) AddRenderPipeline(desc SimpleRenderPipeline) (int, error) {
	vertex, err := r.shaderModule(desc.Label+"_vs", desc.VertexShader)
	if err != nil {
		return 0, err
	}
	var fragment *wgpu.ShaderModule
	if !desc.NoFragment {
		fragment = vertex
		if desc.FragmentShader != "" {
			if fragment, err = r.shaderModule(desc.Label+"_fs", desc.FragmentShader); err != nil {
				return 0, err
			}
		}
	}

	pipeline, err := r.device.CreateRenderPipeline(desc.descriptor(r.layout, vertex, fragment, r.format))
	if err != nil {
		return 0, fmt.Errorf("webgpu: create render pipeline %q: %w", desc.Label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextRender
	r.nextRender++
	r.renders[id] = pipeline
	return id, nil
}

// RenderPipeline returns the render pipeline with the given id.
func (r *Resources) RenderPipeline(id int) (*wgpu.RenderPipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.renders[id]
	if !ok {
		return nil, fmt.Errorf("%w: render pipeline %d", ErrUnknownResource, id)
	}
	return p, nil
}

// AddComputePipeline validates and compiles desc.Shader, creates the
// pipeline and returns its id.
func (r *Resources) AddComputePipeline(desc ComputePipeline) (int, error) {
	module, err := r.shaderModule(desc.Label, desc.Shader)
	if err != nil {
		return 0, err
	}
	pipeline, err := r.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:      desc.Label,
		Layout:     r.layout,
		Module:     module,
		EntryPoint: desc.entry(),
		Constants:  desc.Constants,
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: create compute pipeline %q: %w", desc.Label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextCompute
	r.nextCompute++
	r.computes[id] = pipeline
	return id, nil
}

// ComputePipeline returns the compute pipeline with the given id.
func (r *Resources) ComputePipeline(id int) (*wgpu.ComputePipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.computes[id]
	if !ok {
		return nil, fmt.Errorf("%w: compute pipeline %d", ErrUnknownResource, id)
	}
	return p, nil
}

func (r *Resources) shaderModule(label, source string) (*wgpu.ShaderModule, error) {
	if err := ValidateWGSL(source); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	m, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSL:  source,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create shader module %q: %w", label, err)
	}
	r.mu.Lock()
	r.modules = append(r.modules, m)
	r.mu.Unlock()
	return m, nil
}

// Release releases every resource. The registry must not be used after.
func (r *Resources) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.renders {
		p.Release()
		delete(r.renders, id)
	}
	for id, p := range r.computes {
		p.Release()
		delete(r.computes, id)
	}
	for _, m := range r.modules {
		m.Release()
	}
	r.modules = nil
	for id, b := range r.buffers {
		b.Release()
		delete(r.buffers, id)
	}
	if r.layout != nil {
		r.layout.Release()
		r.layout = nil
	}
}

// alignCopy rounds n up to the 4-byte copy alignment.
func alignCopy(n uint64) uint64 {
	return (n + 3) &^ 3
}
