//go:build !(js && wasm)

package main

import (
	_ "embed"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/heatwave"
	"github.com/gogpu/heatwave/gpu"
	"github.com/gogpu/heatwave/gpu/webgpu"
)

//go:embed triangle.wgsl
var triangleWGSL string

var triangleVertices = []webgpu.PositionVertex{
	{Position: [3]float32{0, 0.5, 0}},
	{Position: [3]float32{-0.5, -0.5, 0}},
	{Position: [3]float32{0.5, -0.5, 0}},
}

type triangle struct {
	res      *webgpu.Resources
	pipeline int
	vertices int
}

// newRenderer returns nil on backends that cannot record render passes.
func newRenderer(gc *heatwave.GPUContext) (renderer, error) {
	if gc.Backend().Name() != gpu.BackendWebGPU {
		return nil, nil
	}
	res, err := webgpu.NewResources(gc)
	if err != nil {
		return nil, err
	}
	t := &triangle{res: res}
	t.vertices, err = res.AddBufferInit("triangle_vertices",
		webgpu.PositionVertexBytes(triangleVertices), gputypes.BufferUsageVertex)
	if err != nil {
		res.Release()
		return nil, err
	}
	t.pipeline, err = res.AddRenderPipeline(webgpu.SimpleRenderPipeline{
		Label:         "triangle",
		VertexShader:  triangleWGSL,
		VertexBuffers: []gputypes.VertexBufferLayout{webgpu.PositionVertexLayout()},
	})
	if err != nil {
		res.Release()
		return nil, err
	}
	return t, nil
}

func (t *triangle) draw(f *heatwave.Frame, clear gputypes.Color) error {
	pipeline, err := t.res.RenderPipeline(t.pipeline)
	if err != nil {
		return err
	}
	buf, err := t.res.Buffer(t.vertices)
	if err != nil {
		return err
	}
	return webgpu.Draw(f.GPU, f.View, clear, func(pass *wgpu.RenderPassEncoder) {
		pass.SetPipeline(pipeline)
		pass.SetVertexBuffer(0, buf, 0)
		pass.Draw(uint32(len(triangleVertices)), 1, 0, 0)
	})
}

func (t *triangle) release() { t.res.Release() }
