// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// PositionVertex is a vertex carrying only a position, read by the shader at
// @location(0) as vec3<f32>.
type PositionVertex struct {
	Position [3]float32
}

// PositionVertexSize is the byte stride of a PositionVertex.
const PositionVertexSize = 12

// PositionVertexLayout returns the vertex buffer layout for PositionVertex.
func PositionVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: PositionVertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
}

// PositionVertexBytes packs vertices in little-endian order, ready for a
// vertex buffer.
func PositionVertexBytes(vertices []PositionVertex) []byte {
	out := make([]byte, len(vertices)*PositionVertexSize)
	for i, v := range vertices {
		off := i * PositionVertexSize
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(out[off+j*4:], math.Float32bits(f))
		}
	}
	return out
}
