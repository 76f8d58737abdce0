package heatwave

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
)

// Frame is one acquired surface texture, handed to Hook.OnRedraw and
// presented by the driver afterwards. A Frame must not be retained past
// OnRedraw.
type Frame struct {
	// Texture is the acquired surface texture.
	Texture gpu.SurfaceTexture

	// View is a render attachment view of Texture. Backend packages
	// provide helpers that accept it, such as webgpu.ClearView.
	View gpu.TextureView

	Width, Height int
	Format        gputypes.TextureFormat

	// Seq counts frames acquired from the binding, starting at 1.
	Seq uint64

	// Suboptimal is set when the surface still works but no longer
	// matches the window exactly. The driver reconfigures after present.
	Suboptimal bool

	// GPU is the context the frame belongs to.
	GPU *GPUContext

	done bool
}

// finish releases the view once. It reports false if the frame was
// already presented or discarded.
func (f *Frame) finish() bool {
	if f.done {
		return false
	}
	f.done = true
	if f.View != nil {
		f.View.Release()
	}
	return true
}
