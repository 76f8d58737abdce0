//go:build !(js && wasm)

package main

import (
	_ "github.com/gogpu/heatwave/gpu/nullgpu"
	_ "github.com/gogpu/heatwave/gpu/webgpu"
	_ "github.com/gogpu/heatwave/window/glfw"
	_ "github.com/gogpu/heatwave/window/headless"
)
