//go:build js && wasm

package main

import (
	_ "github.com/gogpu/heatwave/gpu/jsgpu"
	_ "github.com/gogpu/heatwave/window/browser"
)
