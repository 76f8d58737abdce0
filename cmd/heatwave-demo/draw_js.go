//go:build js && wasm

package main

import "github.com/gogpu/heatwave"

// The browser backend exposes no render pass helpers; frames are cleared
// by the page.
func newRenderer(*heatwave.GPUContext) (renderer, error) { return nil, nil }
