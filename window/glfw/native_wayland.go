// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build (linux || freebsd || netbsd || openbsd) && wayland && !js

package glfw

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/heatwave/gpu"
)

func nativeTarget(w *glfw.Window) gpu.SurfaceTarget {
	return gpu.SurfaceTarget{
		Display: uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())),
		Window:  uintptr(unsafe.Pointer(w.GetWaylandWindow())),
	}
}
