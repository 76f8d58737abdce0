// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin

package glfw

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/heatwave/gpu"
)

var (
	quartzOnce sync.Once
	quartzErr  error

	selContentView        objc.SEL
	selSetWantsLayer      objc.SEL
	selLayer              objc.SEL
	selSetLayer           objc.SEL
	selBackingScaleFactor objc.SEL
	selSetContentsScale   objc.SEL
)

func loadQuartz() error {
	quartzOnce.Do(func() {
		if _, err := purego.Dlopen("/System/Library/Frameworks/QuartzCore.framework/QuartzCore", purego.RTLD_GLOBAL); err != nil {
			quartzErr = err
			return
		}
		selContentView = objc.RegisterName("contentView")
		selSetWantsLayer = objc.RegisterName("setWantsLayer:")
		selLayer = objc.RegisterName("layer")
		selSetLayer = objc.RegisterName("setLayer:")
		selBackingScaleFactor = objc.RegisterName("backingScaleFactor")
		selSetContentsScale = objc.RegisterName("setContentsScale:")
	})
	return quartzErr
}

// nativeTarget backs the window's content view with a CAMetalLayer, which
// is what the Metal surface presents into.
func nativeTarget(w *glfw.Window) gpu.SurfaceTarget {
	if err := loadQuartz(); err != nil {
		return gpu.SurfaceTarget{}
	}
	nsWindow := objc.ID(uintptr(w.GetCocoaWindow()))
	view := nsWindow.Send(selContentView)
	view.Send(selSetWantsLayer, true)
	layer := objc.ID(objc.GetClass("CAMetalLayer")).Send(selLayer)
	view.Send(selSetLayer, layer)
	scale := objc.Send[float64](nsWindow, selBackingScaleFactor)
	layer.Send(selSetContentsScale, scale)
	return gpu.SurfaceTarget{Window: uintptr(layer)}
}
