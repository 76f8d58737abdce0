// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

// Package jsgpu is the browser GPU backend. It talks to navigator.gpu
// through syscall/js and presents into a canvas element.
//
// Importing the package registers it under the name "browser".
package jsgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"syscall/js"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatwave/gpu"
)

// ErrUnsupported is returned when the browser does not expose WebGPU.
var ErrUnsupported = errors.New("jsgpu: WebGPU is not available in this browser")

var defaultBackend = &Backend{}

func init() {
	gpu.Register(gpu.BackendBrowser, func() gpu.Backend { return defaultBackend })
}

var nopLogger = slog.New(slog.DiscardHandler)

var loggerPtr atomic.Pointer[slog.Logger]

func init() { loggerPtr.Store(nopLogger) }

func logger() *slog.Logger { return loggerPtr.Load() }

// Backend creates instances over navigator.gpu.
type Backend struct{}

// Name returns "browser".
func (*Backend) Name() string { return gpu.BackendBrowser }

// SetLogger sets the logger used by the browser backend.
func (*Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger
	}
	loggerPtr.Store(l)
}

// CreateInstance returns an instance over navigator.gpu.
func (*Backend) CreateInstance(gpu.InstanceDescriptor) (gpu.Instance, error) {
	g := js.Global().Get("navigator").Get("gpu")
	if g.IsUndefined() || g.IsNull() {
		return nil, ErrUnsupported
	}
	return &Instance{gpu: g}, nil
}

// Instance wraps the GPU object.
type Instance struct {
	gpu js.Value
}

// CreateSurface binds a canvas element by id.
func (i *Instance) CreateSurface(target gpu.SurfaceTarget) (gpu.Surface, error) {
	if target.Canvas == "" {
		return nil, fmt.Errorf("jsgpu: surface target has no canvas id")
	}
	canvas := js.Global().Get("document").Call("getElementById", target.Canvas)
	if canvas.IsNull() || canvas.IsUndefined() {
		return nil, fmt.Errorf("jsgpu: canvas %q not found", target.Canvas)
	}
	ctx := canvas.Call("getContext", "webgpu")
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, fmt.Errorf("jsgpu: canvas %q has no webgpu context", target.Canvas)
	}
	return &Surface{canvas: canvas, ctx: ctx, preferred: i.gpu.Call("getPreferredCanvasFormat").String()}, nil
}

// RequestAdapter awaits navigator.gpu.requestAdapter.
func (i *Instance) RequestAdapter(opts gpu.AdapterOptions) (gpu.Adapter, error) {
	o := map[string]any{"forceFallbackAdapter": opts.ForceFallbackAdapter}
	switch opts.PowerPreference {
	case gputypes.PowerPreferenceLowPower:
		o["powerPreference"] = "low-power"
	case gputypes.PowerPreferenceHighPerformance:
		o["powerPreference"] = "high-performance"
	}
	a, err := await(i.gpu.Call("requestAdapter", o))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gpu.ErrNoAdapter, err)
	}
	if a.IsNull() || a.IsUndefined() {
		return nil, gpu.ErrNoAdapter
	}
	return &Adapter{raw: a}, nil
}

// Release is a no-op; the browser owns navigator.gpu.
func (i *Instance) Release() {}

// Adapter wraps a GPUAdapter.
type Adapter struct {
	raw js.Value
}

// Raw returns the GPUAdapter.
func (a *Adapter) Raw() js.Value { return a.raw }

// Info reports GPUAdapter.info.
func (a *Adapter) Info() gputypes.AdapterInfo {
	info := gputypes.AdapterInfo{
		DeviceType: gputypes.DeviceTypeOther,
		Backend:    gputypes.BackendBrowserWebGPU,
	}
	v := a.raw.Get("info")
	if v.IsUndefined() || v.IsNull() {
		return info
	}
	info.Vendor = stringField(v, "vendor")
	info.Name = stringField(v, "description")
	if info.Name == "" {
		info.Name = stringField(v, "device")
	}
	info.Driver = stringField(v, "architecture")
	if a.raw.Get("isFallbackAdapter").Truthy() {
		info.DeviceType = gputypes.DeviceTypeCPU
	}
	return info
}

// featureNames maps feature bits to GPUFeatureName strings. Features the
// browser API has no name for are never reported.
var featureNames = map[gputypes.Feature]string{
	gputypes.FeatureDepthClipControl:        "depth-clip-control",
	gputypes.FeatureDepth32FloatStencil8:    "depth32float-stencil8",
	gputypes.FeatureTextureCompressionBC:    "texture-compression-bc",
	gputypes.FeatureTextureCompressionETC2:  "texture-compression-etc2",
	gputypes.FeatureTextureCompressionASTC:  "texture-compression-astc",
	gputypes.FeatureIndirectFirstInstance:   "indirect-first-instance",
	gputypes.FeatureShaderF16:               "shader-f16",
	gputypes.FeatureRG11B10UfloatRenderable: "rg11b10ufloat-renderable",
	gputypes.FeatureBGRA8UnormStorage:       "bgra8unorm-storage",
	gputypes.FeatureFloat32Filterable:       "float32-filterable",
	gputypes.FeatureTimestampQuery:          "timestamp-query",
}

// Features reads GPUAdapter.features.
func (a *Adapter) Features() gputypes.Features {
	var f gputypes.Features
	set := a.raw.Get("features")
	if set.IsUndefined() || set.IsNull() {
		return f
	}
	for feature, name := range featureNames {
		if set.Call("has", name).Bool() {
			f.Insert(feature)
		}
	}
	return f
}

// RequestDevice awaits GPUAdapter.requestDevice.
func (a *Adapter) RequestDevice(desc gpu.DeviceDescriptor) (gpu.Device, error) {
	if err := gpu.CheckFeatures(a.Features(), desc.RequiredFeatures); err != nil {
		return nil, err
	}
	required := []any{}
	for feature, name := range featureNames {
		if desc.RequiredFeatures.Contains(feature) {
			required = append(required, name)
		}
	}
	d, err := await(a.raw.Call("requestDevice", map[string]any{
		"label":            desc.Label,
		"requiredFeatures": required,
	}))
	if err != nil {
		return nil, err
	}
	dev := &Device{raw: d, queue: &Queue{raw: d.Get("queue")}}
	d.Get("lost").Call("then", js.FuncOf(func(_ js.Value, args []js.Value) any {
		dev.lost.Store(true)
		if len(args) > 0 {
			logger().Warn("jsgpu: device lost", "reason", stringField(args[0], "message"))
		}
		return nil
	}))
	return dev, nil
}

// SurfaceCapabilities reports the canvas formats. The preferred format is
// listed first.
func (a *Adapter) SurfaceCapabilities(s gpu.Surface) gpu.SurfaceCapabilities {
	caps := gpu.SurfaceCapabilities{
		PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo},
		AlphaModes: []gputypes.CompositeAlphaMode{
			gputypes.CompositeAlphaModeOpaque,
			gputypes.CompositeAlphaModePremultiplied,
		},
	}
	preferred := gputypes.TextureFormatBGRA8Unorm
	if cs, ok := s.(*Surface); ok && cs.preferred == "rgba8unorm" {
		preferred = gputypes.TextureFormatRGBA8Unorm
	}
	caps.Formats = []gputypes.TextureFormat{preferred}
	for _, f := range []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA16Float} {
		if f != preferred {
			caps.Formats = append(caps.Formats, f)
		}
	}
	return caps
}

// Release is a no-op; adapters are garbage collected.
func (a *Adapter) Release() {}

// Device wraps a GPUDevice.
type Device struct {
	raw   js.Value
	queue *Queue
	lost  atomic.Bool
}

// Raw returns the GPUDevice.
func (d *Device) Raw() js.Value { return d.raw }

// Queue returns the device queue as a *Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// WaitIdle awaits GPUQueue.onSubmittedWorkDone.
func (d *Device) WaitIdle() error {
	if d.lost.Load() {
		return gpu.ErrDeviceLost
	}
	_, err := await(d.queue.raw.Call("onSubmittedWorkDone"))
	return err
}

// Release destroys the device.
func (d *Device) Release() { d.raw.Call("destroy") }

// Queue wraps a GPUQueue.
type Queue struct {
	raw js.Value
}

// Raw returns the GPUQueue.
func (q *Queue) Raw() js.Value { return q.raw }

// Surface wraps a canvas and its GPUCanvasContext.
type Surface struct {
	canvas    js.Value
	ctx       js.Value
	preferred string
	device    *Device
}

// Canvas returns the canvas element.
func (s *Surface) Canvas() js.Value { return s.canvas }

// Configure sizes the canvas backing store and configures the context.
func (s *Surface) Configure(device gpu.Device, config gpu.SurfaceConfiguration) error {
	d, ok := device.(*Device)
	if !ok {
		return fmt.Errorf("jsgpu: foreign device %T", device)
	}
	format, ok := formatName(config.Format)
	if !ok {
		return fmt.Errorf("jsgpu: unsupported canvas format %v", config.Format)
	}
	alpha := "opaque"
	if config.AlphaMode == gputypes.CompositeAlphaModePremultiplied {
		alpha = "premultiplied"
	}
	s.canvas.Set("width", config.Width)
	s.canvas.Set("height", config.Height)
	return catch(func() {
		s.ctx.Call("configure", map[string]any{
			"device":    d.raw,
			"format":    format,
			"alphaMode": alpha,
			"usage":     uint32(config.Usage),
		})
		s.device = d
	})
}

// Unconfigure releases the context configuration.
func (s *Surface) Unconfigure() {
	s.ctx.Call("unconfigure")
	s.device = nil
}

// AcquireTexture returns the canvas texture for the current animation frame.
func (s *Surface) AcquireTexture() (gpu.SurfaceTexture, bool, error) {
	if s.device == nil {
		return nil, false, gpu.ErrSurfaceOutdated
	}
	if s.device.lost.Load() {
		return nil, false, gpu.ErrSurfaceLost
	}
	var tex js.Value
	if err := catch(func() { tex = s.ctx.Call("getCurrentTexture") }); err != nil {
		return nil, false, fmt.Errorf("%w: %w", gpu.ErrSurfaceLost, err)
	}
	return &SurfaceTexture{raw: tex}, false, nil
}

// Present is a no-op: the browser presents the canvas texture when the
// current task yields.
func (s *Surface) Present(gpu.SurfaceTexture) error { return nil }

// Discard is a no-op for the same reason.
func (s *Surface) Discard() {}

// Release unconfigures the context.
func (s *Surface) Release() {
	if s.device != nil {
		s.Unconfigure()
	}
}

// SurfaceTexture wraps a GPUTexture from the canvas.
type SurfaceTexture struct {
	raw js.Value
}

// Raw returns the GPUTexture.
func (t *SurfaceTexture) Raw() js.Value { return t.raw }

// CreateView creates the default view.
func (t *SurfaceTexture) CreateView() (gpu.TextureView, error) {
	var v js.Value
	if err := catch(func() { v = t.raw.Call("createView") }); err != nil {
		return nil, err
	}
	return &TextureView{raw: v}, nil
}

// TextureView wraps a GPUTextureView.
type TextureView struct {
	raw js.Value
}

// Raw returns the GPUTextureView.
func (v *TextureView) Raw() js.Value { return v.raw }

// Release is a no-op; views are garbage collected.
func (v *TextureView) Release() {}

func formatName(f gputypes.TextureFormat) (string, bool) {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm:
		return "bgra8unorm", true
	case gputypes.TextureFormatRGBA8Unorm:
		return "rgba8unorm", true
	case gputypes.TextureFormatRGBA16Float:
		return "rgba16float", true
	}
	return "", false
}

func stringField(v js.Value, name string) string {
	f := v.Get(name)
	if f.Type() != js.TypeString {
		return ""
	}
	return f.String()
}

// await blocks the calling goroutine until promise settles. It must not be
// called from inside a js.Func callback.
func await(promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)
	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- result{v: v}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "promise rejected"
		if len(args) > 0 {
			if m := stringField(args[0], "message"); m != "" {
				msg = m
			}
		}
		ch <- result{err: errors.New("jsgpu: " + msg)}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	r := <-ch
	return r.v, r.err
}

// catch converts a JavaScript exception thrown by fn into an error.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("jsgpu: %s", jsErr.Error())
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

var (
	_ gpu.Backend        = (*Backend)(nil)
	_ gpu.Instance       = (*Instance)(nil)
	_ gpu.Adapter        = (*Adapter)(nil)
	_ gpu.Device         = (*Device)(nil)
	_ gpu.Surface        = (*Surface)(nil)
	_ gpu.SurfaceTexture = (*SurfaceTexture)(nil)
	_ gpu.TextureView    = (*TextureView)(nil)
)
