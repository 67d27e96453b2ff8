package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/halo/shader"
	"github.com/gogpu/halo/uniforms"
)

// Frame describes where a surface is drawn this frame.
type Frame struct {
	// Bounds of the surface in logical pixels.
	Bounds uniforms.Rect
	// ScaleFactor converts logical to physical pixels.
	ScaleFactor float32
	// Viewport is the projection of the render target.
	Viewport uniforms.Viewport
}

// FullFrame covers a whole width x height target at scale factor 1.
func FullFrame(width, height uint32) Frame {
	w, h := float32(width), float32(height)
	return Frame{
		Bounds:      uniforms.Rect{Width: w, Height: h},
		ScaleFactor: 1,
		Viewport:    uniforms.Orthographic(w, h),
	}
}

// Bridge connects the published shader to the GPU once per frame.
type Bridge struct {
	device hal.Device
	queue  hal.Queue
	slot   *shader.Slot
	cache  *Cache

	now   func() time.Time
	start time.Time
	clear gputypes.Color

	mu    sync.Mutex
	mouse [2]float64 // logical pixels
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithClock replaces time.Now as the source of elapsed time.
func WithClock(now func() time.Time) BridgeOption {
	return func(b *Bridge) {
		b.now = now
	}
}

// WithClearColor sets the color a target is cleared to before drawing.
func WithClearColor(c gputypes.Color) BridgeOption {
	return func(b *Bridge) {
		b.clear = c
	}
}

// NewBridge returns a bridge drawing the artifacts published in slot.
// Elapsed time starts counting now.
func NewBridge(device hal.Device, queue hal.Queue, slot *shader.Slot, cache *Cache, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		device: device,
		queue:  queue,
		slot:   slot,
		cache:  cache,
		now:    time.Now,
		clear:  gputypes.Color{A: 1},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.start = b.now()
	return b
}

// Cache returns the pipeline cache the bridge draws from.
func (b *Bridge) Cache() *Cache {
	return b.cache
}

// Elapsed returns the time since the bridge was created.
func (b *Bridge) Elapsed() time.Duration {
	return b.now().Sub(b.start)
}

// TrackPointer records pointer positions reported by src.
func (b *Bridge) TrackPointer(src gpucontext.PointerEventSource) {
	src.OnPointer(func(ev gpucontext.PointerEvent) {
		switch ev.Type {
		case gpucontext.PointerMove, gpucontext.PointerDown, gpucontext.PointerUp:
			b.SetPointer(ev.X, ev.Y)
		}
	})
}

// SetPointer sets the last known pointer position in logical pixels.
func (b *Bridge) SetPointer(x, y float64) {
	b.mu.Lock()
	b.mouse = [2]float64{x, y}
	b.mu.Unlock()
}

// Pointer returns the last known pointer position in logical pixels.
func (b *Bridge) Pointer() (x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse[0], b.mouse[1]
}

// Params returns the uniform inputs for frame at the current time.
func (b *Bridge) Params(frame Frame) uniforms.Params {
	sf := frame.ScaleFactor
	if sf == 0 {
		sf = 1
	}
	x, y := b.Pointer()
	return uniforms.Params{
		Bounds:      frame.Bounds,
		ScaleFactor: sf,
		Mouse:       [2]float32{float32(x) * sf, float32(y) * sf},
		Elapsed:     b.Elapsed(),
	}
}

// Prepare loads the published snapshot once, refreshes the surface's
// pipeline and uploads this frame's uniforms. Build failures are reported
// through the cache's OnError hook; the previous pipeline is used instead.
// ErrNoArtifact is returned while the surface has no pipeline at all.
func (b *Bridge) Prepare(id SurfaceID, frame Frame) (*Pipeline, error) {
	snap := b.slot.Load()
	p, err := b.cache.EnsureFresh(id, snap)
	if p == nil {
		if err != nil {
			return nil, err
		}
		return nil, ErrNoArtifact
	}

	raw := uniforms.Marshal(b.Params(frame), frame.Viewport)
	if err := p.Write(b.queue, &raw); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode records the draw of surface id into rp. It does nothing when the
// surface has no pipeline.
func (b *Bridge) Encode(rp hal.RenderPassEncoder, id SurfaceID) {
	if p := b.cache.Get(id); p != nil {
		p.Record(rp)
	}
}

// RenderTo draws surface id into view in a single pass and submits it. The
// target is cleared even when no shader has been published yet.
func (b *Bridge) RenderTo(view hal.TextureView, id SurfaceID, frame Frame) error {
	_, err := b.Prepare(id, frame)
	if err != nil && !errors.Is(err, ErrNoArtifact) {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "halo_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("halo_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "halo_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: b.clear,
		}},
	})
	b.Encode(rp, id)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if _, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}
