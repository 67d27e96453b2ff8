package render

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/halo/shader"
	"github.com/gogpu/halo/uniforms"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

type fakePointerSource struct {
	fn func(gpucontext.PointerEvent)
}

func (s *fakePointerSource) OnPointer(fn func(gpucontext.PointerEvent)) { s.fn = fn }

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func newTestBridge(t *testing.T) (*Bridge, *shader.Slot, *recordingQueue, *fakeClock, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	rq := &recordingQueue{Queue: queue}
	slot := &shader.Slot{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	b := NewBridge(device, rq, slot, NewCache(NewHALCompiler(device)), WithClock(clock.now))
	return b, slot, rq, clock, func() {
		b.Cache().Close()
		cleanup()
	}
}

func TestBridgeNothingPublished(t *testing.T) {
	b, _, rq, _, cleanup := newTestBridge(t)
	defer cleanup()

	if _, err := b.Prepare(1, FullFrame(64, 64)); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("err = %v, want ErrNoArtifact", err)
	}
	if len(rq.writes) != 0 {
		t.Error("uniforms written without a pipeline")
	}
}

func TestBridgePrepareWritesUniforms(t *testing.T) {
	b, slot, rq, clock, cleanup := newTestBridge(t)
	defer cleanup()

	slot.Publish(mustArtifact(t, redFragment))
	clock.t = clock.t.Add(2500 * time.Millisecond)
	b.SetPointer(10, 20)

	frame := Frame{
		Bounds:      uniforms.Rect{X: 5, Y: 6, Width: 100, Height: 50},
		ScaleFactor: 2,
		Viewport:    uniforms.Orthographic(400, 200),
	}
	p, err := b.Prepare(1, frame)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("pipeline version = %d", p.Version)
	}

	data := rq.last()
	if len(data) != uniforms.Size {
		t.Fatalf("uniform upload = %d bytes, want %d", len(data), uniforms.Size)
	}
	checks := []struct {
		name string
		off  int
		want float32
	}{
		{"position.x", uniforms.OffsetPosition, 10},
		{"position.y", uniforms.OffsetPosition + 4, 12},
		{"scale.x", uniforms.OffsetScale, 200},
		{"scale.y", uniforms.OffsetScale + 4, 100},
		{"mouse.x", uniforms.OffsetMouse, 20},
		{"mouse.y", uniforms.OffsetMouse + 4, 40},
		{"time", uniforms.OffsetTime, 2.5},
		{"padding", uniforms.OffsetPadding, 0},
	}
	for _, c := range checks {
		if got := f32At(data, c.off); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBridgeHotSwap(t *testing.T) {
	b, slot, _, _, cleanup := newTestBridge(t)
	defer cleanup()

	slot.Publish(mustArtifact(t, shader.DefaultFragment))
	first, err := b.Prepare(1, FullFrame(32, 32))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Prepare(1, FullFrame(32, 32)); err != nil {
		t.Fatal(err)
	}
	if b.Cache().Rebuilds() != 1 {
		t.Fatalf("rebuilds after two frames on one version = %d", b.Cache().Rebuilds())
	}

	v := slot.Publish(mustArtifact(t, redFragment))
	second, err := b.Prepare(1, FullFrame(32, 32))
	if err != nil {
		t.Fatal(err)
	}
	if second == first || second.Version != v {
		t.Errorf("pipeline not swapped: version %d, want %d", second.Version, v)
	}
	if b.Cache().Rebuilds() != 2 {
		t.Errorf("rebuilds = %d, want 2", b.Cache().Rebuilds())
	}
}

func TestBridgeTrackPointer(t *testing.T) {
	b, _, _, _, cleanup := newTestBridge(t)
	defer cleanup()

	src := &fakePointerSource{}
	b.TrackPointer(src)
	src.fn(gpucontext.PointerEvent{Type: gpucontext.PointerMove, X: 3, Y: 4})
	if x, y := b.Pointer(); x != 3 || y != 4 {
		t.Errorf("Pointer = (%v, %v) after move", x, y)
	}
	src.fn(gpucontext.PointerEvent{Type: gpucontext.PointerLeave, X: 99, Y: 99})
	if x, y := b.Pointer(); x != 3 || y != 4 {
		t.Errorf("Pointer = (%v, %v) after leave, want last known", x, y)
	}
}

func TestBridgeRenderTo(t *testing.T) {
	b, slot, _, _, cleanup := newTestBridge(t)
	defer cleanup()

	target, err := NewTarget(b.device, 64, 32, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer target.Destroy()

	// Clearing works before anything is published.
	if err := b.RenderTo(target.View(), 1, target.Frame()); err != nil {
		t.Fatalf("RenderTo without shader: %v", err)
	}

	slot.Publish(mustArtifact(t, redFragment))
	if err := b.RenderTo(target.View(), 1, target.Frame()); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if b.Cache().Get(1) == nil {
		t.Error("no pipeline cached after RenderTo")
	}
}

func TestNewTargetInvalidSize(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()
	if _, err := NewTarget(device, 0, 10, gputypes.TextureFormatBGRA8Unorm); err == nil {
		t.Error("expected error for zero width")
	}
}
