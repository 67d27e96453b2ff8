package render

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/halo/shader"
)

const redFragment = `@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(sin(uniforms.time), 0.0, 0.0, 1.0);
}
`

// createNoopDevice opens a device on the noop backend.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func mustArtifact(t *testing.T, text string) *shader.Artifact {
	t.Helper()
	art, err := shader.Validate(context.Background(), text)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return art
}

// fakeCompiler records builds and can be told to fail.
type fakeCompiler struct {
	builds    []uint64
	destroyed []uint64
	fail      bool
}

var errBuild = errors.New("fake build failure")

func (c *fakeCompiler) Build(art *shader.Artifact, version uint64) (*Pipeline, error) {
	c.builds = append(c.builds, version)
	if c.fail {
		return nil, errBuild
	}
	return &Pipeline{Version: version, EntryPoint: art.EntryPoint}, nil
}

func (c *fakeCompiler) Destroy(p *Pipeline) {
	c.destroyed = append(c.destroyed, p.Version)
}

// recordingQueue captures uniform uploads.
type recordingQueue struct {
	hal.Queue
	writes [][]byte
}

func (q *recordingQueue) WriteBuffer(buf hal.Buffer, off uint64, data []byte) error {
	q.writes = append(q.writes, append([]byte(nil), data...))
	return q.Queue.WriteBuffer(buf, off, data)
}

func (q *recordingQueue) last() []byte {
	if len(q.writes) == 0 {
		return nil
	}
	return q.writes[len(q.writes)-1]
}
