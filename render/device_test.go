package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

type provider struct {
	device, queue any
}

func (p provider) HalDevice() any { return p.device }
func (p provider) HalQueue() any  { return p.queue }

func TestHALFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	d, q, err := HALFromProvider(provider{device, queue})
	if err != nil {
		t.Fatalf("HALFromProvider: %v", err)
	}
	if d != device || q != queue {
		t.Error("provider objects not returned")
	}

	if _, _, err := HALFromProvider(struct{}{}); err == nil {
		t.Error("expected error for provider without HAL methods")
	}
	if _, _, err := HALFromProvider(provider{"x", queue}); err == nil {
		t.Error("expected error for wrong device type")
	}
	if _, _, err := HALFromProvider(provider{device, 1}); err == nil {
		t.Error("expected error for wrong queue type")
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    gputypes.Backend
		auto    bool
		wantErr bool
	}{
		{"", gputypes.BackendEmpty, true, false},
		{"auto", gputypes.BackendEmpty, true, false},
		{"Vulkan", gputypes.BackendVulkan, false, false},
		{"noop", gputypes.BackendEmpty, false, false},
		{"gles", gputypes.BackendGL, false, false},
		{"webgpu", gputypes.BackendEmpty, false, true},
	}
	for _, tt := range tests {
		got, auto, err := ParseBackend(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want || auto != tt.auto {
			t.Errorf("ParseBackend(%q) = %v, %v, %v", tt.name, got, auto, err)
		}
	}
}

func TestOpenDeviceNoop(t *testing.T) {
	d, err := OpenDevice("noop")
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	defer d.Close()

	if d.Device == nil || d.Queue == nil {
		t.Fatal("device or queue is nil")
	}
	if _, _, err := HALFromProvider(d); err != nil {
		t.Errorf("Device does not act as a provider: %v", err)
	}
	d.Close()
	if d.Device != nil {
		t.Error("Close did not release the device")
	}
}
