package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/halo/internal/logging"
)

// DeviceHandle is the device a host application shares with the renderer.
type DeviceHandle = gpucontext.DeviceProvider

// halProvider is implemented by hosts that expose their HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HALFromProvider extracts the HAL device and queue from a host provider.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func HALFromProvider(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("render: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("render: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("render: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// Device is a GPU device opened by OpenDevice.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Info   gputypes.AdapterInfo

	instance hal.Instance
}

// HalDevice returns the HAL device, so a Device can itself serve as a
// provider.
func (d *Device) HalDevice() any { return d.Device }

// HalQueue returns the HAL queue.
func (d *Device) HalQueue() any { return d.Queue }

// Close releases the device and its instance.
func (d *Device) Close() {
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.Queue = nil
}

// ParseBackend maps a backend name to its variant. For "auto" and "" it
// reports auto, meaning the best registered backend should be chosen.
func ParseBackend(name string) (b gputypes.Backend, auto bool, err error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return gputypes.BackendEmpty, true, nil
	case "vulkan", "vk":
		return gputypes.BackendVulkan, false, nil
	case "metal":
		return gputypes.BackendMetal, false, nil
	case "dx12", "d3d12":
		return gputypes.BackendDX12, false, nil
	case "gl", "gles", "opengl":
		return gputypes.BackendGL, false, nil
	case "noop", "empty", "software":
		return gputypes.BackendEmpty, false, nil
	}
	return gputypes.BackendEmpty, false, fmt.Errorf("render: unknown backend %q", name)
}

// OpenDevice opens a headless device on the named backend ("auto", "vulkan",
// "metal", "dx12", "gl", or "software"/"noop" for whichever CPU backend is
// registered). Discrete and integrated GPUs are preferred over other
// adapters.
func OpenDevice(backendName string) (*Device, error) {
	variant, auto, err := ParseBackend(backendName)
	if err != nil {
		return nil, err
	}

	var backend hal.Backend
	if auto {
		backend, err = hal.SelectBestBackend()
		if err != nil {
			return nil, fmt.Errorf("select backend: %w", err)
		}
	} else {
		var ok bool
		backend, ok = hal.GetBackend(variant)
		if !ok {
			return nil, fmt.Errorf("render: %s backend not available", variant)
		}
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	logging.Logger().Info("device opened", "backend", backend.Variant().String(), "adapter", selected.Info.Name)
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Info:     selected.Info,
		instance: instance,
	}, nil
}
