package halo

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/halo/editor"
	"github.com/gogpu/halo/shader"
)

// Option configures an App during creation.
//
// Example:
//
//	// Render on the host's device
//	app, err := halo.New(halo.WithDevice(device, queue))
//
//	// Open a device of our own
//	app, err := halo.New(halo.WithBackend("vulkan"), halo.WithSPIRV())
type Option func(*appOptions)

type appOptions struct {
	device   hal.Device
	queue    hal.Queue
	provider any
	backend  string

	format gputypes.TextureFormat
	spirv  bool
	clock  func() time.Time

	session []editor.Option
}

func defaultOptions() appOptions {
	return appOptions{
		format: gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithDevice renders on a device owned by the caller.
func WithDevice(device hal.Device, queue hal.Queue) Option {
	return func(o *appOptions) {
		o.device = device
		o.queue = queue
	}
}

// WithDeviceProvider renders on the device of a host application. The
// provider must implement HalDevice() any and HalQueue() any.
func WithDeviceProvider(provider any) Option {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithBackend makes the App open and own a headless device on the named
// backend. See render.OpenDevice.
func WithBackend(name string) Option {
	return func(o *appOptions) {
		o.backend = name
	}
}

// WithFormat sets the color format of render targets. Default BGRA8Unorm.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *appOptions) {
		o.format = f
	}
}

// WithSPIRV compiles pipelines from naga-generated SPIR-V instead of WGSL.
func WithSPIRV() Option {
	return func(o *appOptions) {
		o.spirv = true
	}
}

// WithClock replaces time.Now for the elapsed time uniform.
func WithClock(now func() time.Time) Option {
	return func(o *appOptions) {
		o.clock = now
	}
}

// WithValidator replaces the naga validator.
func WithValidator(v shader.Validator) Option {
	return func(o *appOptions) {
		o.session = append(o.session, editor.WithValidator(v))
	}
}

// WithPrefsStore persists preference changes to s.
func WithPrefsStore(s editor.PrefsStore) Option {
	return func(o *appOptions) {
		o.session = append(o.session, editor.WithPrefsStore(s))
	}
}

// WithAutoValidate sets whether edits trigger validation. Default true.
func WithAutoValidate(on bool) Option {
	return func(o *appOptions) {
		o.session = append(o.session, editor.WithAutoValidate(on))
	}
}
