package halo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/halo/editor"
	"github.com/gogpu/halo/render"
	"github.com/gogpu/halo/shader"
)

// ErrNoDevice is returned by rendering methods of an App created without a
// device.
var ErrNoDevice = errors.New("halo: no render device")

// App wires an editing session to a renderer. Validation results flow
// through the shared Slot; the renderer picks up new versions on the next
// frame.
//
// An App created without WithDevice, WithDeviceProvider or WithBackend
// validates and publishes but cannot render.
type App struct {
	slot    *shader.Slot
	session *editor.Session
	cache   *render.Cache
	bridge  *render.Bridge
	format  gputypes.TextureFormat

	device hal.Device
	owned  *render.Device

	closeOnce sync.Once
}

// New creates an App.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		slot:   &shader.Slot{},
		format: o.format,
	}
	a.session = editor.NewSession(a.slot, o.session...)

	device, queue := o.device, o.queue
	switch {
	case device != nil:
	case o.provider != nil:
		var err error
		device, queue, err = render.HALFromProvider(o.provider)
		if err != nil {
			a.session.Close()
			return nil, err
		}
	case o.backend != "":
		dev, err := render.OpenDevice(o.backend)
		if err != nil {
			a.session.Close()
			return nil, err
		}
		a.owned = dev
		device, queue = dev.Device, dev.Queue
	}
	if device == nil {
		return a, nil
	}

	copts := []render.CompilerOption{render.WithFormat(o.format)}
	if o.spirv {
		copts = append(copts, render.WithSPIRV())
	}
	a.device = device
	a.cache = render.NewCache(render.NewHALCompiler(device, copts...))
	a.cache.OnError = func(cerr *render.CompileError) {
		a.session.ReportBackendError(cerr.Version, cerr.Err)
	}

	var bopts []render.BridgeOption
	if o.clock != nil {
		bopts = append(bopts, render.WithClock(o.clock))
	}
	a.bridge = render.NewBridge(device, queue, a.slot, a.cache, bopts...)
	return a, nil
}

// Session returns the editing session.
func (a *App) Session() *editor.Session {
	return a.session
}

// Slot returns the slot validated artifacts are published to.
func (a *App) Slot() *shader.Slot {
	return a.slot
}

// Bridge returns the renderer, or nil when the App has no device.
func (a *App) Bridge() *render.Bridge {
	return a.bridge
}

// Device returns the device the App renders on, or nil.
func (a *App) Device() hal.Device {
	return a.device
}

// Init loads the last edited shader, or the default one, and starts
// validating it.
func (a *App) Init(ctx context.Context, p editor.Prefs) {
	a.session.Init(ctx, p)
}

// NewTarget creates an offscreen render target in the App's color format.
func (a *App) NewTarget(width, height uint32) (*render.Target, error) {
	if a.bridge == nil {
		return nil, ErrNoDevice
	}
	return render.NewTarget(a.device, width, height, a.format)
}

// RenderFrame draws the latest shader into t. Until a shader has validated,
// the target is only cleared.
func (a *App) RenderFrame(t *render.Target) error {
	if a.bridge == nil {
		return ErrNoDevice
	}
	if t == nil || t.View() == nil {
		return fmt.Errorf("halo: invalid render target")
	}
	return a.bridge.RenderTo(t.View(), 0, t.Frame())
}

// Close waits for in-flight validation and releases GPU resources. A
// device opened with WithBackend is closed too.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.session.Wait()
		a.session.Close()
		if a.cache != nil {
			a.cache.Close()
		}
		if a.owned != nil {
			a.owned.Close()
		}
	})
}

// DefaultPrefs returns the preferences used when none are stored.
func DefaultPrefs() editor.Prefs {
	return editor.DefaultPrefs()
}
