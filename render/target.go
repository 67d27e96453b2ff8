package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target is an offscreen color texture frames can be rendered into.
type Target struct {
	Width, Height uint32
	Format        gputypes.TextureFormat

	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
}

// NewTarget creates a width x height render target.
func NewTarget(device hal.Device, width, height uint32, format gputypes.TextureFormat) (*Target, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("render: invalid target size %dx%d", width, height)
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "halo_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "halo_target_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create target view: %w", err)
	}
	return &Target{
		Width:   width,
		Height:  height,
		Format:  format,
		device:  device,
		texture: tex,
		view:    view,
	}, nil
}

// View returns the texture view to render into.
func (t *Target) View() hal.TextureView {
	return t.view
}

// Frame returns a frame covering the whole target.
func (t *Target) Frame() Frame {
	return FullFrame(t.Width, t.Height)
}

// Destroy releases the texture and its view.
func (t *Target) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
