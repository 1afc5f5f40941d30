// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"

	"github.com/gogpu/subover"
)

// HAL texture errors.
var (
	// ErrNilDevice is returned when creating a surface texture without a
	// HAL device.
	ErrNilDevice = errors.New("present: HAL device is nil")

	// ErrNilQueue is returned when creating a surface texture without an
	// upload queue.
	ErrNilQueue = errors.New("present: upload queue is nil")

	// ErrSizeMismatch is returned when uploading pixel data whose size
	// does not match the texture.
	ErrSizeMismatch = errors.New("present: pixel data size mismatch")

	// ErrTextureDestroyed is returned when uploading to a destroyed
	// texture.
	ErrTextureDestroyed = errors.New("present: texture has been destroyed")
)

// textureWriter is the subset of hal.Queue used for uploads.
type textureWriter interface {
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D)
}

// SurfaceTexture is a GPU texture fed directly from a subover surface
// through a gogpu/wgpu HAL device, for hosts that manage their own
// device rather than going through gpucontext.
type SurfaceTexture struct {
	device    hal.Device
	queue     textureWriter
	texture   hal.Texture
	desc      TextureDescriptor
	destroyed bool
}

// NewSurfaceTexture creates a 2D RGBA8 texture sized for the overlay
// surface, usable as a copy destination and a sampled texture binding.
func NewSurfaceTexture(device hal.Device, queue textureWriter, width, height int) (*SurfaceTexture, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("present: invalid dimensions %dx%d", width, height)
	}

	desc := DefaultSurfaceDescriptor(width, height)
	halDesc := &hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        halFormat(desc.Format),
		Usage:         types.TextureUsageCopyDst | types.TextureUsageTextureBinding,
	}

	texture, err := device.CreateTexture(halDesc)
	if err != nil {
		return nil, fmt.Errorf("present: HAL texture creation failed: %w", err)
	}

	return &SurfaceTexture{
		device:  device,
		queue:   queue,
		texture: texture,
		desc:    desc,
	}, nil
}

// Upload copies the surface pixels into the GPU texture. The surface is
// mapped for the duration of the queue write.
func (t *SurfaceTexture) Upload(s *subover.Surface) error {
	m := s.Map()
	defer m.Release()
	return t.Write(m.Bytes())
}

// Write uploads raw RGBA pixel data. The data must be tightly packed and
// cover the full texture.
func (t *SurfaceTexture) Write(data []byte) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if len(data) != t.desc.DataSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), t.desc.DataSize())
	}

	dst := &hal.ImageCopyTexture{
		Texture:  t.texture,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  t.desc.BytesPerRow(),
		RowsPerImage: t.desc.Height,
	}
	size := &hal.Extent3D{
		Width:              t.desc.Width,
		Height:             t.desc.Height,
		DepthOrArrayLayers: 1,
	}

	t.queue.WriteTexture(dst, data, layout, size)
	return nil
}

// Raw returns the underlying HAL texture handle for binding, nil after
// Destroy.
func (t *SurfaceTexture) Raw() hal.Texture {
	if t.destroyed {
		return nil
	}
	return t.texture
}

// Descriptor returns the texture's descriptor.
func (t *SurfaceTexture) Descriptor() TextureDescriptor { return t.desc }

// Destroy releases the texture. Idempotent.
func (t *SurfaceTexture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// halFormat maps the gputypes format to the HAL texture format.
func halFormat(format gputypes.TextureFormat) types.TextureFormat {
	switch format {
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	default:
		return types.TextureFormatRGBA8Unorm
	}
}
