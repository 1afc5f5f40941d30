// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"github.com/gogpu/gputypes"
)

// TextureDescriptor describes the GPU texture backing a subtitle
// surface. This mirrors the WebGPU GPUTextureDescriptor specification,
// restricted to what an overlay upload target needs.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the texture pixel format. Surfaces composited by
	// subover are RGBA, 8 bits per channel.
	Format gputypes.TextureFormat
}

// DefaultSurfaceDescriptor returns the descriptor for a standard overlay
// upload target: 2D, RGBA8, no mipmaps, no multisampling.
func DefaultSurfaceDescriptor(width, height int) TextureDescriptor {
	return TextureDescriptor{
		Label:  "subover surface",
		Width:  uint32(width),
		Height: uint32(height),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// BytesPerRow returns the tightly packed row pitch for the descriptor's
// format (4 bytes per pixel for the 8-bit formats used here).
func (d TextureDescriptor) BytesPerRow() uint32 {
	return d.Width * 4
}

// DataSize returns the byte length of a full upload for this descriptor.
func (d TextureDescriptor) DataSize() int {
	return int(d.Width) * int(d.Height) * 4
}
