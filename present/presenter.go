// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present uploads a subover surface to GPU textures so the host
// application can draw the composited subtitles over its video frame.
//
// Two integration levels are provided: Presenter works against the
// gpucontext abstraction (hosts built on gogpu), and SurfaceTexture
// talks to a gogpu/wgpu HAL device and queue directly.
package present

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/subover"
)

// Presentation errors.
var (
	// ErrNoTextureCreator is returned when the draw context cannot
	// create textures.
	ErrNoTextureCreator = errors.New("present: draw context has no texture creator")

	// ErrInvalidTexture is returned when the created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("present: texture does not implement gpucontext.Texture")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Presenter owns the GPU texture mirroring a compositor surface. The
// texture is created lazily on the first Present call and re-uploaded on
// demand; call MarkDirty after the compositor repainted.
//
// Presenter is not safe for concurrent use. Drive it from the host's
// render callback goroutine.
type Presenter struct {
	width   int
	height  int
	texture any // lazily created host texture
	dirty   bool
	closed  bool
}

// NewPresenter creates a presenter for a surface of the given size.
func NewPresenter(width, height int) (*Presenter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("present: invalid dimensions %dx%d", width, height)
	}
	return &Presenter{width: width, height: height, dirty: true}, nil
}

// MarkDirty flags the texture for re-upload on the next Present.
func (p *Presenter) MarkDirty() { p.dirty = true }

// Present draws the surface over the host frame at (x, y). When the
// presenter is dirty the surface pixels are read back under a scoped
// mapping and uploaded first: into a fresh texture on the first call,
// through gpucontext.TextureUpdater afterwards.
func (p *Presenter) Present(dc gpucontext.TextureDrawer, s *subover.Surface, x, y float32) error {
	if p.closed {
		return errors.New("present: presenter is closed")
	}

	if p.dirty || p.texture == nil {
		m := s.Map()
		data := make([]byte, len(m.Bytes()))
		copy(data, m.Bytes())
		m.Release()

		if p.texture == nil {
			creator := dc.TextureCreator()
			if creator == nil {
				return ErrNoTextureCreator
			}
			tex, err := creator.NewTextureFromRGBA(p.width, p.height, data)
			if err != nil {
				return fmt.Errorf("present: texture creation failed: %w", err)
			}
			p.texture = tex
		} else if updater, ok := p.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return fmt.Errorf("present: texture update failed: %w", err)
			}
		}
		p.dirty = false
	}

	gpuTex, ok := p.texture.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// Texture returns the current host texture, nil before the first
// Present.
func (p *Presenter) Texture() any { return p.texture }

// Close destroys the texture. The presenter must not be used afterwards.
// Close is idempotent.
func (p *Presenter) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if d, ok := p.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	p.texture = nil
}
