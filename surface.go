package subover

import (
	"image"
	"sync"
)

// Surface is a fixed-size RGBA pixel buffer (4 bytes per pixel,
// row-major). The Compositor owns one Surface for its whole lifetime and
// paints subtitle layers onto it; the host reads it back for
// presentation.
//
// All pixel access goes through Map, which grants exclusive access for
// the duration of a compositing pass or a read-back.
type Surface struct {
	width  int
	height int

	mu   sync.Mutex
	data []uint8
}

// NewSurface creates a zero-filled (fully transparent) surface.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Map grants exclusive access to the pixel data. The mapping must be
// ended with Release; until then every other Map call blocks.
func (s *Surface) Map() *MappedSurface {
	s.mu.Lock()
	return &MappedSurface{surface: s}
}

// Snapshot returns a copy of the current pixels as an image.RGBA.
// It maps the surface internally, so it must not be called while the
// caller already holds a mapping.
func (s *Surface) Snapshot() *image.RGBA {
	m := s.Map()
	defer m.Release()

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.data)
	return img
}

// MappedSurface is a scoped, exclusive mapping of a Surface's pixels.
type MappedSurface struct {
	surface  *Surface
	released bool
}

// Bytes returns the raw RGBA pixel data of the mapped surface.
// The slice is only valid until Release.
func (m *MappedSurface) Bytes() []uint8 { return m.surface.data }

// Width returns the width of the mapped surface in pixels.
func (m *MappedSurface) Width() int { return m.surface.width }

// Height returns the height of the mapped surface in pixels.
func (m *MappedSurface) Height() int { return m.surface.height }

// Release ends the mapping. Idempotent: releasing twice is safe.
func (m *MappedSurface) Release() {
	if m.released {
		return
	}
	m.released = true
	m.surface.mu.Unlock()
}
