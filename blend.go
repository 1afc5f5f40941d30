package subover

// drawLayer composites a single layer onto the mapped surface using a
// source-over blend with per-pixel coverage as opacity:
//
//	dst = (dst*(255-k) + src*k) / 255
//
// per channel, integer truncation. The layer's stored alpha byte uses an
// inverted convention (0 = opaque), so it is flipped once up front and
// then treated like any other channel. The destination alpha is not read
// back as an opacity; all four channels blend uniformly.
//
// The layer rectangle is assumed to lie within the surface. Layers whose
// coverage is zero everywhere still run through the loop; the blend is a
// no-op for k=0 pixels.
func drawLayer(m *MappedSurface, l Layer) {
	var src [4]uint16
	src[0] = uint16(uint8(l.Color >> 24))
	src[1] = uint16(uint8(l.Color >> 16))
	src[2] = uint16(uint8(l.Color >> 8))
	src[3] = uint16(255 - uint8(l.Color))

	stride := m.surface.width * 4
	data := m.surface.data

	for y := 0; y < l.Height; y++ {
		dstOff := (y+l.Y)*stride + l.X*4
		row := data[dstOff : dstOff+l.Width*4]
		cov := l.Coverage[y*l.Width : (y+1)*l.Width]

		for x, k := range cov {
			kk := uint16(k)
			inv := 255 - kk
			p := row[x*4 : x*4+4 : x*4+4]
			p[0] = uint8((uint16(p[0])*inv + src[0]*kk) / 255)
			p[1] = uint8((uint16(p[1])*inv + src[1]*kk) / 255)
			p[2] = uint8((uint16(p[2])*inv + src[2]*kk) / 255)
			p[3] = uint8((uint16(p[3])*inv + src[3]*kk) / 255)
		}
	}
}

// clearRegion fills a rectangle of the mapped surface with
// fully-transparent black (all channel bytes zero).
func clearRegion(m *MappedSurface, r region) {
	stride := m.surface.width * 4
	data := m.surface.data

	for y := r.y; y < r.y+r.height; y++ {
		off := y*stride + r.x*4
		row := data[off : off+r.width*4]
		for i := range row {
			row[i] = 0
		}
	}
}
