package subover

// Layer is one piece of rasterized subtitle content: a rectangle in
// destination pixel coordinates, a single packed color, and a per-pixel
// coverage bitmap describing how much of that color to apply.
//
// Color is packed RGBA, big-endian (0xRRGGBBAA). The alpha byte carries
// an inverted convention inherited from the rasterization engine:
// stored alpha 0 means fully opaque. Blending inverts it before use.
//
// Coverage holds Width*Height bytes, row-major, one per pixel:
// 0 contributes nothing, 255 contributes the full color.
//
// Layer rectangles must lie within the destination surface. That is a
// precondition on the engine producing them; the compositor performs no
// clipping.
type Layer struct {
	X, Y          int
	Width, Height int
	Color         uint32
	Coverage      []uint8
}

// Frame is the tri-state result of rendering a track at a point in time.
// It is either unchanged (the visible content is identical to the prior
// frame, nothing to draw) or changed with an ordered, possibly empty,
// sequence of layers. "Changed with zero layers" means the previous
// content must be cleared and nothing painted in its place; it is
// distinct from unchanged.
type Frame struct {
	changed bool
	layers  []Layer
}

// Unchanged reports that the visible content did not change.
func Unchanged() Frame { return Frame{} }

// Changed reports new visible content. layers may be empty.
func Changed(layers []Layer) Frame {
	return Frame{changed: true, layers: layers}
}

// HasChanged reports whether the frame carries new content.
func (f Frame) HasChanged() bool { return f.changed }

// Layers returns the frame's layers in paint order.
// It is nil for unchanged frames.
func (f Frame) Layers() []Layer { return f.layers }
