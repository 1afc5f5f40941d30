package subover

// region is a rectangle recorded from a previous paint so it can be
// precisely cleared before the next one.
type region struct {
	x, y          int
	width, height int
}

// regionTracker remembers exactly the rectangles painted on the previous
// successful render. The list is replaced wholesale after each changed
// frame; it always reflects exactly what is currently on the surface.
//
// regionTracker is only touched from the render path and needs no
// locking of its own.
type regionTracker struct {
	regions []region
}

// clearOnto zero-fills every recorded region on the mapped surface.
func (t *regionTracker) clearOnto(m *MappedSurface) {
	for _, r := range t.regions {
		clearRegion(m, r)
	}
}

// replace swaps the stored list for the new frame's regions.
// An empty (or nil) list is valid and represents an idle frame.
func (t *regionTracker) replace(regions []region) {
	t.regions = regions
}
