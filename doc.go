// Package subover composites time-indexed subtitle graphics onto a
// fixed-size RGBA pixel surface in real time.
//
// The Compositor owns a destination Surface and a time cursor driven by
// the host's per-frame Tick calls. On every tick it asks a rasterization
// Engine for the layers visible at the current time. The engine reports
// a tri-state result: when nothing visible changed since the previous
// frame the surface is left untouched; when content changed the
// compositor erases exactly the regions it painted last frame and
// alpha-blends the new layers in order.
//
// A track can be replaced from another goroutine (for example a playlist
// update) while ticks are in flight; the track slot is guarded so a
// render always observes either the old or the new track, never a
// partially installed one.
//
// Basic usage:
//
//	import (
//	    "github.com/gogpu/subover"
//	    _ "github.com/gogpu/subover/engine" // registers the default engine
//	)
//
//	c, err := subover.New(subover.WithFrameSize(1920, 1080))
//	if err != nil { ... }
//	if err := c.LoadTrack("episode01.ass"); err != nil { ... }
//	for {
//	    c.Tick(16)
//	    present(c.Surface())
//	}
//
// By default subover produces no log output. Call SetLogger to enable
// logging.
package subover
