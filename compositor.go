package subover

import (
	"fmt"
	"sync/atomic"
)

// Compositor orchestrates the tick → render → clear → blend cycle. It
// owns the destination Surface, the presentation time cursor, and the
// dirty-region history.
//
// Tick is driven by the host's per-frame callback on a single goroutine;
// LoadTrack may be called concurrently from another goroutine (for
// example a playlist update callback).
type Compositor struct {
	engine  Engine
	surface *Surface
	store   trackStore
	dirty   regionTracker

	// nowMS is the presentation time cursor in milliseconds. Advanced by
	// Tick with wrapping arithmetic; reset to 0 when a track is
	// installed. Atomic because the reset races with Tick by design.
	nowMS atomic.Int64
}

// New creates a Compositor with a zero-filled destination surface.
// When no engine is injected with WithEngine, the registered default
// engine factory is used; if engine construction fails (or no factory is
// registered) New fails with ErrEngineInit and no Compositor is created.
func New(opts ...Option) (*Compositor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("subover: invalid frame size %dx%d", o.width, o.height)
	}

	eng := o.engine
	if eng == nil {
		var err error
		eng, err = newDefaultEngine(EngineConfig{
			FrameWidth:  o.width,
			FrameHeight: o.height,
			FontData:    o.fontData,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEngineInit, err)
		}
	}

	return &Compositor{
		engine:  eng,
		surface: NewSurface(o.width, o.height),
	}, nil
}

// LoadTrack reads, parses, and installs a subtitle track, discarding the
// previous one and resetting the time cursor to 0. On failure the
// previously loaded track and the cursor are left untouched and the
// error is reported to the caller.
//
// LoadTrack is safe to call concurrently with Tick.
func (c *Compositor) LoadTrack(path string) error {
	t, err := loadTrack(path, c.engine)
	if err != nil {
		return err
	}

	c.store.install(t)
	c.nowMS.Store(0)

	Logger().Info("track loaded", "path", path, "duration_ms", t.durationMS)
	return nil
}

// Tick advances the time cursor by deltaMS and renders at the new time.
// While no track is loaded Tick is a no-op and does not advance the
// cursor. Negative deltas are accepted and move time backward; overflow
// wraps.
func (c *Compositor) Tick(deltaMS int64) {
	if !c.store.loaded() {
		return
	}
	now := c.nowMS.Add(deltaMS)
	c.render(now)
}

// render asks the engine for the layers at nowMS and, when the visible
// content changed, repaints the surface: prior dirty regions are cleared
// first, then the new layers are blended in order and recorded as the
// new dirty set.
func (c *Compositor) render(nowMS int64) {
	var frame Frame
	ok := c.store.withExclusive(func(t *Track) {
		frame = c.engine.RenderAt(t.handle, nowMS)
	})
	if !ok || !frame.HasChanged() {
		return
	}

	m := c.surface.Map()
	defer m.Release()

	c.dirty.clearOnto(m)

	layers := frame.Layers()
	regions := make([]region, len(layers))
	for i, l := range layers {
		drawLayer(m, l)
		regions[i] = region{x: l.X, y: l.Y, width: l.Width, height: l.Height}
	}
	c.dirty.replace(regions)

	Logger().Debug("frame repainted", "time_ms", nowMS, "layers", len(layers))
}

// Surface returns the compositor's destination surface. The host reads
// it back (Map or Snapshot) for presentation; it must not write to it.
func (c *Compositor) Surface() *Surface { return c.surface }

// CurrentTime returns the presentation time cursor in milliseconds.
func (c *Compositor) CurrentTime() int64 { return c.nowMS.Load() }

// Duration returns the loaded track's total duration in milliseconds,
// 0 when no track is loaded.
func (c *Compositor) Duration() int64 { return c.store.duration() }

// IsLoaded reports whether a track is currently loaded.
func (c *Compositor) IsLoaded() bool { return c.store.loaded() }

// HasEnded reports whether the time cursor has reached the end of the
// loaded track, including exactly at equality.
func (c *Compositor) HasEnded() bool { return c.CurrentTime() >= c.Duration() }
