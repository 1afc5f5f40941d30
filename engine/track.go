package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/subover"
	"github.com/gogpu/subover/ass"
)

// track is the engine-native handle for a loaded document. It carries
// the parsed script plus the render cache: the identity of the event set
// produced by the previous RenderAt call, used for change detection.
type track struct {
	script *ass.Script

	rendered bool
	lastKey  string
}

// LoadTrack implements subover.Engine.
func (e *Engine) LoadTrack(data []byte) (subover.EngineTrack, error) {
	script, err := ass.Parse(data)
	if err != nil {
		return nil, err
	}
	return &track{script: script}, nil
}

// RenderAt implements subover.Engine. It reports Unchanged while the set
// of visible events stays identical between consecutive calls on the
// same track, Changed with no layers when the set becomes empty, and
// Changed with freshly rasterized layers otherwise.
func (e *Engine) RenderAt(handle subover.EngineTrack, timeMS int64) subover.Frame {
	t, ok := handle.(*track)
	if !ok {
		// Foreign handle: precondition violation by the caller. Treat as
		// nothing to draw rather than panicking on the render path.
		return subover.Unchanged()
	}

	visible := t.script.EventsAt(timeMS)
	key := renderKey(visible)
	if t.rendered && key == t.lastKey {
		return subover.Unchanged()
	}
	t.rendered = true
	t.lastKey = key

	if len(visible) == 0 {
		return subover.Changed(nil)
	}
	return subover.Changed(e.layout(visible))
}

// renderKey builds the identity of a visible event set. Two sets with
// the same key rasterize to the same layers.
func renderKey(events []ass.Event) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(strconv.FormatInt(ev.Start, 10))
		b.WriteByte('-')
		b.WriteString(strconv.FormatInt(ev.End, 10))
		b.WriteByte('|')
		b.WriteString(ev.Style)
		b.WriteByte('|')
		b.WriteString(ev.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// String implements fmt.Stringer for debugging.
func (t *track) String() string {
	return fmt.Sprintf("engine.track{%d events}", len(t.script.Events))
}
