package subover

import (
	"errors"
	"sync"
)

// EngineTrack is an opaque engine-native track handle. It is produced by
// Engine.LoadTrack and passed back verbatim to Engine.RenderAt; the
// compositor never looks inside it.
type EngineTrack any

// Engine rasterizes a loaded subtitle track into layers for a point in
// time. It owns all text layout and glyph logic.
//
// RenderAt may reuse cached shaping work between calls and is allowed to
// mutate internal render state; the compositor therefore serializes
// RenderAt against LoadTrack and against itself.
type Engine interface {
	// LoadTrack constructs an engine-native track from the raw document
	// bytes.
	LoadTrack(data []byte) (EngineTrack, error)

	// RenderAt returns the layers visible at timeMS, or Unchanged when
	// the visible content is identical to the previous RenderAt call on
	// the same track.
	RenderAt(track EngineTrack, timeMS int64) Frame
}

// EngineConfig carries the construction-time engine settings the
// compositor knows about. It is handed to the registered engine factory
// when New has to build a default engine.
type EngineConfig struct {
	// FrameWidth and FrameHeight are the destination surface dimensions.
	FrameWidth  int
	FrameHeight int

	// FontData is an optional font file (TTF/OTF). Empty means the
	// engine's built-in default font.
	FontData []byte
}

// EngineFactory builds an Engine from a configuration.
type EngineFactory func(EngineConfig) (Engine, error)

var (
	engineFactoryMu sync.RWMutex
	engineFactory   EngineFactory
)

// RegisterEngineFactory installs the factory New uses when no engine is
// injected with WithEngine. It is typically called from an init function
// in an engine package:
//
//	import _ "github.com/gogpu/subover/engine"
func RegisterEngineFactory(f EngineFactory) {
	engineFactoryMu.Lock()
	defer engineFactoryMu.Unlock()
	engineFactory = f
}

// errNoEngineRegistered is reported when New needs a default engine but
// none has been registered.
var errNoEngineRegistered = errors.New("no engine registered; import an engine package or use WithEngine")

// newDefaultEngine builds an engine from the registered factory.
func newDefaultEngine(cfg EngineConfig) (Engine, error) {
	engineFactoryMu.RLock()
	f := engineFactory
	engineFactoryMu.RUnlock()

	if f == nil {
		return nil, errNoEngineRegistered
	}
	return f(cfg)
}
