package subover

import "errors"

// Sentinel errors returned by compositor operations. Causes are wrapped,
// so callers can match with errors.Is and still inspect the chain.
var (
	// ErrLoadIO is returned when a subtitle file cannot be read.
	ErrLoadIO = errors.New("subover: subtitle file unreadable")

	// ErrLoadParse is returned when a subtitle document cannot be parsed
	// or the engine rejects the byte stream.
	ErrLoadParse = errors.New("subover: subtitle document rejected")

	// ErrEngineInit is returned by New when the rasterization engine
	// cannot be constructed. This is fatal: the Compositor is not created.
	ErrEngineInit = errors.New("subover: rasterization engine initialization failed")
)
