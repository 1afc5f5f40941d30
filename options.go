package subover

// Option configures a Compositor during creation.
type Option func(*compositorOptions)

// compositorOptions holds optional configuration for New.
type compositorOptions struct {
	width    int
	height   int
	engine   Engine
	fontData []byte
}

// defaultOptions returns the default compositor options.
func defaultOptions() compositorOptions {
	return compositorOptions{
		width:  1920,
		height: 1080,
	}
}

// WithFrameSize sets the destination surface dimensions. The canvas size
// is fixed for the compositor's lifetime; resizing means creating a new
// Compositor.
func WithFrameSize(width, height int) Option {
	return func(o *compositorOptions) {
		o.width = width
		o.height = height
	}
}

// WithEngine injects a rasterization engine instead of the registered
// default. Use this for dependency injection of custom or test engines.
func WithEngine(e Engine) Option {
	return func(o *compositorOptions) {
		o.engine = e
	}
}

// WithFontData sets the font file (TTF/OTF) handed to the default
// engine. It has no effect when an engine is injected with WithEngine.
func WithFontData(data []byte) Option {
	return func(o *compositorOptions) {
		o.fontData = data
	}
}
