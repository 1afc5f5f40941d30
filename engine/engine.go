// Package engine is a software rasterization engine for subover. It
// shapes dialogue text with go-text/typesetting, rasterizes it into
// per-pixel coverage masks with golang.org/x/image, and lays visible
// lines out bottom-centered on the frame.
//
// Importing this package registers it as subover's default engine:
//
//	import _ "github.com/gogpu/subover/engine"
package engine

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/subover"
)

func init() {
	subover.RegisterEngineFactory(func(cfg subover.EngineConfig) (subover.Engine, error) {
		opts := []Option{WithFrameSize(cfg.FrameWidth, cfg.FrameHeight)}
		if len(cfg.FontData) > 0 {
			opts = append(opts, WithFontData(cfg.FontData))
		}
		return New(opts...)
	})
}

// Engine rasterizes subtitle tracks into coverage-mask layers.
//
// Engine is not safe for concurrent use on its own: RenderAt reuses
// shaping and face state between calls. The compositor serializes all
// calls through its track lock, which is exactly the access pattern the
// engine is built for.
type Engine struct {
	width  int
	height int

	fontSize     float64
	color        uint32
	marginBottom int

	face   font.Face
	shaper *shaper

	// Vertical metrics at fontSize, in pixels.
	ascent     float64
	descent    float64
	lineHeight float64
}

// New creates an engine. Frame size, font, text size, color, and bottom
// margin all have working defaults; a failure to parse the configured
// font is a construction error.
func New(opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("engine: invalid frame size %dx%d", o.width, o.height)
	}

	fontData := o.fontData
	if len(fontData) == 0 {
		fontData = goregular.TTF
	}
	fontSize := o.fontSize
	if fontSize <= 0 {
		fontSize = float64(o.height) / 18
	}
	marginBottom := o.marginBottom
	if marginBottom <= 0 {
		marginBottom = o.height / 20
	}

	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("engine: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: create face: %w", err)
	}

	sh, err := newShaper(fontData)
	if err != nil {
		return nil, fmt.Errorf("engine: shaper: %w", err)
	}

	metrics := face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)
	lineHeight := fixedToFloat(metrics.Height)
	if lineHeight < ascent+descent {
		lineHeight = ascent + descent
	}

	return &Engine{
		width:        o.width,
		height:       o.height,
		fontSize:     fontSize,
		color:        o.color,
		marginBottom: marginBottom,
		face:         face,
		shaper:       sh,
		ascent:       ascent,
		descent:      descent,
		lineHeight:   math.Ceil(lineHeight),
	}, nil
}

// Option configures an Engine during creation.
type Option func(*engineOptions)

type engineOptions struct {
	width        int
	height       int
	fontData     []byte
	fontSize     float64
	color        uint32
	marginBottom int
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		width:  1920,
		height: 1080,
		// White, stored alpha 0 = fully opaque under the inverted
		// alpha convention of the blending law.
		color: 0xFFFFFF00,
	}
}

// WithFrameSize sets the destination frame dimensions layers are laid
// out against.
func WithFrameSize(width, height int) Option {
	return func(o *engineOptions) {
		o.width = width
		o.height = height
	}
}

// WithFontData sets the font file (TTF/OTF). The default is Go Regular.
func WithFontData(data []byte) Option {
	return func(o *engineOptions) {
		o.fontData = data
	}
}

// WithFontSize sets the text size in pixels. The default scales with the
// frame height.
func WithFontSize(size float64) Option {
	return func(o *engineOptions) {
		o.fontSize = size
	}
}

// WithColor sets the packed RGBA layer color (0xRRGGBBAA). The alpha
// byte is stored inverted: 0 is fully opaque, 255 fully transparent.
func WithColor(color uint32) Option {
	return func(o *engineOptions) {
		o.color = color
	}
}

// WithBottomMargin sets the distance in pixels between the lowest
// subtitle line and the bottom frame edge.
func WithBottomMargin(margin int) Option {
	return func(o *engineOptions) {
		o.marginBottom = margin
	}
}
