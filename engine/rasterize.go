package engine

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/subover"
	"github.com/gogpu/subover/ass"
)

// glyphPad is the horizontal slack added around a rasterized line so
// glyphs that overhang their advance (italics, swashes) are not clipped
// at the mask edge.
const glyphPad = 2

// layout turns the visible events into layers: every dialogue line
// becomes one bottom-centered layer, lines stacking upward in document
// order (first line highest, last line closest to the bottom margin).
func (e *Engine) layout(events []ass.Event) []subover.Layer {
	var lines []string
	for _, ev := range events {
		lines = append(lines, ev.PlainText()...)
	}

	blockHeight := e.lineHeight * float64(len(lines))
	y := float64(e.height-e.marginBottom) - blockHeight

	layers := make([]subover.Layer, 0, len(lines))
	for _, line := range lines {
		top := y
		y += e.lineHeight

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cov, w, h := e.rasterizeLine(line)
		if w == 0 || h == 0 {
			continue
		}

		x := (e.width - w) / 2
		layers = append(layers, subover.Layer{
			X:        clampInt(x, 0, e.width-w),
			Y:        clampInt(int(top), 0, e.height-h),
			Width:    w,
			Height:   h,
			Color:    e.color,
			Coverage: cov,
		})
	}
	return layers
}

// rasterizeLine renders one line of text into a coverage mask. The
// returned slice is row-major, w bytes per row, h rows. Line width is
// measured by shaping (kerning-aware) and clamped to the frame so the
// compositor's in-bounds precondition always holds.
func (e *Engine) rasterizeLine(text string) (cov []uint8, w, h int) {
	advance := e.shaper.measure(text, e.fontSize)
	if advance <= 0 {
		// Shaping produced nothing useful; fall back to face metrics.
		advance = fixedToFloat(font.MeasureString(e.face, text))
	}

	w = int(math.Ceil(advance)) + 2*glyphPad
	h = int(math.Ceil(e.ascent + e.descent))
	if w > e.width {
		w = e.width
	}
	if h > e.height {
		h = e.height
	}
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 0xFF}),
		Face: e.face,
		Dot:  fixed.P(glyphPad, int(math.Ceil(e.ascent))),
	}
	d.DrawString(text)

	return mask.Pix, w, h
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
