package engine

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shaper measures text with go-text/typesetting's HarfBuzz
// implementation, so advances include kerning and ligature substitution.
//
// The parsed font.Font is read-only and safe for concurrent use; a
// lightweight font.Face is created per call because Face is not.
// HarfbuzzShaper instances carry mutable buffers and are pooled.
type shaper struct {
	font *font.Font
	pool sync.Pool
}

// newShaper parses the font data for shaping.
func newShaper(data []byte) (*shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &shaper{
		font: face.Font,
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}, nil
}

// measure returns the total horizontal advance of text at the given
// size, in pixels.
func (s *shaper) measure(text string, size float64) float64 {
	if text == "" {
		return 0
	}
	runes := []rune(text)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(s.font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	var advance fixed.Int26_6
	for _, g := range output.Glyphs {
		advance += g.Advance
	}
	return fixedToFloat(advance)
}

// detectScript inspects the runes and returns the script of the first
// non-space character. This is a simple heuristic; mixed-script dialogue
// lines shape with the dominant leading script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
