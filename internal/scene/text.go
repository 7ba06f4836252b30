package scene

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// NewFace returns Go Regular at the given pixel size.
func NewFace(size float64) (font.Face, error) {
	regular, err := regularFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// DrawTextCentered draws text horizontally centred on cx with its
// vertical middle at cy.
func DrawTextCentered(dst draw.Image, face font.Face, text string, cx, cy int, c color.Color) {
	width := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	baseline := cy + (m.Ascent.Ceil()-m.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(cx - width/2), Y: fixed.I(baseline)},
	}
	d.DrawString(text)
}

// TextSize returns the advance width and line height of text in face.
func TextSize(face font.Face, text string) (int, int) {
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), m.Height.Ceil()
}

// Covers reports whether Go Regular has a glyph for every rune of text.
// Emoji and most symbols are missing from it.
func Covers(text string) bool {
	f, err := regularFont()
	if err != nil || text == "" {
		return false
	}
	var buf sfnt.Buffer
	for _, r := range text {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}
