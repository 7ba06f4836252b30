package export

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/text/unicode/norm"

	"github.com/ivlev/treedecor/internal/scene"
)

// MaxCaption is the longest caption, in characters, that fits the label.
const MaxCaption = 15

// NormalizeCaption composes the text, collapses surrounding space and
// truncates it to limit characters.
func NormalizeCaption(s string, limit int) string {
	if limit <= 0 {
		limit = MaxCaption
	}
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	r := []rune(s)
	if len(r) > limit {
		r = r[:limit]
	}
	return strings.TrimSpace(string(r))
}

// drawCaption paints text on a translucent band near the bottom of dst.
func drawCaption(dst draw.Image, text string) error {
	if text == "" {
		return nil
	}
	b := dst.Bounds()
	face, err := scene.NewFace(float64(b.Dx()) * 0.07)
	if err != nil {
		return err
	}
	defer face.Close()

	w, h := scene.TextSize(face, text)
	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()*88/100
	padX, padY := h/2, h/4
	band := image.Rect(cx-w/2-padX, cy-h/2-padY, cx+w/2+padX, cy+h/2+padY).Intersect(b)

	draw.Draw(dst, band, image.NewUniform(color.NRGBA{A: 0x73}), image.Point{}, draw.Over)
	scene.DrawTextCentered(dst, face, text, cx, cy, color.White)
	return nil
}
