package export

import (
	"image"
	"image/color"

	"github.com/soniakeys/quant/median"
	"golang.org/x/image/draw"
)

// MaxColors is the palette limit of the animated format.
const MaxColors = 256

// MedianCut builds a frame palette. Frames with few enough colours keep
// them exactly, in first-seen order; anything richer goes through median
// cut. Equal images always yield equal palettes.
type MedianCut struct {
	Colors int // palette size, capped at MaxColors
}

var _ draw.Quantizer = MedianCut{}

// Quantize appends at most q.Colors-len(p) colours describing m to p.
func (q MedianCut) Quantize(p color.Palette, m image.Image) color.Palette {
	limit := q.Colors
	if limit <= 0 || limit > MaxColors {
		limit = MaxColors
	}
	limit -= len(p)
	if limit <= 0 {
		return p
	}

	if exact, ok := exactColors(m, limit); ok {
		return append(p, exact...)
	}
	cut := median.Quantizer(limit).Quantize(make(color.Palette, 0, limit), m)
	return append(p, cut...)
}

// exactColors lists the distinct opaque colours of m in scan order, or
// reports false once there are more than limit of them.
func exactColors(m image.Image, limit int) (color.Palette, bool) {
	seen := make(map[color.RGBA]struct{}, limit+1)
	var pal color.Palette
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.At(x, y).RGBA()
			c := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 0xff}
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == limit {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, true
}

// Palettize maps every pixel of img to its nearest palette entry without
// dithering. Ties resolve to the lowest index.
func Palettize(img *image.RGBA, pal color.Palette) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, pal)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}
